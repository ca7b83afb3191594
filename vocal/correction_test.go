package vocal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-vox/algorithms/stats"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

func aggregateWithMeans(means map[string]float64) *Aggregate {
	agg := &Aggregate{Features: make(map[string]stats.Summary)}
	for name, mean := range means {
		agg.Features[name] = stats.Summary{Mean: mean, Median: mean, P90: mean}
	}
	return agg
}

func TestResolveProfile(t *testing.T) {
	sc := NewSourceCorrector(config.DefaultCorrections())

	tests := []struct {
		source  string
		format  string
		profile string
	}{
		{"kakaotalk", "", "voice-messenger"},
		{"whatsapp", "m4a", "voice-messenger"},
		{"tiktok", "", "social-video"},
		{"", "amr", "amr-nb"},
		{"", "3gp", "amr-nb"},
		{"low-bitrate", "", "low-bitrate"},
		{" KakaoTalk ", "", "voice-messenger"},
		{"studio", "wav", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.profile, sc.ResolveProfile(tt.source, tt.format),
			"source=%q format=%q", tt.source, tt.format)
	}
}

func TestApplyShiftsAggregate(t *testing.T) {
	sc := NewSourceCorrector(config.DefaultCorrections())
	agg := aggregateWithMeans(map[string]float64{
		"hnr":           18.0,
		"spectral_tilt": -8.0,
		"flatness":      0.25,
	})

	profile := sc.Apply(agg, "kakaotalk", "")

	require.Equal(t, "voice-messenger", profile)
	assert.InDelta(t, 17.0, agg.Mean("hnr"), 1e-9)
	assert.InDelta(t, -7.5, agg.Mean("spectral_tilt"), 1e-9)
	assert.InDelta(t, 0.27, agg.Mean("flatness"), 1e-9)
}

func TestApplyNoProfile(t *testing.T) {
	sc := NewSourceCorrector(config.DefaultCorrections())
	agg := aggregateWithMeans(map[string]float64{"hnr": 18.0})

	profile := sc.Apply(agg, "", "wav")

	assert.Equal(t, "", profile)
	assert.InDelta(t, 18.0, agg.Mean("hnr"), 1e-9)
}
