package vocal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

func neutralMeans() map[string]float64 {
	return map[string]float64{
		"cpp":               9.5,
		"hnr":               19.0,
		"spectral_tilt":     -8.0,
		"flatness":          0.25,
		"f0_confidence":     0.65,
		"aperiodicity":      0.3,
		"spectral_centroid": 1500.0,
		"h1h2":              4.0,
	}
}

func TestScoreNeutralVoice(t *testing.T) {
	scorer := NewScorer(config.DefaultScoringConfig())
	result := scorer.Score(aggregateWithMeans(neutralMeans()))

	// All z-scores are zero at the reference means
	assert.InDelta(t, 50.0, result.Score, 1e-6)
	assert.Equal(t, GradeMedium, result.Grade)
	assert.False(t, result.Capped)
	assert.Equal(t, []string{"smooth"}, result.Tags)

	for name, z := range result.ZScores {
		assert.InDelta(t, 0.0, z, 1e-9, "z-score for %s", name)
	}
}

func TestScoreClearVoiceGradesHigh(t *testing.T) {
	means := neutralMeans()
	means["cpp"] = 14.0 // z = +1.8
	means["hnr"] = 25.0 // z = +1.0

	scorer := NewScorer(config.DefaultScoringConfig())
	result := scorer.Score(aggregateWithMeans(means))

	assert.InDelta(t, 80.2, result.Score, 0.5)
	assert.Equal(t, GradeHigh, result.Grade)
}

func TestScoreBreathyCap(t *testing.T) {
	// Strong cepstral peak and stable pitch push the composite high,
	// but the collapsed HNR marks the voice as breathy
	means := neutralMeans()
	means["cpp"] = 20.0
	means["hnr"] = 5.0
	means["flatness"] = 0.05
	means["f0_confidence"] = 0.95
	means["aperiodicity"] = 0.1

	scorer := NewScorer(config.DefaultScoringConfig())
	result := scorer.Score(aggregateWithMeans(means))

	assert.InDelta(t, 60.0, result.Score, 1e-9)
	assert.True(t, result.Capped)
	assert.Equal(t, GradeMedium, result.Grade)
	assert.Contains(t, result.Tags, "rough")
}

func TestScoreTags(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(map[string]float64)
		contains string
	}{
		{"bright", func(m map[string]float64) {
			m["spectral_tilt"] = -4.0
			m["spectral_centroid"] = 2000.0
		}, "bright"},
		{"dark", func(m map[string]float64) {
			m["spectral_tilt"] = -12.0
			m["spectral_centroid"] = 1200.0
		}, "dark"},
		{"rough from aperiodicity", func(m map[string]float64) {
			m["aperiodicity"] = 0.5
		}, "rough"},
		{"rough from hnr", func(m map[string]float64) {
			m["hnr"] = 10.0
		}, "rough"},
		{"breathy", func(m map[string]float64) {
			m["h1h2"] = 10.0
		}, "breathy"},
	}

	scorer := NewScorer(config.DefaultScoringConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			means := neutralMeans()
			tt.mutate(means)
			result := scorer.Score(aggregateWithMeans(means))
			assert.Contains(t, result.Tags, tt.contains)
		})
	}
}

func TestScoreMonotonicInHNR(t *testing.T) {
	// Raising HNR with everything else fixed never lowers the score,
	// across the breathy-cap boundary included
	scorer := NewScorer(config.DefaultScoringConfig())

	previous := -1.0
	for hnr := 2.0; hnr <= 30.0; hnr += 1.0 {
		means := neutralMeans()
		means["hnr"] = hnr
		result := scorer.Score(aggregateWithMeans(means))

		assert.GreaterOrEqual(t, result.Score, previous, "hnr=%v", hnr)
		previous = result.Score
	}
}

func TestScoreSkipsMissingReference(t *testing.T) {
	cfg := config.DefaultScoringConfig()
	cfg.Weights["mystery_feature"] = 5.0

	scorer := NewScorer(cfg)
	result := scorer.Score(aggregateWithMeans(neutralMeans()))

	assert.InDelta(t, 50.0, result.Score, 1e-6)
	assert.NotContains(t, result.ZScores, "mystery_feature")
}
