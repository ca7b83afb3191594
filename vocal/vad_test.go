package vocal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

func TestVADDetectsVoicedTone(t *testing.T) {
	w := makeWaveform(vowelSignal(220, 16000, 2.0), 16000, -20)

	vad := NewVoiceActivityDetector(config.DefaultVADConfig())
	result := vad.Detect(w)

	require.NotEmpty(t, result.FrameVoiced)
	assert.Greater(t, result.VoicedRatio, 0.4)
}

func TestVADRejectsSilence(t *testing.T) {
	w := makeWaveform(make([]float64, 32000), 16000, -100)

	vad := NewVoiceActivityDetector(config.DefaultVADConfig())
	result := vad.Detect(w)

	assert.Equal(t, 0.0, result.VoicedRatio)
}

func TestVADRejectsNoise(t *testing.T) {
	// Broadband noise clears the energy gate but fails the ZCR ceiling
	w := makeWaveform(noiseSamples(9, 32000), 16000, -20)

	vad := NewVoiceActivityDetector(config.DefaultVADConfig())
	result := vad.Detect(w)

	assert.Less(t, result.VoicedRatio, 0.1)
}

func TestVADShortInput(t *testing.T) {
	w := makeWaveform(make([]float64, 10), 16000, -100)

	vad := NewVoiceActivityDetector(config.DefaultVADConfig())
	result := vad.Detect(w)

	assert.Empty(t, result.FrameVoiced)
	assert.Equal(t, 0.0, result.VoicedRatio)
}

func TestVADVoicedRatioInRange(t *testing.T) {
	// Voiced tone in the first half, silence in the second
	voiced := vowelSignal(220, 16000, 1.0)
	silence := make([]float64, 16000)
	samples := append(append([]float64{}, voiced...), silence...)
	w := makeWaveform(samples, 16000, -20)

	vad := NewVoiceActivityDetector(config.DefaultVADConfig())
	result := vad.Detect(w)

	firstHalf := result.VoicedRatioInRange(0, 16000)
	secondHalf := result.VoicedRatioInRange(16000, 32000)
	assert.Greater(t, firstHalf, secondHalf)
	assert.Less(t, secondHalf, 0.1)
}
