package vocal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-vox/algorithms/temporal"
	"github.com/RyanBlaney/sonido-vox/transcode"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

func TestPreprocessNormalizesRMS(t *testing.T) {
	n := 16000
	pcm := make([]float64, n)
	for i := range n {
		pcm[i] = 0.2 * math.Sin(2*math.Pi*220*float64(i)/16000.0)
	}

	p := NewPreprocessor(config.DefaultPreprocessConfig())
	w, err := p.Process(&transcode.AudioData{PCM: pcm, SampleRate: 16000, Channels: 1, Format: "wav"})
	require.NoError(t, err)

	energy := temporal.NewEnergy(16000)
	assert.InDelta(t, 0.1, energy.RMS(w.Samples), 1e-3)

	// Pre-normalization level survives on the waveform
	assert.InDelta(t, 20*math.Log10(0.2/math.Sqrt2), w.InputLoudnessDb, 0.5)
	assert.InDelta(t, 0.2, w.InputPeak, 0.02)
	assert.Equal(t, 16000, w.SampleRate)
	assert.Equal(t, "wav", w.SourceFormat)
	assert.InDelta(t, 1.0, w.Seconds(), 0.01)
}

func TestPreprocessDownmixesStereo(t *testing.T) {
	n := 16000
	pcm := make([]float64, 2*n)
	for i := range n {
		pcm[2*i] = 0.4 * math.Sin(2*math.Pi*220*float64(i)/16000.0) // left
		pcm[2*i+1] = 0.0                                           // right
	}

	p := NewPreprocessor(config.DefaultPreprocessConfig())
	w, err := p.Process(&transcode.AudioData{PCM: pcm, SampleRate: 16000, Channels: 2})
	require.NoError(t, err)

	// Averaging halves the left-only amplitude
	assert.Len(t, w.Samples, n)
	assert.InDelta(t, 20*math.Log10(0.2/math.Sqrt2), w.InputLoudnessDb, 0.5)
}

func TestPreprocessResamples(t *testing.T) {
	n := 48000
	pcm := make([]float64, n)
	for i := range n {
		pcm[i] = 0.3 * math.Sin(2*math.Pi*220*float64(i)/48000.0)
	}

	p := NewPreprocessor(config.DefaultPreprocessConfig())
	w, err := p.Process(&transcode.AudioData{PCM: pcm, SampleRate: 48000, Channels: 1})
	require.NoError(t, err)

	assert.Equal(t, 16000, w.SampleRate)
	assert.InDelta(t, 16000, len(w.Samples), 160)
}

func TestPreprocessBandLimits(t *testing.T) {
	// A 30 Hz rumble sits below the voice band and should vanish
	n := 32000
	pcm := make([]float64, n)
	for i := range n {
		pcm[i] = 0.5 * math.Sin(2*math.Pi*30*float64(i)/16000.0)
	}

	p := NewPreprocessor(config.DefaultPreprocessConfig())
	w, err := p.Process(&transcode.AudioData{PCM: pcm, SampleRate: 16000, Channels: 1})
	require.NoError(t, err)

	// Loudness is measured after filtering, so the rumble reads quiet
	assert.Less(t, w.InputLoudnessDb, -30.0)
}

func TestPreprocessRejectsSilence(t *testing.T) {
	p := NewPreprocessor(config.DefaultPreprocessConfig())

	// All-zero input must fail instead of normalizing up into noise
	_, err := p.Process(&transcode.AudioData{PCM: make([]float64, 16000), SampleRate: 16000, Channels: 1})
	assert.ErrorIs(t, err, ErrInvalidAudio)

	// Barely audible input below the floor fails too
	quiet := make([]float64, 16000)
	for i := range quiet {
		quiet[i] = 2e-5 * math.Sin(2*math.Pi*220*float64(i)/16000.0)
	}
	_, err = p.Process(&transcode.AudioData{PCM: quiet, SampleRate: 16000, Channels: 1})
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestPreprocessAcceptsQuietInput(t *testing.T) {
	// -63 dBFS sits well above the -85 dBFS floor
	quiet := make([]float64, 16000)
	for i := range quiet {
		quiet[i] = 0.001 * math.Sin(2*math.Pi*220*float64(i)/16000.0)
	}

	p := NewPreprocessor(config.DefaultPreprocessConfig())
	w, err := p.Process(&transcode.AudioData{PCM: quiet, SampleRate: 16000, Channels: 1})
	require.NoError(t, err)

	energy := temporal.NewEnergy(16000)
	assert.InDelta(t, 0.1, energy.RMS(w.Samples), 1e-3)
}

func TestPreprocessRejectsEmpty(t *testing.T) {
	p := NewPreprocessor(config.DefaultPreprocessConfig())

	_, err := p.Process(&transcode.AudioData{})
	assert.ErrorIs(t, err, ErrInvalidAudio)

	_, err = p.Process(nil)
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestWaveformSlice(t *testing.T) {
	w := makeWaveform(make([]float64, 16000), 16000, -20)

	assert.Len(t, w.Slice(0, 0.5), 8000)
	assert.Len(t, w.Slice(0.5, 2.0), 8000)
	assert.Empty(t, w.Slice(2.0, 3.0))
	assert.Empty(t, w.Slice(0.5, 0.5))
	assert.Len(t, w.Slice(-1.0, 1.0), 16000)
}
