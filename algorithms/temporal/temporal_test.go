package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-vox/algorithms/harmonic"
)

func sineSignal(freq, amplitude float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range n {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestRMSSine(t *testing.T) {
	e := NewEnergy(16000)
	signal := sineSignal(200, 0.5, 16000, 16000)
	assert.InDelta(t, 0.5/math.Sqrt2, e.RMS(signal), 0.005)
}

func TestRMSEdgeCases(t *testing.T) {
	e := NewEnergy(16000)
	assert.Equal(t, 0.0, e.RMS(nil))
	assert.Equal(t, -100.0, e.RMSDb(make([]float64, 100)))
}

func TestRMSDb(t *testing.T) {
	e := NewEnergy(16000)

	// Constant 0.1 has RMS 0.1, exactly -20 dBFS
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = 0.1
	}
	assert.InDelta(t, -20.0, e.RMSDb(signal), 1e-9)
}

func TestPeak(t *testing.T) {
	e := NewEnergy(16000)
	assert.InDelta(t, 0.5, e.Peak(sineSignal(200, 0.5, 16000, 16000)), 0.001)
	assert.Equal(t, 0.7, e.Peak([]float64{0.1, -0.7, 0.3}))
}

func TestComputeFrames(t *testing.T) {
	e := NewEnergy(16000)
	signal := sineSignal(200, 1.0, 16000, 16000)

	frames := e.ComputeFrames(signal)
	require.NotEmpty(t, frames)
	for _, rms := range frames {
		assert.InDelta(t, 1.0/math.Sqrt2, rms, 0.05)
	}

	assert.Empty(t, e.ComputeFrames(signal[:10]))
}

func TestDynamicRangeConstantLevel(t *testing.T) {
	e := NewEnergy(16000)
	signal := sineSignal(200, 0.5, 16000, 16000)
	assert.Less(t, e.DynamicRangeDb(signal), 1.0)
}

func TestDynamicRangeVaryingLevel(t *testing.T) {
	e := NewEnergy(16000)

	// First half at full level, second half 20 dB down
	loud := sineSignal(200, 0.5, 16000, 8000)
	quiet := sineSignal(200, 0.05, 16000, 8000)
	signal := append(append([]float64{}, loud...), quiet...)

	dr := e.DynamicRangeDb(signal)
	assert.InDelta(t, 20.0, dr, 3.0)
}

func TestPerturbationStableSine(t *testing.T) {
	sampleRate := 16000
	signal := sineSignal(220, 0.5, sampleRate, sampleRate)

	track := harmonic.NewF0Estimator(sampleRate).Compute(signal)
	require.NotEmpty(t, track.VoicedF0s())

	p := NewPerturbation(sampleRate).Compute(signal, track)
	assert.Less(t, p.Jitter, 2.0)
	assert.Less(t, p.Shimmer, 3.0)
	assert.Less(t, p.Aperiodicity, 0.1)
}

func TestPerturbationEmptyTrack(t *testing.T) {
	p := NewPerturbation(16000).Compute(make([]float64, 1000), nil)
	assert.Equal(t, 0.0, p.Jitter)
	assert.Equal(t, 0.0, p.Shimmer)
	assert.Equal(t, 0.0, p.Aperiodicity)
}

func TestRelativePerturbation(t *testing.T) {
	// Constant series has zero perturbation
	assert.Equal(t, 0.0, relativePerturbation([]float64{5, 5, 5, 5}))

	// Alternating 9/11 around mean 10: mean diff 2, 20%
	assert.InDelta(t, 20.0, relativePerturbation([]float64{9, 11, 9, 11}), 1e-9)

	assert.Equal(t, 0.0, relativePerturbation([]float64{1, 2}))
}
