package vocal

import (
	"math"
	"math/rand"
	"time"
)

// vowelSignal synthesizes a vowel-like tone: a harmonic series with
// 1/n amplitude decay, slow amplitude modulation and a touch of noise.
func vowelSignal(f0 float64, sampleRate int, seconds float64) []float64 {
	n := int(seconds * float64(sampleRate))
	rng := rand.New(rand.NewSource(42))

	out := make([]float64, n)
	for i := range n {
		ti := float64(i) / float64(sampleRate)

		sample := 0.0
		for h := 1; float64(h)*f0 < 3000.0; h++ {
			sample += math.Sin(2*math.Pi*f0*float64(h)*ti) / float64(h)
		}

		am := 1.0 + 0.3*math.Sin(2*math.Pi*3.0*ti)
		out[i] = 0.3*am*sample + 0.005*(rng.Float64()*2-1)
	}
	return out
}

// makeWaveform wraps samples in an analysis-ready waveform
func makeWaveform(samples []float64, sampleRate int, inputLoudnessDb float64) *Waveform {
	return &Waveform{
		Samples:         samples,
		SampleRate:      sampleRate,
		Duration:        time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second)),
		InputLoudnessDb: inputLoudnessDb,
		InputPeak:       0.5,
	}
}

func noiseSamples(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range n {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}
