package harmonic

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-vox/algorithms/windowing"
)

// H1H2 measures the level difference in dB between the first and second
// harmonic. Large positive H1-H2 indicates a breathy, open glottal
// configuration; values near zero or negative indicate pressed voice.
type H1H2 struct {
	sampleRate int
	frameSize  int
	hopSize    int

	// Harmonic level is the peak within +/- this fraction of the
	// nominal harmonic frequency, absorbing small pitch drift.
	searchFraction float64

	f0        *F0Estimator
	window    *windowing.Hann
	epsilon   float64
}

// NewH1H2 creates an H1-H2 calculator with 40 ms frames and 20 ms hop
func NewH1H2(sampleRate int) *H1H2 {
	frameSize := sampleRate * 40 / 1000
	return &H1H2{
		sampleRate:     sampleRate,
		frameSize:      frameSize,
		hopSize:        sampleRate * 20 / 1000,
		searchFraction: 0.10,
		f0:             NewF0Estimator(sampleRate),
		window:         windowing.NewHann(frameSize, false),
		epsilon:        1e-10,
	}
}

// Compute returns the mean H1-H2 in dB over voiced frames, clipped to
// [-10, 25]. Returns 0 when no voiced frame is found.
func (hh *H1H2) Compute(signal []float64) float64 {
	values := hh.ComputeFrames(signal)
	if len(values) == 0 {
		return 0.0
	}
	return stat.Mean(values, nil)
}

// ComputeFrames returns per-frame H1-H2 values for voiced frames only
func (hh *H1H2) ComputeFrames(signal []float64) []float64 {
	if len(signal) < hh.frameSize {
		return []float64{}
	}

	numFrames := (len(signal)-hh.frameSize)/hh.hopSize + 1
	values := make([]float64, 0, numFrames)

	for i := range numFrames {
		start := i * hh.hopSize
		end := start + hh.frameSize
		if end > len(signal) {
			break
		}

		frame := signal[start:end]
		f0, _ := hh.f0.ComputeFrame(frame)
		if f0 <= 0 {
			continue
		}

		if v, ok := hh.computeFrame(frame, f0); ok {
			values = append(values, v)
		}
	}

	return values
}

func (hh *H1H2) computeFrame(frame []float64, f0 float64) (float64, bool) {
	windowed := hh.window.Apply(frame)
	if windowed == nil {
		return 0.0, false
	}

	spectrum := fft.FFTReal(windowed)
	half := len(spectrum)/2 + 1
	binWidth := float64(hh.sampleRate) / float64(len(spectrum))

	h1 := hh.harmonicLevel(spectrum[:half], f0, binWidth)
	h2 := hh.harmonicLevel(spectrum[:half], 2.0*f0, binWidth)
	if h1 <= 0 || h2 <= 0 {
		return 0.0, false
	}

	diff := 20.0*math.Log10(h1+hh.epsilon) - 20.0*math.Log10(h2+hh.epsilon)
	return math.Min(25.0, math.Max(-10.0, diff)), true
}

// harmonicLevel finds the magnitude peak near a nominal harmonic
// frequency.
func (hh *H1H2) harmonicLevel(spectrum []complex128, freq, binWidth float64) float64 {
	lowBin := int(freq * (1.0 - hh.searchFraction) / binWidth)
	highBin := int(freq*(1.0+hh.searchFraction)/binWidth) + 1

	lowBin = max(lowBin, 0)
	highBin = min(highBin, len(spectrum)-1)
	if lowBin > highBin {
		return 0.0
	}

	mags := make([]float64, 0, highBin-lowBin+1)
	for i := lowBin; i <= highBin; i++ {
		mags = append(mags, math.Hypot(real(spectrum[i]), imag(spectrum[i])))
	}
	return floats.Max(mags)
}
