package spectral

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps the go-dsp FFT for the spectral feature extractors
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the forward FFT of a real signal.
// go-dsp handles arbitrary lengths, including non-power-of-2.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// ComputeInverse computes the inverse FFT
func (f *FFT) ComputeInverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.IFFT(x)
}

// ComputeInverseReal computes the inverse FFT and keeps the real part
func (f *FFT) ComputeInverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	out := make([]float64, len(result))
	for i, v := range result {
		out[i] = real(v)
	}
	return out
}

// Magnitude converts an FFT result to a magnitude spectrum over the
// non-redundant half (DC through Nyquist).
func (f *FFT) Magnitude(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return []float64{}
	}

	half := len(spectrum)/2 + 1
	mag := make([]float64, half)
	for i := range half {
		mag[i] = math.Hypot(real(spectrum[i]), imag(spectrum[i]))
	}
	return mag
}
