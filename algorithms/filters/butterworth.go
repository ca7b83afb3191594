package filters

import (
	"fmt"
	"math"
)

// biquad is a single second-order section in Direct Form II.
//
// Coefficients follow Robert Bristow-Johnson's "Cookbook formulae for
// audio EQ biquad filter coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64 // a0 normalized to 1

	w1, w2 float64 // delay line
}

func (s *biquad) process(input float64) float64 {
	w := input - s.a1*s.w1 - s.a2*s.w2
	output := s.b0*w + s.b1*s.w1 + s.b2*s.w2
	s.w2 = s.w1
	s.w1 = w
	return output
}

func (s *biquad) reset() {
	s.w1, s.w2 = 0.0, 0.0
}

// newLowpassSection builds a cookbook lowpass biquad at cutoff with the
// given Q.
func newLowpassSection(sampleRate int, cutoff, q float64) biquad {
	w0 := 2.0 * math.Pi * cutoff / float64(sampleRate)
	if w0 >= math.Pi {
		w0 = math.Pi * 0.99
	}

	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)

	a0 := 1.0 + alpha
	return biquad{
		b0: (1.0 - cosW0) / 2.0 / a0,
		b1: (1.0 - cosW0) / a0,
		b2: (1.0 - cosW0) / 2.0 / a0,
		a1: -2.0 * cosW0 / a0,
		a2: (1.0 - alpha) / a0,
	}
}

// newHighpassSection builds a cookbook highpass biquad at cutoff with the
// given Q.
func newHighpassSection(sampleRate int, cutoff, q float64) biquad {
	w0 := 2.0 * math.Pi * cutoff / float64(sampleRate)
	if w0 >= math.Pi {
		w0 = math.Pi * 0.99
	}

	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)

	a0 := 1.0 + alpha
	return biquad{
		b0: (1.0 + cosW0) / 2.0 / a0,
		b1: -(1.0 + cosW0) / a0,
		b2: (1.0 + cosW0) / 2.0 / a0,
		a1: -2.0 * cosW0 / a0,
		a2: (1.0 - alpha) / a0,
	}
}

// Q values for a 4th-order Butterworth response split into two cascaded
// second-order sections (poles at 22.5 and 67.5 degrees).
var butterworth4Q = [2]float64{0.54119610, 1.30656296}

// ButterworthBandLimit is a 4th-order Butterworth band-limiting filter
// built from cascaded biquad sections: a 4th-order highpass at the low
// cutoff followed by a 4th-order lowpass at the high cutoff.
//
// When the high cutoff reaches or exceeds Nyquist the lowpass half is
// skipped, so band-limiting an already-limited signal stays a no-op.
type ButterworthBandLimit struct {
	sampleRate int
	lowCutoff  float64
	highCutoff float64

	sections []biquad
}

// NewButterworthBandLimit creates the band-limiting filter.
//
// Parameters:
//   - sampleRate: sample rate in Hz
//   - lowCutoff: highpass cutoff in Hz (0 disables the highpass half)
//   - highCutoff: lowpass cutoff in Hz (>= Nyquist disables the lowpass half)
func NewButterworthBandLimit(sampleRate int, lowCutoff, highCutoff float64) (*ButterworthBandLimit, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if lowCutoff < 0 || highCutoff <= lowCutoff {
		return nil, fmt.Errorf("invalid cutoffs: low=%.1f high=%.1f", lowCutoff, highCutoff)
	}

	f := &ButterworthBandLimit{
		sampleRate: sampleRate,
		lowCutoff:  lowCutoff,
		highCutoff: highCutoff,
	}

	nyquist := float64(sampleRate) / 2.0
	if lowCutoff > 0 {
		for _, q := range butterworth4Q {
			f.sections = append(f.sections, newHighpassSection(sampleRate, lowCutoff, q))
		}
	}
	if highCutoff < nyquist {
		for _, q := range butterworth4Q {
			f.sections = append(f.sections, newLowpassSection(sampleRate, highCutoff, q))
		}
	}

	return f, nil
}

// Process filters a single sample through the cascade
func (f *ButterworthBandLimit) Process(input float64) float64 {
	out := input
	for i := range f.sections {
		out = f.sections[i].process(out)
	}
	return out
}

// ProcessBuffer filters an entire buffer, returning a new slice
func (f *ButterworthBandLimit) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = f.Process(sample)
	}
	return output
}

// ProcessZeroPhase filters the buffer forward and then backward, doubling
// the effective order and cancelling the phase distortion of the cascade.
// The filter state is reset between passes.
func (f *ButterworthBandLimit) ProcessZeroPhase(input []float64) []float64 {
	if len(input) == 0 {
		return []float64{}
	}

	f.Reset()
	forward := f.ProcessBuffer(input)

	reverse(forward)
	f.Reset()
	backward := f.ProcessBuffer(forward)
	reverse(backward)

	f.Reset()
	return backward
}

// Reset clears the delay lines of every section.
// Call this when processing discontinuous audio segments.
func (f *ButterworthBandLimit) Reset() {
	for i := range f.sections {
		f.sections[i].reset()
	}
}

// Cutoffs returns the configured low and high cutoff frequencies
func (f *ButterworthBandLimit) Cutoffs() (low, high float64) {
	return f.lowCutoff, f.highCutoff
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
