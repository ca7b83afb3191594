package speech

import (
	"fmt"
	"math"
)

// LPC models the vocal tract as an all-pole filter via linear
// prediction. The coefficients describe the spectral envelope of a
// frame, which is where formant peaks live.
type LPC struct {
	order int
}

// LPCResult holds the prediction filter for one frame
type LPCResult struct {
	Coefficients   []float64 `json:"coefficients"`    // a0=1, a1..ap
	Gain           float64   `json:"gain"`            // sqrt of residual energy
	ResidualEnergy float64   `json:"residual_energy"` // relative prediction error
	Order          int       `json:"order"`
}

// NewLPC creates an LPC analyzer. A non-positive order picks the
// speech rule of thumb, 12 plus one pole per kHz of sample rate.
func NewLPC(sampleRate, order int) *LPC {
	if order <= 0 {
		order = 12 + sampleRate/1000
	}
	return &LPC{order: order}
}

// Compute fits the prediction filter to a frame with the
// Levinson-Durbin recursion over the frame's autocorrelation.
func (l *LPC) Compute(frame []float64) (*LPCResult, error) {
	if len(frame) < l.order*2 {
		return nil, fmt.Errorf("frame of %d samples too short for LPC order %d", len(frame), l.order)
	}

	r := autocorrelation(frame, l.order)
	if r[0] <= 0 {
		return nil, fmt.Errorf("zero energy frame")
	}

	a := make([]float64, l.order+1)
	a[0] = 1.0
	e := r[0]

	for i := 1; i <= l.order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc -= a[j] * r[i-j]
		}
		if e == 0 {
			break
		}
		k := acc / e

		a[i] = k
		for j := 1; j < i; j++ {
			a[j] -= k * a[i-j]
		}

		e *= 1.0 - k*k
		if e <= 0 {
			break
		}
	}

	return &LPCResult{
		Coefficients:   a,
		Gain:           math.Sqrt(math.Max(e, 0)),
		ResidualEnergy: e / r[0],
		Order:          l.order,
	}, nil
}

// Envelope evaluates the all-pole magnitude response |1/A(e^jw)| on
// nfft/2+1 bins up to Nyquist.
func (l *LPC) Envelope(result *LPCResult, nfft int) []float64 {
	if nfft <= 0 {
		nfft = 1024
	}

	envelope := make([]float64, nfft/2+1)
	for bin := range envelope {
		omega := 2.0 * math.Pi * float64(bin) / float64(nfft)

		re := 0.0
		im := 0.0
		for i, a := range result.Coefficients {
			angle := -float64(i) * omega
			re += a * math.Cos(angle)
			im += a * math.Sin(angle)
		}

		mag := math.Hypot(re, im)
		if mag > 0 {
			envelope[bin] = 1.0 / mag
		}
	}
	return envelope
}

// autocorrelation returns lags 0..maxLag of a frame
func autocorrelation(frame []float64, maxLag int) []float64 {
	r := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i < len(frame)-lag; i++ {
			sum += frame[i] * frame[i+lag]
		}
		r[lag] = sum
	}
	return r
}
