package windowing

import (
	"math"
)

// Hamming window. Compared to Hann it leaves a small residual at the
// edges, trading first-sidelobe level for a narrower main lobe, which
// suits LPC and formant analysis.
type Hamming struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHamming creates a Hamming window. Symmetric windows suit filter
// design, periodic windows suit spectral analysis.
func NewHamming(size int, symmetric bool) *Hamming {
	h := &Hamming{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

func (h *Hamming) generate() {
	h.coefficients = make([]float64, h.size)
	if h.size == 1 {
		h.coefficients[0] = 1.0
		return
	}

	denom := float64(h.size)
	if h.symmetric {
		denom = float64(h.size - 1)
	}

	for i := range h.size {
		h.coefficients[i] = 0.54 - 0.46*math.Cos(2.0*math.Pi*float64(i)/denom)
	}
}

// Apply returns a windowed copy of the signal, nil on size mismatch
func (h *Hamming) Apply(signal []float64) []float64 {
	if len(signal) != h.size {
		return nil
	}

	windowed := make([]float64, h.size)
	for i, s := range signal {
		windowed[i] = s * h.coefficients[i]
	}
	return windowed
}

// Coefficients returns the window coefficients
func (h *Hamming) Coefficients() []float64 {
	return h.coefficients
}

// Size returns the window length
func (h *Hamming) Size() int {
	return h.size
}
