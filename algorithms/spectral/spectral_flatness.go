package spectral

import (
	"math"
)

// SpectralFlatness computes the Wiener entropy of a magnitude spectrum,
// the ratio of geometric to arithmetic mean of the power spectrum.
// Values near 1 indicate noise-like spectra, values near 0 indicate
// tonal spectra. Breathy phonation raises flatness.
type SpectralFlatness struct {
	sampleRate int
	epsilon    float64
}

// NewSpectralFlatness creates a new spectral flatness calculator
func NewSpectralFlatness(sampleRate int) *SpectralFlatness {
	return &SpectralFlatness{
		sampleRate: sampleRate,
		epsilon:    1e-10,
	}
}

// Compute calculates flatness in [0, 1] for a magnitude spectrum.
// The geometric mean is accumulated in the log domain to avoid underflow.
func (sf *SpectralFlatness) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	logSum := 0.0
	linearSum := 0.0
	for _, mag := range spectrum {
		power := mag*mag + sf.epsilon
		logSum += math.Log(power)
		linearSum += power
	}

	n := float64(len(spectrum))
	geometricMean := math.Exp(logSum / n)
	arithmeticMean := linearSum / n

	if arithmeticMean <= sf.epsilon {
		return 0.0
	}

	flatness := geometricMean / arithmeticMean
	return math.Min(1.0, math.Max(0.0, flatness))
}

// ComputeBand calculates flatness restricted to [lowFreq, highFreq] Hz
func (sf *SpectralFlatness) ComputeBand(spectrum []float64, lowFreq, highFreq float64) float64 {
	if len(spectrum) == 0 || highFreq <= lowFreq {
		return 0.0
	}

	binWidth := float64(sf.sampleRate) / float64((len(spectrum)-1)*2)
	lowBin := int(lowFreq / binWidth)
	highBin := int(highFreq / binWidth)

	lowBin = max(lowBin, 0)
	highBin = min(highBin, len(spectrum)-1)
	if lowBin >= highBin {
		return 0.0
	}

	return sf.Compute(spectrum[lowBin : highBin+1])
}

// ComputeFrames processes multiple magnitude spectra
func (sf *SpectralFlatness) ComputeFrames(spectrogram [][]float64) []float64 {
	values := make([]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		values[t] = sf.Compute(spectrum)
	}
	return values
}
