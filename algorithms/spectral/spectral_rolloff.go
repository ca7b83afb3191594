package spectral

// SpectralRolloff computes the frequency below which a given fraction of
// the total spectral energy is concentrated.
type SpectralRolloff struct {
	sampleRate int
	percentile float64
}

// NewSpectralRolloff creates a rolloff calculator at the conventional
// 85th percentile.
func NewSpectralRolloff(sampleRate int) *SpectralRolloff {
	return NewSpectralRolloffWithPercentile(sampleRate, 0.85)
}

// NewSpectralRolloffWithPercentile creates a rolloff calculator with an
// explicit energy fraction in (0, 1].
func NewSpectralRolloffWithPercentile(sampleRate int, percentile float64) *SpectralRolloff {
	if percentile <= 0 || percentile > 1 {
		percentile = 0.85
	}
	return &SpectralRolloff{
		sampleRate: sampleRate,
		percentile: percentile,
	}
}

// Compute returns the rolloff frequency in Hz for a magnitude spectrum
func (sr *SpectralRolloff) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	totalEnergy := 0.0
	for _, mag := range spectrum {
		totalEnergy += mag * mag
	}
	if totalEnergy == 0 {
		return 0.0
	}

	target := sr.percentile * totalEnergy
	binWidth := float64(sr.sampleRate) / float64((len(spectrum)-1)*2)

	cumulative := 0.0
	for i, mag := range spectrum {
		cumulative += mag * mag
		if cumulative >= target {
			return float64(i) * binWidth
		}
	}

	return float64(len(spectrum)-1) * binWidth
}

// ComputeFrames processes multiple magnitude spectra
func (sr *SpectralRolloff) ComputeFrames(spectrogram [][]float64) []float64 {
	rolloffs := make([]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		rolloffs[t] = sr.Compute(spectrum)
	}
	return rolloffs
}
