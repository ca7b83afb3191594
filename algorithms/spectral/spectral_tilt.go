package spectral

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SpectralTilt estimates the slope of the spectral envelope in dB per
// octave over a frequency band, via linear regression of log magnitude
// against log frequency. Steep negative tilt reads as dark or breathy,
// shallow tilt as bright or pressed.
type SpectralTilt struct {
	sampleRate int
	lowFreq    float64
	highFreq   float64
	epsilon    float64
}

// NewSpectralTilt creates a tilt estimator over the 300-3000 Hz band
// where the vocal source slope is most informative.
func NewSpectralTilt(sampleRate int) *SpectralTilt {
	return NewSpectralTiltWithBand(sampleRate, 300.0, 3000.0)
}

// NewSpectralTiltWithBand creates a tilt estimator over an explicit band
func NewSpectralTiltWithBand(sampleRate int, lowFreq, highFreq float64) *SpectralTilt {
	return &SpectralTilt{
		sampleRate: sampleRate,
		lowFreq:    lowFreq,
		highFreq:   highFreq,
		epsilon:    1e-10,
	}
}

// Compute returns the tilt in dB/octave for a magnitude spectrum,
// clipped to [-20, 5]. Returns 0 when the band holds too few bins.
func (st *SpectralTilt) Compute(spectrum []float64) float64 {
	if len(spectrum) < 4 {
		return 0.0
	}

	binWidth := float64(st.sampleRate) / float64((len(spectrum)-1)*2)

	var logFreqs, logMags []float64
	for i, mag := range spectrum {
		freq := float64(i) * binWidth
		if freq < st.lowFreq || freq > st.highFreq {
			continue
		}
		logFreqs = append(logFreqs, math.Log10(freq))
		logMags = append(logMags, 20.0*math.Log10(mag+st.epsilon))
	}

	if len(logFreqs) < 4 {
		return 0.0
	}

	// Slope is dB per decade; log10(2) rescales to dB per octave
	_, slope := stat.LinearRegression(logFreqs, logMags, nil, false)
	tilt := slope * math.Log10(2.0)

	return math.Min(5.0, math.Max(-20.0, tilt))
}

// ComputeFrames processes multiple magnitude spectra
func (st *SpectralTilt) ComputeFrames(spectrogram [][]float64) []float64 {
	tilts := make([]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		tilts[t] = st.Compute(spectrum)
	}
	return tilts
}
