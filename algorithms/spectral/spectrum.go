package spectral

import (
	"github.com/RyanBlaney/sonido-vox/algorithms/windowing"
)

// Spectrum computes Hann-windowed magnitude spectra over a signal.
// It is the shared front end for the spectral feature extractors.
type Spectrum struct {
	sampleRate int
	frameSize  int
	hopSize    int

	fft    *FFT
	window *windowing.Hann
}

// NewSpectrum creates a spectrum analyzer with default analysis
// parameters (25 ms frames, 10 ms hop at the given rate).
func NewSpectrum(sampleRate int) *Spectrum {
	frameSize := sampleRate * 25 / 1000
	hopSize := sampleRate * 10 / 1000
	return NewSpectrumWithParams(sampleRate, frameSize, hopSize)
}

// NewSpectrumWithParams creates a spectrum analyzer with explicit frame
// and hop sizes in samples.
func NewSpectrumWithParams(sampleRate, frameSize, hopSize int) *Spectrum {
	return &Spectrum{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		hopSize:    hopSize,
		fft:        NewFFT(),
		window:     windowing.NewHann(frameSize, false),
	}
}

// Compute returns the magnitude spectrum of a single frame. The frame is
// Hann-windowed first; frames shorter than the analysis size are zero
// padded.
func (s *Spectrum) Compute(frame []float64) []float64 {
	if len(frame) == 0 {
		return []float64{}
	}

	padded := frame
	if len(frame) != s.frameSize {
		padded = make([]float64, s.frameSize)
		copy(padded, frame)
	}

	windowed := s.window.Apply(padded)
	return s.fft.Magnitude(s.fft.Compute(windowed))
}

// ComputeFrames slices the signal into overlapping frames and returns one
// magnitude spectrum per frame.
func (s *Spectrum) ComputeFrames(signal []float64) [][]float64 {
	if len(signal) < s.frameSize {
		return [][]float64{}
	}

	numFrames := (len(signal)-s.frameSize)/s.hopSize + 1
	spectra := make([][]float64, 0, numFrames)

	for i := range numFrames {
		start := i * s.hopSize
		end := start + s.frameSize
		if end > len(signal) {
			break
		}
		spectra = append(spectra, s.Compute(signal[start:end]))
	}

	return spectra
}

// FrequencyBins returns the center frequency of each magnitude bin for
// spectra produced by this analyzer.
func (s *Spectrum) FrequencyBins() []float64 {
	numBins := s.frameSize/2 + 1
	bins := make([]float64, numBins)
	for i := range numBins {
		bins[i] = float64(i) * float64(s.sampleRate) / float64(s.frameSize)
	}
	return bins
}

// FrameSize returns the analysis frame size in samples
func (s *Spectrum) FrameSize() int {
	return s.frameSize
}

// HopSize returns the analysis hop size in samples
func (s *Spectrum) HopSize() int {
	return s.hopSize
}
