package speech

import (
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-vox/algorithms/windowing"
)

// Formants holds the first three vocal tract resonances in Hz. A zero
// value means the formant was not found.
type Formants struct {
	F1 float64 `json:"f1"`
	F2 float64 `json:"f2"`
	F3 float64 `json:"f3"`
}

// FormantAnalyzer extracts vocal tract resonances from the LPC
// spectral envelope. F1 and F2 carry vowel identity; F3 tracks
// speaker characteristics.
type FormantAnalyzer struct {
	sampleRate int
	frameSize  int
	hopSize    int

	// Peaks outside this range are not plausible F1-F3 values
	minFreq float64
	maxFreq float64

	// Peaks closer than this merge into the stronger one
	minSpacingHz float64

	// Peaks below this fraction of the envelope maximum are ignored
	minPeakRatio float64

	preEmphasis float64
	nfft        int

	lpc    *LPC
	window *windowing.Hamming
}

// NewFormantAnalyzer creates an analyzer with 40 ms frames, 20 ms hop
// and the speech rule-of-thumb LPC order.
func NewFormantAnalyzer(sampleRate int) *FormantAnalyzer {
	frameSize := sampleRate * 40 / 1000
	return &FormantAnalyzer{
		sampleRate:   sampleRate,
		frameSize:    frameSize,
		hopSize:      sampleRate * 20 / 1000,
		minFreq:      90.0,
		maxFreq:      4000.0,
		minSpacingHz: 200.0,
		minPeakRatio: 0.1,
		preEmphasis:  0.97,
		nfft:         1024,
		lpc:          NewLPC(sampleRate, 0),
		window:       windowing.NewHamming(frameSize, false),
	}
}

// Compute averages per-frame formants over the signal. Frames where a
// formant was not found do not contribute to its mean.
func (fa *FormantAnalyzer) Compute(signal []float64) Formants {
	frames := fa.ComputeFrames(signal)

	var f1s, f2s, f3s []float64
	for _, f := range frames {
		if f.F1 > 0 {
			f1s = append(f1s, f.F1)
		}
		if f.F2 > 0 {
			f2s = append(f2s, f.F2)
		}
		if f.F3 > 0 {
			f3s = append(f3s, f.F3)
		}
	}

	result := Formants{}
	if len(f1s) > 0 {
		result.F1 = stat.Mean(f1s, nil)
	}
	if len(f2s) > 0 {
		result.F2 = stat.Mean(f2s, nil)
	}
	if len(f3s) > 0 {
		result.F3 = stat.Mean(f3s, nil)
	}
	return result
}

// ComputeFrames returns the per-frame formant track
func (fa *FormantAnalyzer) ComputeFrames(signal []float64) []Formants {
	if len(signal) < fa.frameSize {
		return nil
	}

	numFrames := (len(signal)-fa.frameSize)/fa.hopSize + 1
	frames := make([]Formants, 0, numFrames)

	for i := range numFrames {
		start := i * fa.hopSize
		end := start + fa.frameSize
		if end > len(signal) {
			break
		}
		if f, ok := fa.computeFrame(signal[start:end]); ok {
			frames = append(frames, f)
		}
	}

	return frames
}

func (fa *FormantAnalyzer) computeFrame(frame []float64) (Formants, bool) {
	// Pre-emphasis flattens the source tilt so envelope peaks stand out
	emphasized := make([]float64, len(frame))
	emphasized[0] = frame[0]
	for i := 1; i < len(frame); i++ {
		emphasized[i] = frame[i] - fa.preEmphasis*frame[i-1]
	}

	windowed := fa.window.Apply(emphasized)
	if windowed == nil {
		return Formants{}, false
	}

	lpcResult, err := fa.lpc.Compute(windowed)
	if err != nil {
		return Formants{}, false
	}

	envelope := fa.lpc.Envelope(lpcResult, fa.nfft)
	peaks := fa.pickPeaks(envelope)
	if len(peaks) == 0 {
		return Formants{}, false
	}

	formants := Formants{}
	if len(peaks) > 0 {
		formants.F1 = peaks[0]
	}
	if len(peaks) > 1 {
		formants.F2 = peaks[1]
	}
	if len(peaks) > 2 {
		formants.F3 = peaks[2]
	}
	return formants, true
}

// pickPeaks finds envelope maxima in the formant range, merging peaks
// closer than the minimum spacing and returning frequencies in
// ascending order.
func (fa *FormantAnalyzer) pickPeaks(envelope []float64) []float64 {
	binWidth := float64(fa.sampleRate) / float64(fa.nfft)

	maxVal := 0.0
	for _, v := range envelope {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		return nil
	}

	type peak struct {
		freq float64
		amp  float64
	}
	var peaks []peak
	for i := 1; i < len(envelope)-1; i++ {
		if envelope[i] <= envelope[i-1] || envelope[i] <= envelope[i+1] {
			continue
		}
		if envelope[i]/maxVal < fa.minPeakRatio {
			continue
		}
		freq := float64(i) * binWidth
		if freq < fa.minFreq || freq > fa.maxFreq {
			continue
		}
		peaks = append(peaks, peak{freq: freq, amp: envelope[i]})
	}

	// Peaks arrive in frequency order; merge close neighbors keeping
	// the stronger one.
	var merged []peak
	for _, p := range peaks {
		if len(merged) > 0 && p.freq-merged[len(merged)-1].freq < fa.minSpacingHz {
			if p.amp > merged[len(merged)-1].amp {
				merged[len(merged)-1] = p
			}
			continue
		}
		merged = append(merged, p)
	}

	freqs := make([]float64, 0, 3)
	for _, p := range merged {
		freqs = append(freqs, p.freq)
		if len(freqs) == 3 {
			break
		}
	}
	return freqs
}
