package harmonic

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// HNR computes the harmonics-to-noise ratio from the normalized
// autocorrelation of short frames. With r the autocorrelation peak at
// the pitch period, HNR = 10*log10(r / (1 - r)): the periodic part of
// the frame energy against the aperiodic remainder.
//
// Reference: Boersma (1993), "Accurate short-term analysis of the
// fundamental frequency and the harmonics-to-noise ratio of a sampled
// sound"
type HNR struct {
	sampleRate int
	frameSize  int
	hopSize    int
	minF0      float64
	maxF0      float64
	epsilon    float64
}

// NewHNR creates an HNR calculator searching pitch periods for
// 80-400 Hz voices, with 40 ms frames and 20 ms hop.
func NewHNR(sampleRate int) *HNR {
	return NewHNRWithRange(sampleRate, 80.0, 400.0)
}

// NewHNRWithRange creates an HNR calculator with an explicit pitch range
func NewHNRWithRange(sampleRate int, minF0, maxF0 float64) *HNR {
	return &HNR{
		sampleRate: sampleRate,
		frameSize:  sampleRate * 40 / 1000,
		hopSize:    sampleRate * 20 / 1000,
		minF0:      minF0,
		maxF0:      maxF0,
		epsilon:    1e-10,
	}
}

// Compute returns the mean HNR in dB over all frames with a detectable
// period, clipped to [0, 30]. Returns 0 when nothing periodic is found.
func (h *HNR) Compute(signal []float64) float64 {
	values := h.ComputeFrames(signal)
	if len(values) == 0 {
		return 0.0
	}
	return stat.Mean(values, nil)
}

// ComputeFrames returns the per-frame HNR track in dB, skipping frames
// without a usable autocorrelation peak.
func (h *HNR) ComputeFrames(signal []float64) []float64 {
	if len(signal) < h.frameSize {
		return []float64{}
	}

	numFrames := (len(signal)-h.frameSize)/h.hopSize + 1
	values := make([]float64, 0, numFrames)

	for i := range numFrames {
		start := i * h.hopSize
		end := start + h.frameSize
		if end > len(signal) {
			break
		}

		if hnr, ok := h.computeFrame(signal[start:end]); ok {
			values = append(values, hnr)
		}
	}

	return values
}

func (h *HNR) computeFrame(frame []float64) (float64, bool) {
	mean := stat.Mean(frame, nil)

	centered := make([]float64, len(frame))
	energy := 0.0
	for i, s := range frame {
		centered[i] = s - mean
		energy += centered[i] * centered[i]
	}
	if energy < h.epsilon {
		return 0.0, false
	}

	minLag := int(float64(h.sampleRate) / h.maxF0)
	maxLag := int(float64(h.sampleRate) / h.minF0)
	maxLag = min(maxLag, len(centered)-1)
	if minLag < 1 || minLag >= maxLag {
		return 0.0, false
	}

	// Per-lag window normalization, so a perfectly periodic frame
	// reaches r = 1 at its period.
	prefix := make([]float64, len(centered)+1)
	for i, s := range centered {
		prefix[i+1] = prefix[i] + s*s
	}

	best := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		overlap := len(centered) - lag
		corr := 0.0
		for i := range overlap {
			corr += centered[i] * centered[i+lag]
		}

		norm := math.Sqrt(prefix[overlap] * (prefix[len(centered)] - prefix[lag]))
		if norm < h.epsilon {
			continue
		}
		if normalized := corr / norm; normalized > best {
			best = normalized
		}
	}

	if best <= 0.0 {
		return 0.0, false
	}
	if best >= 1.0 {
		return 30.0, true
	}

	hnr := 10.0 * math.Log10(best/(1.0-best))
	return math.Min(30.0, math.Max(0.0, hnr)), true
}
