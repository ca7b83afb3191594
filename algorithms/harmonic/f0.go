package harmonic

import (
	"math"
)

// F0Track holds the frame-by-frame pitch estimate of a signal
type F0Track struct {
	F0s         []float64 `json:"f0s"`         // Hz, 0 for unvoiced frames
	Confidences []float64 `json:"confidences"` // normalized autocorrelation peak, 0-1
	HopSize     int       `json:"hop_size"`    // samples between frames
	SampleRate  int       `json:"sample_rate"`
}

// VoicedF0s returns only the nonzero pitch estimates
func (t *F0Track) VoicedF0s() []float64 {
	voiced := make([]float64, 0, len(t.F0s))
	for _, f0 := range t.F0s {
		if f0 > 0 {
			voiced = append(voiced, f0)
		}
	}
	return voiced
}

// MeanConfidence averages the confidence track
func (t *F0Track) MeanConfidence() float64 {
	if len(t.Confidences) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, c := range t.Confidences {
		sum += c
	}
	return sum / float64(len(t.Confidences))
}

// F0Estimator estimates fundamental frequency with normalized
// autocorrelation and parabolic peak interpolation.
type F0Estimator struct {
	sampleRate int
	frameSize  int
	hopSize    int
	minF0      float64
	maxF0      float64

	// Frames whose best peak falls below this are marked unvoiced
	voicingThreshold float64
}

// NewF0Estimator creates an estimator covering the general vocal range
// 60-700 Hz with 40 ms frames and 10 ms hop.
func NewF0Estimator(sampleRate int) *F0Estimator {
	return NewF0EstimatorWithRange(sampleRate, 60.0, 700.0)
}

// NewF0EstimatorWithRange creates an estimator with an explicit pitch
// search range, e.g. 60-450 Hz for male voices or 100-700 Hz for female.
func NewF0EstimatorWithRange(sampleRate int, minF0, maxF0 float64) *F0Estimator {
	return &F0Estimator{
		sampleRate:       sampleRate,
		frameSize:        sampleRate * 40 / 1000,
		hopSize:          sampleRate * 10 / 1000,
		minF0:            minF0,
		maxF0:            maxF0,
		voicingThreshold: 0.30,
	}
}

// Compute estimates the pitch track of a signal
func (fe *F0Estimator) Compute(signal []float64) *F0Track {
	track := &F0Track{
		HopSize:    fe.hopSize,
		SampleRate: fe.sampleRate,
	}

	if len(signal) < fe.frameSize {
		return track
	}

	numFrames := (len(signal)-fe.frameSize)/fe.hopSize + 1
	for i := range numFrames {
		start := i * fe.hopSize
		end := start + fe.frameSize
		if end > len(signal) {
			break
		}

		f0, confidence := fe.ComputeFrame(signal[start:end])
		track.F0s = append(track.F0s, f0)
		track.Confidences = append(track.Confidences, confidence)
	}

	return track
}

// ComputeFrame estimates pitch and voicing confidence for one frame.
// Returns f0 = 0 when the frame looks unvoiced.
func (fe *F0Estimator) ComputeFrame(frame []float64) (f0, confidence float64) {
	if len(frame) < 2 {
		return 0.0, 0.0
	}

	// Remove DC so silence and breath frames don't correlate
	mean := 0.0
	for _, s := range frame {
		mean += s
	}
	mean /= float64(len(frame))

	centered := make([]float64, len(frame))
	energy := 0.0
	for i, s := range frame {
		centered[i] = s - mean
		energy += centered[i] * centered[i]
	}
	if energy < 1e-10 {
		return 0.0, 0.0
	}

	minLag := int(float64(fe.sampleRate) / fe.maxF0)
	maxLag := int(float64(fe.sampleRate) / fe.minF0)
	maxLag = min(maxLag, len(centered)-1)
	if minLag < 1 || minLag >= maxLag {
		return 0.0, 0.0
	}

	// Normalized cross-correlation over the lag search range. Each lag
	// is normalized by the energies of the two overlapping windows so
	// the peak reaches 1 for a perfectly periodic frame regardless of
	// lag length.
	prefix := make([]float64, len(centered)+1)
	for i, s := range centered {
		prefix[i+1] = prefix[i] + s*s
	}

	bestLag := 0
	bestCorr := 0.0
	corrs := make([]float64, maxLag+1)
	for lag := minLag; lag <= maxLag; lag++ {
		overlap := len(centered) - lag
		corr := 0.0
		for i := range overlap {
			corr += centered[i] * centered[i+lag]
		}

		headEnergy := prefix[overlap]
		tailEnergy := prefix[len(centered)] - prefix[lag]
		norm := math.Sqrt(headEnergy * tailEnergy)
		if norm < 1e-10 {
			continue
		}

		corrs[lag] = corr / norm
		if corrs[lag] > bestCorr {
			bestCorr = corrs[lag]
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < fe.voicingThreshold {
		return 0.0, math.Max(0.0, bestCorr)
	}

	refinedLag := float64(bestLag)
	if bestLag > minLag && bestLag < maxLag {
		refinedLag = parabolicInterpolate(corrs[bestLag-1], corrs[bestLag], corrs[bestLag+1], bestLag)
	}

	return float64(fe.sampleRate) / refinedLag, math.Min(1.0, bestCorr)
}

// parabolicInterpolate fits a parabola through three points around a
// peak and returns the refined peak position.
func parabolicInterpolate(left, center, right float64, peakIdx int) float64 {
	denominator := left - 2.0*center + right
	if math.Abs(denominator) < 1e-10 {
		return float64(peakIdx)
	}

	offset := 0.5 * (left - right) / denominator
	if offset > 0.5 || offset < -0.5 {
		return float64(peakIdx)
	}
	return float64(peakIdx) + offset
}
