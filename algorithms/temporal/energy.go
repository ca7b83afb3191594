package temporal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Energy computes short-time RMS energy and level statistics of a signal
type Energy struct {
	sampleRate int
	frameSize  int
	hopSize    int
	epsilon    float64
}

// NewEnergy creates an energy calculator with 20 ms frames and 10 ms
// hop, matching the voice activity detector.
func NewEnergy(sampleRate int) *Energy {
	return NewEnergyWithParams(sampleRate, sampleRate*20/1000, sampleRate*10/1000)
}

// NewEnergyWithParams creates an energy calculator with custom framing
func NewEnergyWithParams(sampleRate, frameSize, hopSize int) *Energy {
	return &Energy{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		hopSize:    hopSize,
		epsilon:    1e-10,
	}
}

// RMS computes the root-mean-square level of an entire signal
func (e *Energy) RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, s := range signal {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(signal)))
}

// RMSDb converts the signal RMS to dBFS, flooring at -100 dB
func (e *Energy) RMSDb(signal []float64) float64 {
	rms := e.RMS(signal)
	if rms < e.epsilon {
		return -100.0
	}
	return math.Max(-100.0, 20.0*math.Log10(rms))
}

// Peak returns the absolute peak sample value
func (e *Energy) Peak(signal []float64) float64 {
	peak := 0.0
	for _, s := range signal {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// ComputeFrames returns the RMS of each overlapping frame
func (e *Energy) ComputeFrames(signal []float64) []float64 {
	if len(signal) < e.frameSize {
		return []float64{}
	}

	numFrames := (len(signal)-e.frameSize)/e.hopSize + 1
	values := make([]float64, 0, numFrames)

	for i := range numFrames {
		start := i * e.hopSize
		end := start + e.frameSize
		if end > len(signal) {
			break
		}
		values = append(values, e.RMS(signal[start:end]))
	}

	return values
}

// DynamicRangeDb measures the spread of frame levels as the difference
// between the 95th and 5th percentile frame RMS in dB. Silence frames
// below the floor are excluded so pauses don't inflate the range.
func (e *Energy) DynamicRangeDb(signal []float64) float64 {
	frames := e.ComputeFrames(signal)
	if len(frames) < 2 {
		return 0.0
	}

	var levels []float64
	for _, rms := range frames {
		if rms < 1e-5 {
			continue
		}
		levels = append(levels, 20.0*math.Log10(rms))
	}
	if len(levels) < 2 {
		return 0.0
	}

	sort.Float64s(levels)

	high := stat.Quantile(0.95, stat.Empirical, levels, nil)
	low := stat.Quantile(0.05, stat.Empirical, levels, nil)
	return math.Max(0.0, high-low)
}
