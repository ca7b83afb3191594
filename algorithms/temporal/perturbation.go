package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-vox/algorithms/harmonic"
)

// PerturbationResult holds cycle-to-cycle stability measures of the
// voice source.
type PerturbationResult struct {
	Jitter       float64 `json:"jitter"`       // relative period perturbation, percent
	Shimmer      float64 `json:"shimmer"`      // relative amplitude perturbation, percent
	Aperiodicity float64 `json:"aperiodicity"` // coefficient of variation of voiced frame RMS
}

// Perturbation estimates jitter, shimmer and an aperiodicity proxy from
// the pitch track and frame energies of a segment. Healthy sustained
// phonation shows jitter under ~1% and shimmer under ~5%.
type Perturbation struct {
	sampleRate int
	energy     *Energy
	epsilon    float64
}

// NewPerturbation creates a perturbation calculator
func NewPerturbation(sampleRate int) *Perturbation {
	return &Perturbation{
		sampleRate: sampleRate,
		// 10 ms hop aligns the energy track with the F0 track
		energy:  NewEnergyWithParams(sampleRate, sampleRate*40/1000, sampleRate*10/1000),
		epsilon: 1e-10,
	}
}

// Compute measures perturbation for a signal given its pitch track.
// Frames the track marks unvoiced are skipped.
func (p *Perturbation) Compute(signal []float64, track *harmonic.F0Track) PerturbationResult {
	result := PerturbationResult{}
	if track == nil || len(track.F0s) < 3 {
		return result
	}

	// Periods from consecutive voiced frames
	var periods []float64
	for _, f0 := range track.F0s {
		if f0 > 0 {
			periods = append(periods, 1.0/f0)
		}
	}
	result.Jitter = relativePerturbation(periods)

	// Amplitudes of voiced frames, aligned with the pitch track hop
	frameRMS := p.energy.ComputeFrames(signal)
	var amplitudes []float64
	for i, f0 := range track.F0s {
		if f0 <= 0 || i >= len(frameRMS) {
			continue
		}
		if frameRMS[i] > p.epsilon {
			amplitudes = append(amplitudes, frameRMS[i])
		}
	}
	result.Shimmer = relativePerturbation(amplitudes)
	result.Aperiodicity = coefficientOfVariation(amplitudes)

	return result
}

// relativePerturbation is the mean absolute consecutive difference over
// the mean, in percent.
func relativePerturbation(values []float64) float64 {
	if len(values) < 3 {
		return 0.0
	}

	mean := stat.Mean(values, nil)
	if mean < 1e-10 {
		return 0.0
	}

	sum := 0.0
	for i := 1; i < len(values); i++ {
		sum += math.Abs(values[i] - values[i-1])
	}
	meanDiff := sum / float64(len(values)-1)

	return meanDiff / mean * 100.0
}

// coefficientOfVariation is the standard deviation over the mean,
// clipped to [0, 1].
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}

	mean := stat.Mean(values, nil)
	if mean < 1e-10 {
		return 0.0
	}

	cv := stat.StdDev(values, nil) / mean
	return math.Min(1.0, math.Max(0.0, cv))
}
