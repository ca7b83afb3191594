package vocal

import (
	"sort"

	"github.com/RyanBlaney/sonido-vox/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-vox/algorithms/temporal"
	"github.com/RyanBlaney/sonido-vox/logging"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

// Segment is a candidate analysis window within a waveform
type Segment struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Score    float64 `json:"score"`
}

// Duration returns the segment length in seconds
func (s Segment) Duration() float64 {
	return s.EndSec - s.StartSec
}

// SegmentSelector picks the most representative stretches of a clip
// for feature extraction. Candidates are spread evenly across the clip
// and ranked by a blend of pitch confidence and energy, favoring
// sustained, clearly voiced passages over pauses and noise.
type SegmentSelector struct {
	cfg config.SegmentConfig
}

// NewSegmentSelector creates a selector from config
func NewSegmentSelector(cfg config.SegmentConfig) *SegmentSelector {
	return &SegmentSelector{cfg: cfg}
}

// Select returns up to NumSelected segments ordered by start time.
// Clips shorter than one segment yield a single whole-clip segment,
// unless the clip is below the minimum usable length, which yields
// nothing.
func (ss *SegmentSelector) Select(w *Waveform, f0Range [2]float64) []Segment {
	clipSeconds := w.Seconds()
	if clipSeconds < ss.cfg.MinSegmentSeconds {
		return nil
	}

	f0 := harmonic.NewF0EstimatorWithRange(w.SampleRate, f0Range[0], f0Range[1])
	energy := temporal.NewEnergy(w.SampleRate)

	if clipSeconds <= ss.cfg.SegmentSeconds {
		samples := w.Slice(0, clipSeconds)
		return []Segment{{
			StartSec: 0,
			EndSec:   clipSeconds,
			Score:    ss.scoreWindow(samples, f0, energy),
		}}
	}

	// Candidate starts spread evenly over the usable range. A single
	// candidate sits at the clip start.
	usable := clipSeconds - ss.cfg.SegmentSeconds
	step := 0.0
	if ss.cfg.NumCandidates > 1 {
		step = usable / float64(ss.cfg.NumCandidates-1)
	}

	candidates := make([]Segment, 0, ss.cfg.NumCandidates)
	for i := range ss.cfg.NumCandidates {
		start := float64(i) * step
		end := start + ss.cfg.SegmentSeconds
		if end > clipSeconds {
			end = clipSeconds
		}
		if end-start < ss.cfg.MinSegmentSeconds {
			continue
		}

		samples := w.Slice(start, end)
		candidates = append(candidates, Segment{
			StartSec: start,
			EndSec:   end,
			Score:    ss.scoreWindow(samples, f0, energy),
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	selected := candidates[:min(ss.cfg.NumSelected, len(candidates))]
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].StartSec < selected[j].StartSec
	})

	logging.Debug("selected segments", logging.Fields{
		"component":  "segment_selector",
		"candidates": len(candidates),
		"selected":   len(selected),
	})

	return selected
}

// scoreWindow blends mean pitch confidence with RMS level
func (ss *SegmentSelector) scoreWindow(samples []float64, f0 *harmonic.F0Estimator, energy *temporal.Energy) float64 {
	track := f0.Compute(samples)
	return ss.cfg.F0ConfWeight*track.MeanConfidence() + ss.cfg.RMSWeight*energy.RMS(samples)
}
