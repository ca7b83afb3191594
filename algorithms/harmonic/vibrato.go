package harmonic

import (
	"math"
)

// VibratoResult describes periodic pitch modulation found in a track
type VibratoResult struct {
	Rate    float64 `json:"rate"`    // modulation cycles per second, 0 if none
	Extent  float64 `json:"extent"`  // mean peak-to-peak depth in semitones
	Present bool    `json:"present"` // true when rate falls in the vibrato band
}

// VibratoDetector estimates vibrato rate and extent from an F0 track by
// timing the direction reversals of the pitch contour. Two reversals
// make one modulation cycle.
type VibratoDetector struct {
	// Rates outside this band are treated as drift or jitter
	minRate float64
	maxRate float64

	// Reversals smaller than this many semitones are ignored
	minExtent float64
}

// NewVibratoDetector creates a detector for the 3-9 Hz vibrato band
func NewVibratoDetector() *VibratoDetector {
	return &VibratoDetector{
		minRate:   3.0,
		maxRate:   9.0,
		minExtent: 0.2,
	}
}

// Compute analyzes the voiced portion of an F0 track
func (vd *VibratoDetector) Compute(track *F0Track) VibratoResult {
	if track == nil || len(track.F0s) < 8 || track.HopSize <= 0 {
		return VibratoResult{}
	}

	hopDuration := float64(track.HopSize) / float64(track.SampleRate)

	// Work in semitones so extent is register independent
	type point struct {
		t  float64
		st float64
	}
	var contour []point
	for i, f0 := range track.F0s {
		if f0 <= 0 {
			continue
		}
		contour = append(contour, point{
			t:  float64(i) * hopDuration,
			st: 12.0 * math.Log2(f0),
		})
	}
	if len(contour) < 8 {
		return VibratoResult{}
	}

	// Find direction reversals of the semitone contour
	var reversalTimes []float64
	var reversalValues []float64
	for i := 1; i < len(contour)-1; i++ {
		prev := contour[i].st - contour[i-1].st
		next := contour[i+1].st - contour[i].st
		if prev*next < 0 {
			reversalTimes = append(reversalTimes, contour[i].t)
			reversalValues = append(reversalValues, contour[i].st)
		}
	}
	if len(reversalTimes) < 4 {
		return VibratoResult{}
	}

	// Mean interval between reversals is half a modulation period
	intervals := 0.0
	extents := 0.0
	counted := 0
	for i := 1; i < len(reversalTimes); i++ {
		depth := math.Abs(reversalValues[i] - reversalValues[i-1])
		if depth < vd.minExtent {
			continue
		}
		intervals += reversalTimes[i] - reversalTimes[i-1]
		extents += depth
		counted++
	}
	if counted < 3 || intervals <= 0 {
		return VibratoResult{}
	}

	meanHalfPeriod := intervals / float64(counted)
	rate := 1.0 / (2.0 * meanHalfPeriod)
	extent := extents / float64(counted)

	return VibratoResult{
		Rate:    rate,
		Extent:  extent,
		Present: rate >= vd.minRate && rate <= vd.maxRate,
	}
}
