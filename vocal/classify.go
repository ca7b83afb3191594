package vocal

import (
	"math"

	"github.com/RyanBlaney/sonido-vox/algorithms/temporal"
)

// AxisScores places a voice on four perceptual axes, each in
// [-100, 100] with 0 as the population-neutral point.
type AxisScores struct {
	Brightness float64 `json:"brightness"` // bright (+) vs dark (-)
	Thickness  float64 `json:"thickness"`  // thick (+) vs light (-)
	Clarity    float64 `json:"clarity"`    // clear (+) vs hazy (-)
	Power      float64 `json:"power"`      // powerful (+) vs soft (-)
}

// Code derives the 4-letter vocal type code, one letter per axis at
// the zero midpoint.
func (a AxisScores) Code() string {
	code := make([]byte, 4)
	if a.Brightness >= 0 {
		code[0] = 'B'
	} else {
		code[0] = 'D'
	}
	if a.Thickness >= 0 {
		code[1] = 'T'
	} else {
		code[1] = 'L'
	}
	if a.Clarity >= 0 {
		code[2] = 'C'
	} else {
		code[2] = 'H'
	}
	if a.Power >= 0 {
		code[3] = 'P'
	} else {
		code[3] = 'S'
	}
	return string(code)
}

// Classifier maps pooled features onto the four axes.
//
// Brightness leans on where spectral mass sits, thickness on how much
// low-band body the voice carries, clarity on source stability, and
// power on the level the clip actually arrived at before
// normalization.
type Classifier struct{}

// NewClassifier creates a classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify computes the axis scores for a waveform's aggregate
func (c *Classifier) Classify(agg *Aggregate, w *Waveform) AxisScores {
	return AxisScores{
		Brightness: c.brightness(agg),
		Thickness:  c.thickness(agg),
		Clarity:    c.clarity(agg),
		Power:      c.power(agg, w),
	}
}

// brightness blends centroid position with source tilt. Neutral sits
// at a 1500 Hz centroid and -8 dB/octave tilt.
func (c *Classifier) brightness(agg *Aggregate) float64 {
	centroidScore := (agg.Mean("spectral_centroid") - 1500.0) / 8.0
	tiltScore := (agg.Mean("spectral_tilt") + 8.0) * 12.5
	return clipAxis(0.6*centroidScore + 0.4*tiltScore)
}

// thickness blends low-band body, inverted centroid and chest
// resonance dominance.
func (c *Classifier) thickness(agg *Aggregate) float64 {
	lowScore := (agg.Mean("low_band_ratio") - 0.3) * 400.0
	centroidScore := (1500.0 - agg.Mean("spectral_centroid")) / 8.0
	chestScore := (agg.Mean("chest_head_ratio") - 1.0) * 50.0
	return clipAxis(0.5*lowScore + 0.3*centroidScore + 0.2*chestScore)
}

// clarity weighs glottal adduction quality: harmonicity plus period
// and amplitude stability. Each component is bounded to half scale
// before weighting so one wild measurement cannot dominate.
func (c *Classifier) clarity(agg *Aggregate) float64 {
	hnrScore := clipHalf((agg.Mean("hnr") - 3.0) * 15.0)
	jitterScore := math.Max(50.0-agg.Mean("jitter")*10.0, -50.0)
	shimmerScore := math.Max(50.0-agg.Mean("shimmer"), -50.0)

	weighted := 0.3*hnrScore + 0.35*jitterScore + 0.35*shimmerScore
	return clipAxis(weighted * 2.0)
}

// power reads the pre-normalization input level, the level variation
// across the clip, and how far spectral energy extends upward.
func (c *Classifier) power(agg *Aggregate, w *Waveform) float64 {
	loudnessScore := clipRange((w.InputLoudnessDb+25.0)*4.0, -50.0, 50.0)

	dynamicRange := temporal.NewEnergy(w.SampleRate).DynamicRangeDb(w.Samples)
	dynamicsScore := clipRange((dynamicRange-10.0)*3.0, -30.0, 30.0)

	rolloffScore := clipRange((agg.Mean("spectral_rolloff")-3500.0)/50.0, -20.0, 20.0)
	return clipAxis(loudnessScore + dynamicsScore + rolloffScore)
}

func clipAxis(v float64) float64 {
	return clipRange(v, -100.0, 100.0)
}

func clipHalf(v float64) float64 {
	return clipRange(v, -50.0, 50.0)
}

func clipRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
