package vocal

import (
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-vox/logging"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

// Grade buckets for the clarity score
const (
	GradeHigh   = "high"
	GradeMedium = "medium"
	GradeLow    = "low"
)

// ScoreResult is the clip-level clarity assessment
type ScoreResult struct {
	Score   float64            `json:"score"` // 0-100
	Grade   string             `json:"grade"`
	ZScores map[string]float64 `json:"z_scores"`
	Tags    []string           `json:"tags"`
	Capped  bool               `json:"capped"` // true when the breathy cap clipped the score
}

// Scorer turns pooled features into a clarity score, grade and
// descriptive tags. Features are z-scored against reference statistics
// for ordinary healthy voices, blended with signed weights and squashed
// through a sigmoid onto 0-100.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer creates a scorer from config
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score evaluates an aggregate
func (s *Scorer) Score(agg *Aggregate) ScoreResult {
	result := ScoreResult{
		ZScores: make(map[string]float64),
	}

	names := make([]string, 0, len(s.cfg.Weights))
	for name := range s.cfg.Weights {
		names = append(names, name)
	}
	sort.Strings(names)

	composite := 0.0
	for _, name := range names {
		ref, ok := s.cfg.References[name]
		if !ok || ref.Std <= 0 {
			continue
		}
		z := (agg.Mean(name) - ref.Mean) / ref.Std
		result.ZScores[name] = z
		composite += s.cfg.Weights[name] * z
	}

	// Sigmoid maps the composite onto 0-100 with 50 at the reference
	// population mean.
	result.Score = 100.0 / (1.0 + math.Exp(-composite/2.0))

	// Breathy voices can fake high composites through tilt and
	// flatness; a low HNR floor caps them.
	if agg.Mean("hnr") < s.cfg.BreathyHNRThreshold && result.Score > s.cfg.BreathyCap {
		result.Score = s.cfg.BreathyCap
		result.Capped = true
	}

	switch {
	case result.Score >= s.cfg.HighGradeThreshold:
		result.Grade = GradeHigh
	case result.Score >= s.cfg.MediumGradeThreshold:
		result.Grade = GradeMedium
	default:
		result.Grade = GradeLow
	}

	result.Tags = s.tags(agg)

	logging.Debug("scored clip", logging.Fields{
		"component": "scorer",
		"score":     result.Score,
		"grade":     result.Grade,
		"capped":    result.Capped,
	})

	return result
}

// tags derives descriptive labels from the pooled features
func (s *Scorer) tags(agg *Aggregate) []string {
	var tags []string

	tilt := agg.Mean("spectral_tilt")
	centroid := agg.Mean("spectral_centroid")
	switch {
	case tilt > -6.0 && centroid > 1800.0:
		tags = append(tags, "bright")
	case tilt < -10.0 && centroid < 1400.0:
		tags = append(tags, "dark")
	}

	if agg.Mean("aperiodicity") > 0.4 || agg.Mean("hnr") < 12.0 {
		tags = append(tags, "rough")
	} else {
		tags = append(tags, "smooth")
	}

	if agg.Mean("h1h2") > 8.0 {
		tags = append(tags, "breathy")
	}

	return tags
}
