package vocal

import (
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-vox/algorithms/stats"
	"github.com/RyanBlaney/sonido-vox/logging"
)

// fallbackDefaults are neutral feature values substituted when a
// feature could not be measured on any segment. They sit near the
// center of the ordinary speaking-voice range so a missing measurement
// neither inflates nor tanks the score.
var fallbackDefaults = map[string]float64{
	"cpp":               7.0,
	"hnr":               15.0,
	"spectral_tilt":     -8.0,
	"flatness":          0.3,
	"f0_confidence":     0.5,
	"aperiodicity":      0.3,
	"spectral_centroid": 1500.0,
	"spectral_rolloff":  3500.0,
}

// Aggregate pools per-segment features into clip-level statistics
type Aggregate struct {
	Features map[string]stats.Summary `json:"features"`

	// Feature names that fell back to defaults, sorted
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// Mean returns the pooled mean of a feature, 0 if absent
func (a *Aggregate) Mean(name string) float64 {
	return a.Features[name].Mean
}

// P90 returns the pooled 90th percentile of a feature, 0 if absent
func (a *Aggregate) P90(name string) float64 {
	return a.Features[name].P90
}

// IQR returns the pooled interquartile range of a feature, 0 if absent
func (a *Aggregate) IQR(name string) float64 {
	return a.Features[name].IQR
}

// ApplyDelta shifts the pooled statistics of a feature by an additive
// correction. Mean, median and P90 shift together; spread measures are
// left alone.
func (a *Aggregate) ApplyDelta(name string, delta float64) {
	summary, ok := a.Features[name]
	if !ok {
		return
	}
	summary.Mean += delta
	summary.Median += delta
	summary.P90 += delta
	a.Features[name] = summary
}

// AggregateSegments pools feature vectors from the selected segments.
// Features that are zero or non-finite on every segment fall back to
// neutral defaults and are reported in Fallbacks.
func AggregateSegments(vectors []FeatureVector) *Aggregate {
	agg := &Aggregate{
		Features: make(map[string]stats.Summary),
	}

	byName := make(map[string][]float64)
	for _, fv := range vectors {
		for name, value := range fv.Map() {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				continue
			}
			byName[name] = append(byName[name], value)
		}
	}

	names := make([]string, 0, len(fallbackDefaults))
	for name := range fallbackDefaults {
		names = append(names, name)
	}
	for name := range byName {
		if _, known := fallbackDefaults[name]; !known {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		values := byName[name]
		if usable(name, values) {
			agg.Features[name] = stats.Summarize(values)
			continue
		}

		fallback, ok := fallbackDefaults[name]
		if !ok {
			agg.Features[name] = stats.Summarize(values)
			continue
		}
		agg.Features[name] = stats.Summary{
			Mean:   fallback,
			Median: fallback,
			P90:    fallback,
		}
		agg.Fallbacks = append(agg.Fallbacks, name)
	}

	if len(agg.Fallbacks) > 0 {
		logging.Warn("features fell back to defaults", logging.Fields{
			"component": "aggregate",
			"features":  agg.Fallbacks,
		})
	}

	return agg
}

// usable reports whether measured values carry information beyond the
// extractor's zero default.
func usable(name string, values []float64) bool {
	if len(values) == 0 {
		return false
	}

	// Tilt legitimately sits near zero only for synthetic input; for
	// everything else an all-zero track means measurement failure.
	allZero := true
	for _, v := range values {
		if v != 0 {
			allZero = false
			break
		}
	}
	if !allZero {
		return true
	}
	_, hasFallback := fallbackDefaults[name]
	return !hasFallback
}
