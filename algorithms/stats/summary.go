package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, 0 for empty input
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation, 0 for fewer than two
// values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	return stat.StdDev(values, nil)
}

// Percentile returns the q-th percentile (q in [0, 1]) using linear
// interpolation between closest ranks, matching numpy's default.
func Percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	if len(values) == 1 {
		return values[0]
	}

	q = math.Min(1.0, math.Max(0.0, q))

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * q
	lower := int(math.Floor(h))
	upper := int(math.Ceil(h))
	if lower == upper {
		return sorted[lower]
	}

	fraction := h - float64(lower)
	return sorted[lower] + fraction*(sorted[upper]-sorted[lower])
}

// Median returns the 50th percentile
func Median(values []float64) float64 {
	return Percentile(values, 0.5)
}

// IQR returns the interquartile range, the spread between the 75th and
// 25th percentiles.
func IQR(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	return Percentile(values, 0.75) - Percentile(values, 0.25)
}

// Summary bundles the aggregate statistics used for feature pooling
type Summary struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	IQR    float64 `json:"iqr"`
}

// Summarize computes the full summary in one pass over a sorted copy
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Mean:   Mean(values),
		Std:    StdDev(values),
		Median: interpolated(sorted, 0.5),
		P90:    interpolated(sorted, 0.9),
		IQR:    interpolated(sorted, 0.75) - interpolated(sorted, 0.25),
	}
}

// interpolated is Percentile over an already sorted slice
func interpolated(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	h := float64(len(sorted)-1) * q
	lower := int(math.Floor(h))
	upper := int(math.Ceil(h))
	if lower == upper {
		return sorted[lower]
	}

	fraction := h - float64(lower)
	return sorted[lower] + fraction*(sorted[upper]-sorted[lower])
}
