package draw

import (
	"math"
	"slices"
)

// Percentile returns the p-th percentile (0-100) of ascending-sorted values using linear
// interpolation between closest ranks, so Percentile(x, 50) is the usual median.
// It returns NaN for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := (float64(n) - 1) * p / 100
	if h <= 0 {
		return sorted[0]
	}
	if h >= float64(n-1) {
		return sorted[n-1]
	}
	lo := math.Floor(h)
	i := int(lo)
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// sortedCopy returns an ascending copy of vs with NaNs removed.
func sortedCopy(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
