package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// sampleZScores returns z-scores using the n-1 standard deviation. ok is
// false when there are fewer than two values or no spread.
func sampleZScores(values []float64) (z []float64, ok bool) {
	if len(values) < 2 {
		return nil, false
	}
	mean := stat.Mean(values, nil)
	std := stat.StdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return nil, false
	}
	z = make([]float64, len(values))
	for i, v := range values {
		z[i] = (v - mean) / std
	}
	return z, true
}

// quantile interpolates linearly between closest ranks, the same rule
// pandas uses for qcut edges.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
