package history

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a set of selections.
type Summary struct {
	Count     int
	Unbounded int // ∞ picks, excluded from the statistics below
	Mean      float64
	StdDev    float64
	Median    float64
	Min       float64
	Max       float64
}

// Summarize computes statistics over the bounded selections.
func Summarize(selections []Selection) Summary {
	sum := Summary{Count: len(selections)}
	meters := make([]float64, 0, len(selections))
	for _, s := range selections {
		if s.Unbounded {
			sum.Unbounded++
			continue
		}
		meters = append(meters, s.Meters)
	}
	if len(meters) == 0 {
		return sum
	}

	sort.Float64s(meters)
	sum.Min = floats.Min(meters)
	sum.Max = floats.Max(meters)
	sum.Median = stat.Quantile(0.5, stat.Empirical, meters, nil)
	if len(meters) > 1 {
		sum.Mean, sum.StdDev = stat.MeanStdDev(meters, nil)
	} else {
		sum.Mean = meters[0]
	}
	return sum
}

// MostPicked returns the label picked most often. selections are newest
// first, as Recent returns them; ties go to the label that reached the
// count first.
func MostPicked(selections []Selection) (string, int) {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for i := len(selections) - 1; i >= 0; i-- {
		label := selections[i].Label
		counts[label]++
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best, bestCount
}
