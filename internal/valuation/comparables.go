package valuation

import (
	"sort"

	"github.com/verte-zerg/vcval/internal/model"
)

// Multiples returns valuation/revenue for every valid comparable, in input
// order. Comparables without positive revenue and valuation are skipped.
func Multiples(comps []model.Comparable) []float64 {
	out := make([]float64, 0, len(comps))
	for _, c := range comps {
		if m, ok := c.Multiple(); ok {
			out = append(out, m)
		}
	}
	return out
}

// MedianMultiple returns the element at index n/2 of the sorted multiples.
// For even counts this is the upper of the two middle values of the
// ascending order, not their mean. fallback is returned for an empty set.
func MedianMultiple(multiples []float64, fallback float64) float64 {
	if len(multiples) == 0 {
		return fallback
	}
	sorted := make([]float64, len(multiples))
	copy(sorted, multiples)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// AverageMultiple returns the arithmetic mean, or fallback for an empty set.
func AverageMultiple(multiples []float64, fallback float64) float64 {
	if len(multiples) == 0 {
		return fallback
	}
	sum := 0.0
	for _, m := range multiples {
		sum += m
	}
	return sum / float64(len(multiples))
}
