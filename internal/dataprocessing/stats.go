package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"datacleaner/pkg/contracts/domain"
)

// presentFloats returns the numeric payload of every present cell
func presentFloats(values []domain.Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !v.IsMissing() {
			out = append(out, v.Float())
		}
	}
	return out
}

// mean returns the arithmetic mean, NaN for no input
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// median returns the middle value, averaging the two middle values for even counts
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// moments returns mean and sample standard deviation (ddof=1).
// Identical values give exactly (value, 0); fewer than two values give NaN std.
func moments(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	if len(xs) == 1 {
		return xs[0], math.NaN()
	}
	constant := true
	for _, x := range xs[1:] {
		if x != xs[0] {
			constant = false
			break
		}
	}
	if constant {
		return xs[0], 0
	}
	return stat.Mean(xs, nil), stat.StdDev(xs, nil)
}

// mostFrequent returns the most common present value. Ties go to the value
// encountered first in scan order. ok is false when nothing is present.
func mostFrequent(values []domain.Value) (best domain.Value, ok bool) {
	counts := make(map[string]int)
	first := make(map[string]domain.Value)
	var order []string
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		key := v.Key()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			first[key] = v
		}
		counts[key]++
	}
	if len(order) == 0 {
		return domain.Missing(), false
	}
	bestKey := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[bestKey] {
			bestKey = key
		}
	}
	return first[bestKey], true
}

// distinctPresent returns present values deduplicated in first-encountered order
func distinctPresent(values []domain.Value) []domain.Value {
	seen := make(map[string]bool)
	var out []domain.Value
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		if key := v.Key(); !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}
