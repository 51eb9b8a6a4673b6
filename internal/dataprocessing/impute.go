package dataprocessing

import (
	"math"

	"datacleaner/pkg/contracts/domain"
)

// imputeMissing fills missing cells in place and returns how many were filled.
// Numeric columns use strategy, text and empty columns always use the most
// frequent value, boolean and datetime columns are left alone.
func imputeMissing(t *domain.Table, strategy Strategy) int {
	filled := 0
	for _, col := range t.ColumnsOfKind(domain.KindNumeric) {
		fill, ok := numericFill(col.Values, strategy)
		if !ok {
			continue
		}
		filled += fillMissing(col, fill)
	}
	for _, col := range t.ColumnsOfKind(domain.KindText, domain.KindEmpty) {
		fill, ok := mostFrequent(col.Values)
		if !ok {
			continue
		}
		filled += fillMissing(col, fill)
	}
	return filled
}

// numericFill computes the fill statistic, the mean for any strategy it does
// not name. ok is false when the statistic is undefined, in which case
// missing cells stay missing.
func numericFill(values []domain.Value, strategy Strategy) (domain.Value, bool) {
	var x float64
	switch strategy {
	case StrategyMedian:
		x = median(presentFloats(values))
	case StrategyMostFrequent:
		return mostFrequent(values)
	default:
		x = mean(presentFloats(values))
	}
	if math.IsNaN(x) {
		return domain.Missing(), false
	}
	return domain.Number(x), true
}

func fillMissing(col *domain.Column, fill domain.Value) int {
	n := 0
	for i, v := range col.Values {
		if v.IsMissing() {
			col.Values[i] = fill
			n++
		}
	}
	return n
}
