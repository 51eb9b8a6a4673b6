package exporter

import (
	"math"
	"strconv"

	"datacleaner/pkg/contracts/domain"
)

// formatValue renders a cell for CSV output. Missing cells are empty.
func formatValue(v domain.Value) string {
	if v.Kind() == domain.KindNumeric {
		return formatFloat(v.Float())
	}
	return v.String()
}

// formatFloat writes the shortest exact form, with infinities as inf/-inf
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
