package dataprocessing

import (
	"math"

	"datacleaner/pkg/contracts/domain"
)

// removeOutliers keeps a row only if every numeric column scores |z| < threshold.
// NaN scores (missing cells, undefined deviation) fail the comparison.
func removeOutliers(t *domain.Table, threshold float64) *domain.Table {
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = true
	}
	for _, col := range t.ColumnsOfKind(domain.KindNumeric) {
		m, s := moments(presentFloats(col.Values))
		for r, v := range col.Values {
			if !(math.Abs(zScore(v, m, s)) < threshold) {
				keep[r] = false
			}
		}
	}
	return t.Filter(keep)
}

// zScore returns (v-mean)/std. With zero deviation a value equal to the mean
// scores 0 and anything else scores an infinity.
func zScore(v domain.Value, mean, std float64) float64 {
	if v.IsMissing() {
		return math.NaN()
	}
	x := v.Float()
	if std == 0 {
		switch {
		case x == mean:
			return 0
		case x > mean:
			return math.Inf(1)
		default:
			return math.Inf(-1)
		}
	}
	return (x - mean) / std
}
