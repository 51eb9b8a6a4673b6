package dataprocessing

import (
	"strings"

	"datacleaner/pkg/contracts/domain"
)

// standardizeText lowercases and trims every present cell of text columns.
// It returns the number of cells whose content changed.
func standardizeText(t *domain.Table) int {
	changed := 0
	for _, col := range t.ColumnsOfKind(domain.KindText) {
		for i, v := range col.Values {
			if v.IsMissing() {
				continue
			}
			s := strings.ToLower(strings.TrimSpace(v.Str()))
			if s != v.Str() {
				changed++
			}
			col.Values[i] = domain.Text(s)
		}
	}
	return changed
}
