package dataprocessing

import (
	"strconv"
	"strings"

	"datacleaner/pkg/contracts/domain"
)

// removeDuplicates keeps the first occurrence of every distinct row
func removeDuplicates(t *domain.Table) *domain.Table {
	rows := t.NumRows()
	seen := make(map[string]struct{}, rows)
	keep := make([]bool, rows)
	for r := 0; r < rows; r++ {
		key := rowKey(t, r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep[r] = true
	}
	return t.Filter(keep)
}

// rowKey joins the cell keys of row r. Keys are length-prefixed so that
// separators inside text cells cannot make two rows collide.
func rowKey(t *domain.Table, r int) string {
	var b strings.Builder
	for _, col := range t.Columns {
		key := col.Values[r].Key()
		b.WriteString(strconv.Itoa(len(key)))
		b.WriteByte(':')
		b.WriteString(key)
	}
	return b.String()
}
