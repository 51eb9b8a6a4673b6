package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRaggedTable is returned when columns do not share one row count
	ErrRaggedTable = errors.New("columns have different row counts")
	// ErrDuplicateColumn is returned when two columns share a name
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrEmptyColumnName is returned for a column without a name
	ErrEmptyColumnName = errors.New("column name is empty")
)

// Column is a named, kind-tagged sequence of cells aligned by row index.
type Column struct {
	Name   string  `json:"name" validate:"required"`
	Kind   Kind    `json:"kind"`
	Values []Value `json:"values"`
}

// NewColumn builds a column and infers its kind from the present values.
// Columns mixing kinds are tagged as text and their non-text cells rendered to text.
func NewColumn(name string, values ...Value) *Column {
	col := &Column{Name: name, Values: append([]Value(nil), values...)}
	col.Kind = InferKind(col.Values)
	if col.Kind == KindText {
		for i, v := range col.Values {
			if !v.IsMissing() && v.Kind() != KindText {
				col.Values[i] = Text(v.String())
			}
		}
	}
	return col
}

// NewColumnOf builds a column from plain Go values, see ValueOf.
func NewColumnOf(name string, values ...any) *Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = ValueOf(v)
	}
	return NewColumn(name, cells...)
}

// InferKind returns the kind shared by all present values, KindText when they
// disagree and KindEmpty when nothing is present.
func InferKind(values []Value) Kind {
	kind := KindEmpty
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		if kind == KindEmpty {
			kind = v.Kind()
			continue
		}
		if v.Kind() != kind {
			return KindText
		}
	}
	return kind
}

// Len returns the number of rows in the column
func (c *Column) Len() int { return len(c.Values) }

// Present returns the non-missing values in row order
func (c *Column) Present() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsMissing() {
			out = append(out, v)
		}
	}
	return out
}

// MissingCount returns how many cells hold the missing marker
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the column
func (c *Column) Clone() *Column {
	return &Column{
		Name:   c.Name,
		Kind:   c.Kind,
		Values: append([]Value(nil), c.Values...),
	}
}

// Table is an ordered set of equally long columns.
type Table struct {
	Columns []*Column `json:"columns" validate:"required,dive"`
}

// NewTable assembles columns into a table, rejecting ragged or duplicate columns.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{Columns: columns}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNewTable is NewTable that panics on error, for fixtures and examples.
func MustNewTable(columns ...*Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(fmt.Sprintf("invalid table: %v", err))
	}
	return t
}

// Validate checks the structural invariants of the table
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	rows := -1
	for i, col := range t.Columns {
		if col == nil || col.Name == "" {
			return fmt.Errorf("column %d: %w", i, ErrEmptyColumnName)
		}
		if seen[col.Name] {
			return fmt.Errorf("column %q: %w", col.Name, ErrDuplicateColumn)
		}
		seen[col.Name] = true
		if rows == -1 {
			rows = col.Len()
		} else if col.Len() != rows {
			return fmt.Errorf("column %q has %d rows, expected %d: %w", col.Name, col.Len(), rows, ErrRaggedTable)
		}
	}
	return nil
}

// NumRows returns the shared row count
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// NumColumns returns the column count
func (t *Table) NumColumns() int { return len(t.Columns) }

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// ColumnsOfKind returns the columns currently tagged with one of kinds, in table order
func (t *Table) ColumnsOfKind(kinds ...Kind) []*Column {
	var out []*Column
	for _, col := range t.Columns {
		for _, k := range kinds {
			if col.Kind == k {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

// Row returns the cells of row i across all columns
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.Columns))
	for j, col := range t.Columns {
		row[j] = col.Values[i]
	}
	return row
}

// Clone returns a deep copy sharing no slices with t
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = col.Clone()
	}
	return &Table{Columns: cols}
}

// Filter materialises a new table holding only the rows where keep is true.
// keep must have one entry per row.
func (t *Table) Filter(keep []bool) *Table {
	cols := make([]*Column, len(t.Columns))
	for i, col := range t.Columns {
		values := make([]Value, 0, len(col.Values))
		for r, v := range col.Values {
			if keep[r] {
				values = append(values, v)
			}
		}
		cols[i] = &Column{Name: col.Name, Kind: col.Kind, Values: values}
	}
	return &Table{Columns: cols}
}
