package dataprocessing

import (
	"context"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"datacleaner/pkg/contracts/domain"
)

// Summarizer describes tables column by column, used to show data before and
// after cleaning.
type Summarizer struct {
	logger   *slog.Logger
	headRows int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	HeadRows int // Number of leading rows rendered into the summary
}

// DefaultSummarizerConfig returns the default summarizer configuration
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{HeadRows: 5}
}

// ColumnSummary profiles a single column
type ColumnSummary struct {
	Name     string      `json:"name"`
	Kind     domain.Kind `json:"kind"`
	Missing  int         `json:"missing"`
	Distinct int         `json:"distinct"`

	// Numeric columns only
	Mean *float64 `json:"mean,omitempty"`
	Std  *float64 `json:"std,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

// TableSummary profiles a whole table
type TableSummary struct {
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
	Head    [][]string      `json:"head"`
}

// NewSummarizer creates a summarizer; a nil logger uses slog.Default.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.HeadRows < 0 {
		config.HeadRows = 0
	}
	return &Summarizer{
		logger:   logger,
		headRows: config.HeadRows,
	}
}

// Summarize profiles every column of t and renders its first rows
func (s *Summarizer) Summarize(ctx context.Context, t *domain.Table) TableSummary {
	summary := TableSummary{
		Rows:    t.NumRows(),
		Columns: make([]ColumnSummary, 0, t.NumColumns()),
	}
	for _, col := range t.Columns {
		summary.Columns = append(summary.Columns, summarizeColumn(col))
	}

	n := s.headRows
	if n > t.NumRows() {
		n = t.NumRows()
	}
	for r := 0; r < n; r++ {
		row := t.Row(r)
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		summary.Head = append(summary.Head, cells)
	}

	s.logger.DebugContext(ctx, "table summarized",
		slog.Int("rows", summary.Rows),
		slog.Int("columns", len(summary.Columns)))
	return summary
}

func summarizeColumn(col *domain.Column) ColumnSummary {
	cs := ColumnSummary{
		Name:     col.Name,
		Kind:     col.Kind,
		Missing:  col.MissingCount(),
		Distinct: len(distinctPresent(col.Values)),
	}
	if col.Kind != domain.KindNumeric {
		return cs
	}
	xs := presentFloats(col.Values)
	if len(xs) == 0 {
		return cs
	}
	m, sd := moments(xs)
	lo, hi := floats.Min(xs), floats.Max(xs)
	cs.Mean, cs.Std = finite(m), finite(sd)
	cs.Min, cs.Max = finite(lo), finite(hi)
	return cs
}

// finite drops NaN and infinities, which JSON cannot carry
func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}
