package dataprocessing

import (
	"log/slog"
	"time"

	"datacleaner/pkg/contracts/domain"
)

// Cleaner runs the cleaning stages over an owned copy of a table.
// A Cleaner is not safe for concurrent use; run one per table.
type Cleaner struct {
	table    *domain.Table
	options  Options
	logger   *slog.Logger
	observer StageObserver
	report   Report
}

// Option customises a Cleaner
type Option func(*Cleaner)

// WithLogger sets the logger used for stage logging
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cleaner) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every stage
func WithObserver(observer StageObserver) Option {
	return func(c *Cleaner) { c.observer = observer }
}

// WithStrategy sets the imputation strategy CleanData uses
func WithStrategy(strategy Strategy) Option {
	return func(c *Cleaner) { c.options.Strategy = strategy }
}

// WithZThreshold sets the outlier threshold CleanData uses
func WithZThreshold(z float64) Option {
	return func(c *Cleaner) { c.options.ZThreshold = z }
}

// WithOptions replaces all cleaning options at once. Zero fields take the
// defaults, so Options{} behaves like DefaultOptions.
func WithOptions(opts Options) Option {
	return func(c *Cleaner) {
		defaults := DefaultOptions()
		if opts.Strategy == "" {
			opts.Strategy = defaults.Strategy
		}
		if opts.ZThreshold == 0 {
			opts.ZThreshold = defaults.ZThreshold
		}
		c.options = opts
	}
}

// NewCleaner deep-copies input; the caller's table is never modified.
func NewCleaner(input *domain.Table, opts ...Option) *Cleaner {
	c := &Cleaner{
		table:   input.Clone(),
		options: DefaultOptions(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "cleaner"))
	return c
}

// Table returns the current working table
func (c *Cleaner) Table() *domain.Table { return c.table }

// Report returns the results of every stage run so far
func (c *Cleaner) Report() Report {
	return Report{Stages: append([]StageResult(nil), c.report.Stages...)}
}

// RemoveDuplicates drops every row equal to an earlier row across all columns
func (c *Cleaner) RemoveDuplicates() *domain.Table {
	start, before := time.Now(), c.table.NumRows()
	c.table = removeDuplicates(c.table)
	c.record(StageResult{
		Stage:      StageRemoveDuplicates,
		RowsBefore: before,
		RowsAfter:  c.table.NumRows(),
		Duration:   time.Since(start),
	})
	return c.table
}

// HandleMissingValues fills numeric columns with strategy and text columns
// with their most frequent value. Boolean and datetime columns are skipped.
// A strategy other than median or most_frequent, including the empty one,
// fills with the mean; callers validate user input with ParseStrategy.
func (c *Cleaner) HandleMissingValues(strategy Strategy) *domain.Table {
	start, rows := time.Now(), c.table.NumRows()
	filled := imputeMissing(c.table, strategy)
	c.record(StageResult{
		Stage:        StageHandleMissing,
		RowsBefore:   rows,
		RowsAfter:    rows,
		CellsImputed: filled,
		Duration:     time.Since(start),
	})
	return c.table
}

// FixDataTypes converts text columns to datetime, numeric or boolean where
// every present value allows it
func (c *Cleaner) FixDataTypes() *domain.Table {
	start, rows := time.Now(), c.table.NumRows()
	conversions := fixDataTypes(c.table)
	c.record(StageResult{
		Stage:       StageFixDataTypes,
		RowsBefore:  rows,
		RowsAfter:   rows,
		Conversions: conversions,
		Duration:    time.Since(start),
	})
	return c.table
}

// StandardizeText lowercases and trims the values of text columns
func (c *Cleaner) StandardizeText() *domain.Table {
	start, rows := time.Now(), c.table.NumRows()
	changed := standardizeText(c.table)
	c.record(StageResult{
		Stage:           StageStandardizeText,
		RowsBefore:      rows,
		RowsAfter:       rows,
		CellsNormalized: changed,
		Duration:        time.Since(start),
	})
	return c.table
}

// RemoveOutliers drops rows where any numeric column has |z| >= zThreshold
func (c *Cleaner) RemoveOutliers(zThreshold float64) *domain.Table {
	start, before := time.Now(), c.table.NumRows()
	c.table = removeOutliers(c.table, zThreshold)
	c.record(StageResult{
		Stage:      StageRemoveOutliers,
		RowsBefore: before,
		RowsAfter:  c.table.NumRows(),
		Duration:   time.Since(start),
	})
	return c.table
}

// CleanData runs every stage in pipeline order and returns the final table.
// Imputation runs before type coercion, so numeric-looking text columns are
// filled with their most frequent text.
func (c *Cleaner) CleanData() *domain.Table {
	rowsIn := c.table.NumRows()
	c.logger.Info("Starting data cleaning",
		slog.Int("rows", rowsIn),
		slog.Int("columns", c.table.NumColumns()),
		slog.String("strategy", string(c.options.Strategy)),
		slog.Float64("z_threshold", c.options.ZThreshold))

	c.RemoveDuplicates()
	c.HandleMissingValues(c.options.Strategy)
	c.FixDataTypes()
	c.StandardizeText()
	c.RemoveOutliers(c.options.ZThreshold)

	c.logger.Info("Data cleaning completed",
		slog.Int("rows_in", rowsIn),
		slog.Int("rows_out", c.table.NumRows()),
		slog.Int("cells_imputed", c.report.CellsImputed()),
		slog.Int("columns_converted", len(c.report.Conversions())))
	return c.table
}

func (c *Cleaner) record(result StageResult) {
	c.report.Stages = append(c.report.Stages, result)

	attrs := []any{
		slog.String("stage", string(result.Stage)),
		slog.Int("rows_before", result.RowsBefore),
		slog.Int("rows_after", result.RowsAfter),
		slog.Duration("duration", result.Duration),
	}
	if result.CellsImputed > 0 {
		attrs = append(attrs, slog.Int("cells_imputed", result.CellsImputed))
	}
	if result.CellsNormalized > 0 {
		attrs = append(attrs, slog.Int("cells_normalized", result.CellsNormalized))
	}
	for _, conv := range result.Conversions {
		c.logger.Debug("Column converted",
			slog.String("column", conv.Column),
			slog.String("from", conv.From.String()),
			slog.String("to", conv.To.String()))
	}
	c.logger.Debug("Stage completed", attrs...)

	if c.observer != nil {
		c.observer.ObserveStage(result)
	}
}
