package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"datacleaner/pkg/contracts/domain"
)

// ErrUnknownStrategy is returned by ParseStrategy for unsupported names
var ErrUnknownStrategy = errors.New("unknown imputation strategy")

// Strategy selects the statistic used to fill missing numeric cells
type Strategy string

const (
	StrategyMean         Strategy = "mean"
	StrategyMedian       Strategy = "median"
	StrategyMostFrequent Strategy = "most_frequent"
)

// DefaultZThreshold is the z-score bound used by CleanData unless overridden
const DefaultZThreshold = 3.0

// ParseStrategy converts user input into a Strategy. An empty string selects mean.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "", "mean":
		return StrategyMean, nil
	case "median":
		return StrategyMedian, nil
	case "most_frequent", "mode":
		return StrategyMostFrequent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Options configures the parameters CleanData passes to the stages
type Options struct {
	// Strategy for numeric imputation
	Strategy Strategy

	// ZThreshold is the exclusive bound on absolute z-scores
	ZThreshold float64
}

// DefaultOptions returns default cleaning options
func DefaultOptions() Options {
	return Options{
		Strategy:   StrategyMean,
		ZThreshold: DefaultZThreshold,
	}
}

// Stage names one step of the cleaning pipeline
type Stage string

const (
	StageRemoveDuplicates Stage = "remove_duplicates"
	StageHandleMissing    Stage = "handle_missing_values"
	StageFixDataTypes     Stage = "fix_data_types"
	StageStandardizeText  Stage = "standardize_text"
	StageRemoveOutliers   Stage = "remove_outliers"
)

// Stages lists the pipeline stages in execution order
var Stages = []Stage{
	StageRemoveDuplicates,
	StageHandleMissing,
	StageFixDataTypes,
	StageStandardizeText,
	StageRemoveOutliers,
}

// Conversion records a column changing kind during type coercion
type Conversion struct {
	Column string      `json:"column"`
	From   domain.Kind `json:"from"`
	To     domain.Kind `json:"to"`
}

// StageResult describes what a single stage did to the working table
type StageResult struct {
	Stage           Stage         `json:"stage"`
	RowsBefore      int           `json:"rows_before"`
	RowsAfter       int           `json:"rows_after"`
	CellsImputed    int           `json:"cells_imputed,omitempty"`
	CellsNormalized int           `json:"cells_normalized,omitempty"`
	Conversions     []Conversion  `json:"conversions,omitempty"`
	Duration        time.Duration `json:"duration_ns"`
}

// RowsRemoved returns how many rows the stage dropped
func (r StageResult) RowsRemoved() int {
	return r.RowsBefore - r.RowsAfter
}

// Report collects the results of every stage run on a Cleaner, in run order
type Report struct {
	Stages []StageResult `json:"stages"`
}

// RowsRemoved sums removed rows across stages
func (r Report) RowsRemoved() int {
	total := 0
	for _, s := range r.Stages {
		total += s.RowsRemoved()
	}
	return total
}

// CellsImputed sums imputed cells across stages
func (r Report) CellsImputed() int {
	total := 0
	for _, s := range r.Stages {
		total += s.CellsImputed
	}
	return total
}

// Conversions returns every kind change across stages
func (r Report) Conversions() []Conversion {
	var out []Conversion
	for _, s := range r.Stages {
		out = append(out, s.Conversions...)
	}
	return out
}

// StageObserver is notified after each stage completes
type StageObserver interface {
	ObserveStage(result StageResult)
}

// ObserverFunc adapts a function to StageObserver
type ObserverFunc func(result StageResult)

// ObserveStage calls f(result)
func (f ObserverFunc) ObserveStage(result StageResult) { f(result) }
