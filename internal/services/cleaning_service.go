package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"datacleaner/internal/config"
	"datacleaner/internal/dataprocessing"
	"datacleaner/internal/exporter"
	"datacleaner/internal/infrastructure"
	"datacleaner/pkg/contracts/domain"
)

// CleanResult is the outcome of cleaning one table
type CleanResult struct {
	Table  *domain.Table         `json:"table"`
	Report dataprocessing.Report `json:"report"`
}

// FileJob describes one input file to clean
type FileJob struct {
	Input string `json:"input"`
	// Output defaults to <input name>_cleaned.csv in the output directory.
	// A .xlsx extension selects workbook output.
	Output string `json:"output,omitempty"`
	Sheet  string `json:"sheet,omitempty"`
}

// FileResult is the outcome of one FileJob
type FileResult struct {
	Job        FileJob               `json:"job"`
	OutputPath string                `json:"output_path,omitempty"`
	RowsIn     int                   `json:"rows_in"`
	RowsOut    int                   `json:"rows_out"`
	Report     dataprocessing.Report `json:"report"`
	Duration   time.Duration         `json:"duration_ns"`
	Error      string                `json:"error,omitempty"`
}

// CleaningService runs the cleaning pipeline over tables and files
type CleaningService struct {
	options   dataprocessing.Options
	sheet     string
	workers   int
	paths     *config.Paths
	csv       *exporter.CSVWriter
	workbook  *exporter.WorkbookWriter
	telemetry *infrastructure.CleaningTelemetry
	logger    *slog.Logger
}

// NewCleaningService creates a cleaning service from configuration.
// telemetry may be nil.
func NewCleaningService(cfg config.CleaningConfig, paths *config.Paths, telemetry *infrastructure.CleaningTelemetry, logger *slog.Logger) (*CleaningService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	strategy, err := dataprocessing.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}

	return &CleaningService{
		options: dataprocessing.Options{
			Strategy:   strategy,
			ZThreshold: cfg.ZThreshold,
		},
		sheet:     cfg.Sheet,
		workers:   cfg.Workers,
		paths:     paths,
		csv:       exporter.NewCSVWriter(paths, logger),
		workbook:  exporter.NewWorkbookWriter(paths, logger),
		telemetry: telemetry,
		logger:    logger.With(slog.String("service", "cleaning")),
	}, nil
}

// Options returns the configured pipeline parameters
func (s *CleaningService) Options() dataprocessing.Options {
	return s.options
}

// CleanTable runs the full pipeline on a copy of table
func (s *CleaningService) CleanTable(ctx context.Context, source string, table *domain.Table, opts dataprocessing.Options) (*CleanResult, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate table: %w", err)
	}

	cleanerOpts := []dataprocessing.Option{
		dataprocessing.WithOptions(opts),
		dataprocessing.WithLogger(infrastructure.LoggerWithContext(ctx, s.logger)),
	}

	finish := func(error) {}
	if s.telemetry != nil {
		var observer dataprocessing.StageObserver
		ctx, observer, finish = s.telemetry.StartRun(ctx, source, table.NumRows(), table.NumColumns())
		cleanerOpts = append(cleanerOpts, dataprocessing.WithObserver(observer))
	}

	cleaner := dataprocessing.NewCleaner(table, cleanerOpts...)
	cleaned := cleaner.CleanData()
	finish(nil)

	s.logger.InfoContext(ctx, "Table cleaned",
		slog.String("source", source),
		slog.Int("rows_in", table.NumRows()),
		slog.Int("rows_out", cleaned.NumRows()),
		slog.Int("cells_imputed", cleaner.Report().CellsImputed()))

	return &CleanResult{Table: cleaned, Report: cleaner.Report()}, nil
}

// CleanFile parses job.Input, cleans it with the configured options and
// writes the result.
func (s *CleaningService) CleanFile(ctx context.Context, job FileJob) (*FileResult, error) {
	start := time.Now()
	result := &FileResult{Job: job}

	if job.Input == "" {
		return result, ErrMissingInput
	}
	if job.Sheet == "" {
		job.Sheet = s.sheet
		result.Job.Sheet = s.sheet
	}
	output := job.Output
	if output == "" {
		output = DefaultOutputName(job.Input)
	}
	if filepath.Clean(output) == filepath.Clean(job.Input) {
		return result, fmt.Errorf("%w: %s", ErrOutputIsInput, output)
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	logger := s.logger.With(slog.String("input", job.Input))
	logger.InfoContext(ctx, "Cleaning file started", slog.String("sheet", job.Sheet))

	table, err := dataprocessing.ParseFile(job.Input, dataprocessing.ParseOptions{Sheet: job.Sheet})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to parse input", slog.String("error", err.Error()))
		return result, fmt.Errorf("failed to parse %s: %w", job.Input, err)
	}
	result.RowsIn = table.NumRows()

	cleaned, err := s.CleanTable(ctx, job.Input, table, s.options)
	if err != nil {
		return result, err
	}
	result.RowsOut = cleaned.Table.NumRows()
	result.Report = cleaned.Report

	if isWorkbook(output) {
		result.OutputPath, err = s.workbook.WriteTable(output, cleaned.Table, "")
	} else {
		result.OutputPath, err = s.csv.WriteTable(output, cleaned.Table, exporter.WriteOptions{})
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to write output", slog.String("error", err.Error()))
		return result, fmt.Errorf("failed to write %s: %w", output, err)
	}

	result.Duration = time.Since(start)
	logger.InfoContext(ctx, "Cleaning file completed",
		slog.String("output", result.OutputPath),
		slog.Int("rows_in", result.RowsIn),
		slog.Int("rows_out", result.RowsOut),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// CleanBatch cleans every job with at most the configured number of workers.
// A failing job does not stop the others; its error is recorded on its
// result and joined into the returned error. Results keep job order.
func (s *CleaningService) CleanBatch(ctx context.Context, jobs []FileJob) ([]FileResult, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}

	results := make([]FileResult, len(jobs))
	jobs, errs := s.planOutputs(jobs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, job := range jobs {
		if errs[i] != nil {
			results[i] = FileResult{Job: job, Error: errs[i].Error()}
			errs[i] = fmt.Errorf("%s: %w", job.Input, errs[i])
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{Job: job, Error: err.Error()}
				errs[i] = err
				return nil
			}
			res, err := s.CleanFile(infrastructure.WithTraceID(gctx, infrastructure.GenerateTraceID()), job)
			results[i] = *res
			if err != nil {
				results[i].Error = err.Error()
				errs[i] = fmt.Errorf("%s: %w", job.Input, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	s.logger.InfoContext(ctx, "Batch completed",
		slog.Int("jobs", len(jobs)),
		slog.Int("failed", failed),
		slog.Int("workers", s.workers))

	return results, errors.Join(errs...)
}

// planOutputs settles every job's output path before any job runs. An
// explicit output already claimed by an earlier job fails with
// ErrOutputCollision; default names that collide get a numeric suffix
// (data_cleaned.csv, data_1_cleaned.csv, ...).
func (s *CleaningService) planOutputs(jobs []FileJob) ([]FileJob, []error) {
	planned := make([]FileJob, len(jobs))
	errs := make([]error, len(jobs))
	claimed := make(map[string]string, len(jobs))

	copy(planned, jobs)
	for i, job := range planned {
		if job.Output == "" {
			continue
		}
		key := s.outputKey(job.Output)
		if owner, ok := claimed[key]; ok {
			errs[i] = fmt.Errorf("%w: %s is also written for %s", ErrOutputCollision, job.Output, owner)
			continue
		}
		claimed[key] = job.Input
	}

	for i, job := range planned {
		if job.Output != "" || job.Input == "" {
			continue
		}
		name := DefaultOutputName(job.Input)
		for n := 1; ; n++ {
			if _, ok := claimed[s.outputKey(name)]; !ok {
				break
			}
			name = numberedOutputName(job.Input, n)
		}
		claimed[s.outputKey(name)] = job.Input
		planned[i].Output = name
	}
	return planned, errs
}

// outputKey is the path a writer would resolve output to
func (s *CleaningService) outputKey(output string) string {
	if !filepath.IsAbs(output) && s.paths != nil {
		output = s.paths.GetOutputPath(output)
	}
	return filepath.Clean(output)
}

// DefaultOutputName derives the cleaned file name for input
func DefaultOutputName(input string) string {
	return inputStem(input) + "_cleaned.csv"
}

func numberedOutputName(input string, n int) string {
	return fmt.Sprintf("%s_%d_cleaned.csv", inputStem(input), n)
}

func inputStem(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}
