package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"datacleaner/internal/dataprocessing"
)

// CleaningMetrics holds the pipeline instruments
type CleaningMetrics struct {
	RunsTotal        metric.Int64Counter
	RowsRemoved      metric.Int64Counter
	CellsImputed     metric.Int64Counter
	ColumnsConverted metric.Int64Counter
	StageDuration    metric.Float64Histogram
}

// NewCleaningMetrics registers the pipeline instruments on meter
func NewCleaningMetrics(meter metric.Meter) (*CleaningMetrics, error) {
	runs, err := meter.Int64Counter(
		"cleaner_runs_total",
		metric.WithDescription("Total number of cleaning runs"),
	)
	if err != nil {
		return nil, err
	}

	rowsRemoved, err := meter.Int64Counter(
		"cleaner_rows_removed_total",
		metric.WithDescription("Rows dropped by the cleaning stages"),
	)
	if err != nil {
		return nil, err
	}

	cellsImputed, err := meter.Int64Counter(
		"cleaner_cells_imputed_total",
		metric.WithDescription("Missing cells filled during imputation"),
	)
	if err != nil {
		return nil, err
	}

	converted, err := meter.Int64Counter(
		"cleaner_columns_converted_total",
		metric.WithDescription("Columns whose kind changed during type coercion"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"cleaner_stage_duration_seconds",
		metric.WithDescription("Cleaning stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &CleaningMetrics{
		RunsTotal:        runs,
		RowsRemoved:      rowsRemoved,
		CellsImputed:     cellsImputed,
		ColumnsConverted: converted,
		StageDuration:    duration,
	}, nil
}

// CleaningTelemetry traces cleaning runs and records stage metrics
type CleaningTelemetry struct {
	tracer  trace.Tracer
	metrics *CleaningMetrics
	logger  *slog.Logger
}

// NewCleaningTelemetry builds telemetry from initialized providers
func NewCleaningTelemetry(providers *OTelProviders) (*CleaningTelemetry, error) {
	metrics, err := NewCleaningMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create cleaning metrics: %w", err)
	}
	logger := providers.Logger
	if logger == nil {
		logger = GetLogger()
	}
	return &CleaningTelemetry{
		tracer:  providers.Tracer,
		metrics: metrics,
		logger:  WithComponent(logger, "telemetry"),
	}, nil
}

// StartRun opens the cleaner.clean span for one table. The returned
// observer records every stage against that span; finish must be called
// with the run error, if any.
func (t *CleaningTelemetry) StartRun(ctx context.Context, source string, rows, columns int) (context.Context, dataprocessing.StageObserver, func(error)) {
	ctx, span := t.tracer.Start(ctx, "cleaner.clean",
		trace.WithAttributes(
			attribute.String("cleaner.source", source),
			attribute.Int("cleaner.rows_in", rows),
			attribute.Int("cleaner.columns", columns),
		),
	)

	observer := dataprocessing.ObserverFunc(func(result dataprocessing.StageResult) {
		t.observe(ctx, span, result)
	})

	finish := func(err error) {
		status := "success"
		if err != nil {
			status = "failure"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		t.metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
		span.End()
	}
	return ctx, observer, finish
}

func (t *CleaningTelemetry) observe(ctx context.Context, span trace.Span, result dataprocessing.StageResult) {
	stageAttr := attribute.String("stage", string(result.Stage))
	opt := metric.WithAttributes(stageAttr)

	t.metrics.StageDuration.Record(ctx, result.Duration.Seconds(), opt)
	if removed := result.RowsRemoved(); removed > 0 {
		t.metrics.RowsRemoved.Add(ctx, int64(removed), opt)
	}
	if result.CellsImputed > 0 {
		t.metrics.CellsImputed.Add(ctx, int64(result.CellsImputed), opt)
	}
	if n := len(result.Conversions); n > 0 {
		t.metrics.ColumnsConverted.Add(ctx, int64(n), opt)
	}

	span.AddEvent("stage.completed", trace.WithAttributes(
		stageAttr,
		attribute.Int("rows_before", result.RowsBefore),
		attribute.Int("rows_after", result.RowsAfter),
		attribute.Float64("duration_seconds", result.Duration.Seconds()),
	))

	if result.Duration > time.Second {
		t.logger.WarnContext(ctx, "Slow cleaning stage",
			slog.String("stage", string(result.Stage)),
			slog.Duration("duration", result.Duration))
	}
}
