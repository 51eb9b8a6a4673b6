package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"datacleaner/internal/config"
	"datacleaner/internal/files"
	"datacleaner/internal/infrastructure"
	"datacleaner/internal/services"
	"datacleaner/pkg/contracts"
)

// options holds the parsed command line
type options struct {
	configPath string
	output     string
	sheet      string
	strategy   string
	zThreshold float64
	workers    int
	report     bool
	version    bool
	inputs     []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("cleaner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.output, "out", "", "output file (.csv or .xlsx) for a single input; relative paths land in the output directory")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from workbook inputs (defaults to the first)")
	fs.StringVar(&opts.strategy, "strategy", "", "imputation strategy: mean, median or most_frequent")
	fs.Float64Var(&opts.zThreshold, "z", 0, "z-score threshold for outlier removal")
	fs.IntVar(&opts.workers, "workers", 0, "files cleaned in parallel")
	fs.BoolVar(&opts.report, "report", false, "print per-file results as JSON")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cleaner [flags] <file|dir|glob>...\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.inputs = fs.Args()
	return opts, nil
}

// loadConfig applies command line overrides on top of file and env config
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.strategy != "" {
		cfg.Cleaning.Strategy = opts.strategy
	}
	if opts.zThreshold != 0 {
		cfg.Cleaning.ZThreshold = opts.zThreshold
	}
	if opts.workers != 0 {
		cfg.Cleaning.Workers = opts.workers
	}
	if opts.sheet != "" {
		cfg.Cleaning.Sheet = opts.sheet
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}
	if len(opts.inputs) == 0 {
		return errors.New("no input files given")
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	// The CLI has no /metrics endpoint; only tracing is worth exporting
	telemetryCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	telemetryCfg.EnableMetrics = false
	providers, err := infrastructure.InitializeOTel(telemetryCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer providers.Shutdown(context.Background())

	telemetry, err := infrastructure.NewCleaningTelemetry(providers)
	if err != nil {
		return err
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	svc, err := services.NewCleaningService(cfg.Cleaning, paths, telemetry, logger)
	if err != nil {
		return err
	}

	found, err := files.NewDiscovery("").Resolve(opts.inputs...)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return errors.New("no table files found")
	}
	if opts.output != "" && len(found) > 1 {
		return fmt.Errorf("-out needs exactly one input, got %d", len(found))
	}

	jobs := make([]services.FileJob, len(found))
	for i, f := range found {
		jobs[i] = services.FileJob{Input: f.Path, Output: opts.output}
	}

	logger.InfoContext(ctx, "Starting cleaning",
		slog.Int("files", len(jobs)),
		slog.String("strategy", cfg.Cleaning.Strategy),
		slog.Float64("z_threshold", cfg.Cleaning.ZThreshold),
		slog.Int("workers", cfg.Cleaning.Workers))

	results, batchErr := svc.CleanBatch(ctx, jobs)

	if opts.report {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		for _, res := range results {
			if res.Error != "" {
				fmt.Fprintf(stdout, "FAIL %s: %s\n", res.Job.Input, res.Error)
				continue
			}
			fmt.Fprintf(stdout, "OK   %s -> %s (%d -> %d rows)\n", res.Job.Input, res.OutputPath, res.RowsIn, res.RowsOut)
		}
	}
	return batchErr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
