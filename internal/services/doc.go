// Package services implements the application layer shared by the command
// line tool and the HTTP server.
//
// CleaningService wraps the dataprocessing pipeline with the work around it:
// parsing input files, exporting cleaned tables, telemetry and bounded
// parallel batch runs.
//
//	svc, err := services.NewCleaningService(cfg.Cleaning, paths, telemetry, logger)
//	results, err := svc.CleanBatch(ctx, []services.FileJob{{Input: "a.xlsx"}, {Input: "b.csv"}})
//
// HealthService answers liveness and readiness checks.
package services
