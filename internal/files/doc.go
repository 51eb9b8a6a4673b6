// Package files discovers input tables on disk for batch cleaning.
//
// Discovery accepts directories, glob patterns and plain paths and returns
// the CSV and workbook files among them. Office lock files and files the
// cleaner already produced are skipped.
//
// Example usage:
//
//	discovery := files.NewDiscovery(workDir)
//	inputs, err := discovery.Resolve("exports", "archive/*.xlsx")
package files
