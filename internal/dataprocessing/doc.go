// Package dataprocessing cleans single tables in a fixed five-stage pipeline.
// It also reads spreadsheets and CSV files into tables and profiles them.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Parser: Reads .xlsx and .csv files into a domain.Table
// 2. Cleaner: Runs the cleaning stages over an owned copy of a table
// 3. Summarizer: Profiles tables before and after cleaning
//
// # Pipeline
//
// CleanData runs the stages in this order, each observing the previous result:
//
//	RemoveDuplicates → HandleMissingValues → FixDataTypes → StandardizeText → RemoveOutliers
//
// Columns carry an explicit kind (numeric, text, boolean, datetime or empty).
// Imputation happens before type coercion, so a numeric-looking text column
// with gaps is filled with its most frequent text and only then converted.
//
// # Usage
//
//	table, err := dataprocessing.ParseFile("book1.xlsx", dataprocessing.ParseOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cleaner := dataprocessing.NewCleaner(table, dataprocessing.WithStrategy(dataprocessing.StrategyMedian))
//	cleaned := cleaner.CleanData()
//	report := cleaner.Report()
//
// # Degenerate input
//
// Stages never return errors. Undefined statistics propagate instead:
//
//   - a column with no present values keeps its missing cells after imputation
//   - a numeric column with fewer than two present values drops every row in RemoveOutliers
//   - missing numeric cells that survive to RemoveOutliers drop their row
package dataprocessing
