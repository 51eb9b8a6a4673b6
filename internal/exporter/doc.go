// Package exporter writes cleaned tables to disk.
//
// CSVWriter writes a header row followed by one record per row: numbers in
// their shortest exact form, booleans as true/false, dates as YYYY-MM-DD and
// missing cells as empty fields. An optional UTF-8 BOM helps Excel detect
// the encoding.
//
// WorkbookWriter writes the same table to a single sheet of an .xlsx file
// with typed cells.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	path, err := writer.WriteTable("customers_clean.csv", table, exporter.WriteOptions{})
package exporter
