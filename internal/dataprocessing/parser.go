package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"datacleaner/pkg/contracts/domain"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoSheet is returned when a workbook has no usable sheet
	ErrNoSheet = errors.New("sheet not found")
	// ErrNoHeader is returned when the input has no header row
	ErrNoHeader = errors.New("missing header row")
)

// ParseOptions controls how input files are read
type ParseOptions struct {
	// Sheet selects the worksheet of an .xlsx file; empty means the first sheet
	Sheet string
}

// ParseFile reads an .xlsx or .csv file into a table. The first row holds
// column names; empty cells load as missing.
func ParseFile(filePath string, opts ParseOptions) (*domain.Table, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()
		return ParseWorkbook(f, opts.Sheet)
	case ".csv":
		file, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		return ParseCSV(file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filePath))
	}
}

// ParseWorkbook reads one sheet of an open workbook
func ParseWorkbook(f *excelize.File, sheet string) (*domain.Table, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoSheet
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	// Raw boolean cells read as 1/0; restore their spelling
	for i := 1; i < len(rows); i++ {
		for j, v := range rows[i] {
			if v != "1" && v != "0" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			if typ, err := f.GetCellType(sheet, cell); err == nil && typ == excelize.CellTypeBool {
				rows[i][j] = strings.ToUpper(strconv.FormatBool(v == "1"))
			}
		}
	}

	slog.Debug("Read worksheet",
		slog.String("sheet_name", sheet),
		slog.Int("total_rows", len(rows)))

	return buildTable(rows)
}

// ParseCSV reads comma-separated records with a header row
func ParseCSV(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return buildTable(records)
}

// buildTable turns raw rows into typed columns. Short rows are padded with
// missing cells; headers without a name are called "Unnamed: <index>" and
// repeated headers get ".1", ".2" suffixes.
func buildTable(rows [][]string) (*domain.Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	header := rows[0]
	width := len(header)
	for _, row := range rows[1:] {
		if len(row) > width {
			width = len(row)
		}
	}

	names := make([]string, width)
	for j := range names {
		if j < len(header) {
			names[j] = strings.TrimSpace(header[j])
		}
		if names[j] == "" {
			names[j] = fmt.Sprintf("Unnamed: %d", j)
		}
	}
	names = dedupeNames(names)

	columns := make([]*domain.Column, width)
	for j, name := range names {
		raw := make([]string, len(rows)-1)
		for i, row := range rows[1:] {
			if j < len(row) {
				raw[i] = row[j]
			}
		}
		columns[j] = loadColumn(name, raw)
	}

	table, err := domain.NewTable(columns...)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}
	return table, nil
}

// dedupeNames renames repeats in order: the second "value" becomes
// "value.1", the third "value.2". A generated name that is itself taken
// keeps growing ("value.1.1").
func dedupeNames(names []string) []string {
	out := make([]string, len(names))
	counts := make(map[string]int, len(names))
	for i, name := range names {
		n := counts[name]
		for n > 0 {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
			n = counts[name]
		}
		out[i] = name
		counts[name] = n + 1
	}
	return out
}

// loadColumn infers the load-time kind of a column: numeric if every present
// cell is a number, boolean if every present cell is TRUE/FALSE, text otherwise.
// Text cells keep their raw content; trimming is left to the pipeline.
func loadColumn(name string, raw []string) *domain.Column {
	numeric, boolean := true, true
	for _, s := range raw {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			numeric = false
		}
		if l := strings.ToLower(trimmed); l != "true" && l != "false" {
			boolean = false
		}
	}

	values := make([]domain.Value, len(raw))
	for i, s := range raw {
		trimmed := strings.TrimSpace(s)
		switch {
		case trimmed == "":
			values[i] = domain.Missing()
		case numeric:
			f, _ := strconv.ParseFloat(trimmed, 64)
			values[i] = domain.Number(f)
		case boolean:
			values[i] = domain.Bool(strings.EqualFold(trimmed, "true"))
		default:
			values[i] = domain.Text(s)
		}
	}
	return domain.NewColumn(name, values...)
}
