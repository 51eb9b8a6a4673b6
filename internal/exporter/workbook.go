package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"datacleaner/internal/config"
	"datacleaner/pkg/contracts/domain"
)

// DefaultSheetName is used when WorkbookWriter is given no sheet name
const DefaultSheetName = "Cleaned"

// WorkbookWriter writes cleaned tables as .xlsx workbooks
type WorkbookWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer resolving relative paths like CSVWriter
func NewWorkbookWriter(paths *config.Paths, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{paths: paths, logger: logger.With(slog.String("component", "workbook_writer"))}
}

// WriteTable writes table to a single sheet and returns the resolved path.
// Numbers and booleans become typed cells; dates are written as YYYY-MM-DD
// text and missing cells are left blank.
func (w *WorkbookWriter) WriteTable(filePath string, table *domain.Table, sheet string) (string, error) {
	fullPath := filePath
	if !filepath.IsAbs(filePath) && w.paths != nil {
		fullPath = w.paths.GetOutputPath(filePath)
	}
	if sheet == "" {
		sheet = DefaultSheetName
	}

	w.logger.Info("Writing workbook",
		slog.String("full_path", fullPath),
		slog.String("sheet_name", sheet),
		slog.Int("record_count", table.NumRows()))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, table.NumColumns())
	for j, name := range table.Names() {
		header[j] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}

	for i := 0; i < table.NumRows(); i++ {
		row := make([]interface{}, table.NumColumns())
		for j, col := range table.Columns {
			row[j] = cellValue(col.Values[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return fullPath, nil
}

func cellValue(v domain.Value) interface{} {
	switch v.Kind() {
	case domain.KindEmpty:
		return nil
	case domain.KindNumeric:
		if math.IsInf(v.Float(), 0) {
			return formatFloat(v.Float())
		}
		return v.Float()
	case domain.KindBoolean:
		return v.Bool()
	default:
		return v.String()
	}
}
