package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// ReadGrid loads the raw cell grid from an Excel workbook. The sheet with
// the most rows is used: screening exports occasionally carry empty cover
// sheets before the data sheet.
func ReadGrid(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var best [][]string
	var bestSheet string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			slog.Warn("failed to read sheet", "sheet", name, "error", err)
			continue
		}
		if len(rows) > len(best) {
			best = rows
			bestSheet = name
		}
	}

	if len(best) == 0 {
		return nil, fmt.Errorf("workbook contains no data rows")
	}
	slog.Debug("loaded sheet", "sheet", bestSheet, "rows", len(best))
	return best, nil
}

// ReadGridFile loads the raw cell grid from an Excel file on disk.
func ReadGridFile(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	var best [][]string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if len(rows) > len(best) {
			best = rows
		}
	}
	if len(best) == 0 {
		return nil, fmt.Errorf("workbook %s contains no data rows", path)
	}
	return best, nil
}
