package excel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"callcast/domain/forecast"

	"github.com/xuri/excelize/v2"
)

// PredictionWorkbook collects prediction sets into an .xlsx file. Rows are
// appended in memory and written by Save.
type PredictionWorkbook struct {
	mu      sync.Mutex
	config  WorkbookConfig
	file    *excelize.File
	nextRow map[string]int
}

// OpenPredictionWorkbook continues an existing workbook at config.FilePath or
// starts a new one.
func OpenPredictionWorkbook(config WorkbookConfig) (*PredictionWorkbook, error) {
	var (
		f   *excelize.File
		err error
	)
	_, statErr := os.Stat(config.FilePath)
	switch {
	case statErr == nil:
		f, err = excelize.OpenFile(config.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
	case !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to check workbook path: %w", statErr)
	default:
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", config.PredictionsSheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	w := &PredictionWorkbook{config: config, file: f, nextRow: make(map[string]int)}
	if err := w.prepareSheet(config.PredictionsSheet, predictionsHeader); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.prepareSheet(config.DailySheet, dailyHeader); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// prepareSheet creates the sheet when missing and writes its header when empty
func (w *PredictionWorkbook) prepareSheet(sheet string, header []interface{}) error {
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if idx == -1 {
		if _, err := w.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	w.nextRow[sheet] = len(rows) + 1
	if len(rows) == 0 {
		return w.appendRow(sheet, header)
	}
	return nil
}

func (w *PredictionWorkbook) appendRow(sheet string, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.nextRow[sheet])
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	w.nextRow[sheet]++
	return nil
}

// RecordPredictions appends one row per prediction value and one row per day
// of the daily maps.
func (w *PredictionWorkbook) RecordPredictions(ctx context.Context, week string, set *forecast.PredictionSet) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, v := range set.Values {
		var value interface{} = v.Text
		if v.IsNumber {
			value = v.Number
		}
		if err := w.appendRow(w.config.PredictionsSheet, []interface{}{week, i + 1, value}); err != nil {
			return err
		}
	}

	days := make(map[string]float64, len(set.Forecasts))
	for k, v := range set.Forecasts {
		days[k] = v
	}
	for k := range set.Accuracy {
		if _, ok := days[k]; !ok {
			days[k] = 0
		}
	}
	for _, day := range forecast.DayKeys(days) {
		row := []interface{}{week, day, nil, nil}
		if v, ok := set.Forecasts[day]; ok {
			row[2] = v
		}
		if v, ok := set.Accuracy[day]; ok {
			row[3] = v
		}
		if err := w.appendRow(w.config.DailySheet, row); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the workbook to its file path
func (w *PredictionWorkbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.SaveAs(w.config.FilePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Close releases the workbook without saving
func (w *PredictionWorkbook) Close() error {
	return w.file.Close()
}

// ReadPredictions reads the predictions sheet of a saved workbook
func ReadPredictions(config WorkbookConfig) ([]PredictionRow, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.PredictionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", config.PredictionsSheet, err)
	}

	var out []PredictionRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected at least 2 cells, got %d", i+1, len(row))
		}
		pos, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad position %q", i+1, row[1])
		}
		r := PredictionRow{Week: row[0], Position: pos}
		if len(row) > 2 {
			r.Value = row[2]
		}
		out = append(out, r)
	}
	return out, nil
}
