package excel

// WorkbookConfig holds configuration for the prediction workbook
type WorkbookConfig struct {
	FilePath         string `json:"file_path"`
	PredictionsSheet string `json:"predictions_sheet"`
	DailySheet       string `json:"daily_sheet"`
}

// DefaultWorkbookConfig returns the sheet names the workbook is written with
func DefaultWorkbookConfig(path string) WorkbookConfig {
	return WorkbookConfig{
		FilePath:         path,
		PredictionsSheet: "Predictions",
		DailySheet:       "Daily",
	}
}
