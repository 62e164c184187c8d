package excel

var (
	predictionsHeader = []interface{}{"Week", "Position", "Value"}
	dailyHeader       = []interface{}{"Week", "Day", "Forecast", "Accuracy"}
)

// PredictionRow is one row of the predictions sheet
type PredictionRow struct {
	Week     string
	Position int
	Value    string
}
