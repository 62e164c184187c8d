package forecast

import (
	"math"
	"strconv"
	"strings"
)

// User-facing notices.
const (
	NoticeSelectFile    = "Please select a file first."
	NoticeEnterWeek     = "Please enter a week value."
	NoticeUploadFailed  = "An error occurred during file upload."
	NoticePredictFailed = "An error occurred while predicting the calls."
)

const (
	weeksPrefix       = "Weeks in dataset: "
	predictionsPrefix = "Predicted Calls: "
	predictionsSep    = ", "
)

// WeeksLine renders the upload summary shown in the weeks output.
func WeeksLine(s *DatasetSummary) string {
	return weeksPrefix + FormatNumber(s.Weeks)
}

// PredictionsLine renders the prediction list shown in the result output.
func PredictionsLine(p *PredictionSet) string {
	parts := make([]string, len(p.Values))
	for i, v := range p.Values {
		parts[i] = v.Text
	}
	return predictionsPrefix + strings.Join(parts, predictionsSep)
}

// FormatNumber prints n the way a browser would: integers without a decimal
// point, other values in their shortest round-trip form.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(n, 'e', -1, 64)
		// Go pads the exponent to two digits, browsers do not.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
