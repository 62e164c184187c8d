package forecast

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary describes the numeric values of a prediction set.
type Summary struct {
	Count   int
	Skipped int
	Mean    float64
	Median  float64
	Min     float64
	Max     float64
}

// Summarize computes summary statistics over the numeric prediction values.
// String values are counted in Skipped.
func Summarize(values []PredictionValue) (Summary, error) {
	var data stats.Float64Data
	skipped := 0
	for _, v := range values {
		if !v.IsNumber {
			skipped++
			continue
		}
		data = append(data, v.Number)
	}
	if len(data) == 0 {
		return Summary{Skipped: skipped}, fmt.Errorf("no numeric predictions to summarize")
	}

	mean, err := data.Mean()
	if err != nil {
		return Summary{}, fmt.Errorf("mean: %w", err)
	}
	median, err := data.Median()
	if err != nil {
		return Summary{}, fmt.Errorf("median: %w", err)
	}
	lo, err := data.Min()
	if err != nil {
		return Summary{}, fmt.Errorf("min: %w", err)
	}
	hi, err := data.Max()
	if err != nil {
		return Summary{}, fmt.Errorf("max: %w", err)
	}

	return Summary{
		Count:   len(data),
		Skipped: skipped,
		Mean:    mean,
		Median:  median,
		Min:     lo,
		Max:     hi,
	}, nil
}

// String renders the summary on one line.
func (s Summary) String() string {
	line := fmt.Sprintf("n=%d mean=%s median=%s min=%s max=%s",
		s.Count, FormatNumber(s.Mean), FormatNumber(s.Median), FormatNumber(s.Min), FormatNumber(s.Max))
	if s.Skipped > 0 {
		line += fmt.Sprintf(" (skipped %d non-numeric)", s.Skipped)
	}
	return line
}
