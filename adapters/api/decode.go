package api

import (
	"strings"

	"callcast/domain/forecast"
	"callcast/internal/errors"

	"github.com/tidwall/gjson"
)

func decodeUploadReply(raw []byte) (forecast.UploadReply, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	if rejection, ok := rejectionOf(doc); ok {
		return rejection, nil
	}

	weeks := doc.Get("weeks")
	if weeks.Type != gjson.Number {
		return nil, errors.MalformedResponse("upload reply has no numeric weeks field")
	}

	summary := &forecast.DatasetSummary{
		Weeks:   weeks.Num,
		Message: doc.Get("message").String(),
	}
	doc.Get("years").ForEach(func(_, year gjson.Result) bool {
		if year.Type == gjson.Number {
			summary.Years = append(summary.Years, int(year.Int()))
		}
		return true
	})
	return summary, nil
}

func decodePredictReply(raw []byte) (forecast.PredictReply, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	if rejection, ok := rejectionOf(doc); ok {
		return rejection, nil
	}

	set := &forecast.PredictionSet{
		Forecasts: numberMap(doc.Get("forecasts")),
		Accuracy:  numberMap(doc.Get("accuracy")),
	}
	doc.Get("next_week_dates").ForEach(func(_, date gjson.Result) bool {
		set.NextWeekDates = append(set.NextWeekDates, date.String())
		return true
	})

	predictions := doc.Get("predictions")
	switch {
	case predictions.IsArray():
		for _, item := range predictions.Array() {
			set.Values = append(set.Values, predictionValue(item))
		}
	case !predictions.Exists() && len(set.Forecasts) > 0:
		set.Values = forecastValues(doc.Get("forecasts"))
	default:
		return nil, errors.MalformedResponse("predict reply has no predictions list")
	}
	return set, nil
}

func parseObject(raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, errors.MalformedResponse("reply is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return gjson.Result{}, errors.MalformedResponse("reply is not a JSON object")
	}
	return doc, nil
}

// rejectionOf reports a Rejection when the error field is truthy in the
// JavaScript sense: empty strings, zero, false and null do not count.
func rejectionOf(doc gjson.Result) (forecast.Rejection, bool) {
	field := doc.Get("error")
	if !truthy(field) {
		return forecast.Rejection{}, false
	}
	return forecast.Rejection{Message: displayText(field)}, true
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}

// displayText renders a JSON value the way JavaScript string conversion does:
// arrays join their items with commas, objects become "[object Object]" and
// null items inside a join render empty.
func displayText(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return forecast.FormatNumber(r.Num)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	case gjson.Null:
		return ""
	}
	if r.IsArray() {
		items := r.Array()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = displayText(item)
		}
		return strings.Join(parts, ",")
	}
	if r.IsObject() {
		return "[object Object]"
	}
	return r.Raw
}

func predictionValue(item gjson.Result) forecast.PredictionValue {
	if item.Type == gjson.Number {
		return forecast.NumberValue(item.Num)
	}
	return forecast.TextValue(displayText(item))
}

func numberMap(obj gjson.Result) map[string]float64 {
	if !obj.IsObject() {
		return nil
	}
	out := make(map[string]float64)
	obj.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			out[key.String()] = value.Num
		}
		return true
	})
	return out
}

// forecastValues flattens the per-day forecast object, weekdays first in
// calendar order, then any other keys in document order. It is only used when
// the reply has no predictions list; the browser page failed on such a reply
// and showed the generic prediction notice instead.
func forecastValues(obj gjson.Result) []forecast.PredictionValue {
	var values []forecast.PredictionValue
	seen := make(map[string]bool)
	for _, day := range forecast.Weekdays {
		if v := obj.Get(day); v.Type == gjson.Number {
			values = append(values, forecast.NumberValue(v.Num))
			seen[day] = true
		}
	}
	obj.ForEach(func(key, value gjson.Result) bool {
		if !seen[key.String()] && value.Type == gjson.Number {
			values = append(values, forecast.NumberValue(value.Num))
		}
		return true
	})
	return values
}
