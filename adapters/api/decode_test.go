package api

import (
	"testing"

	"callcast/domain/forecast"
	apperrors "callcast/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUploadErrorTruthiness(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		rejection string
	}{
		{"string", `{"error":"No file selected","weeks":3}`, "No file selected"},
		{"number", `{"error":5}`, "5"},
		{"true", `{"error":true}`, "true"},
		{"object", `{"error":{"code":1}}`, "[object Object]"},
		{"array", `{"error":["bad",2]}`, "bad,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := decodeUploadReply([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, forecast.Rejection{Message: tt.rejection}, reply)
		})
	}
}

func TestDecodeUploadFalsyErrorFallsThrough(t *testing.T) {
	for _, body := range []string{
		`{"error":"","weeks":4}`,
		`{"error":null,"weeks":4}`,
		`{"error":0,"weeks":4}`,
		`{"error":false,"weeks":4}`,
		`{"weeks":4}`,
	} {
		reply, err := decodeUploadReply([]byte(body))
		require.NoError(t, err, body)
		summary, ok := reply.(*forecast.DatasetSummary)
		require.True(t, ok, body)
		assert.Equal(t, 4.0, summary.Weeks)
	}
}

func TestDecodeUploadMalformed(t *testing.T) {
	for _, body := range []string{
		``,
		`not json`,
		`[1,2]`,
		`null`,
		`{"weeks":"seven"}`,
		`{"message":"ok"}`,
	} {
		_, err := decodeUploadReply([]byte(body))
		require.Error(t, err, body)
		assert.Equal(t, apperrors.CodeMalformedResponse, apperrors.GetCode(err), body)
	}
}

func TestDecodePredictMixedValues(t *testing.T) {
	reply, err := decodePredictReply([]byte(`{"predictions":[12,"15",9.5,null,true]}`))
	require.NoError(t, err)

	set := reply.(*forecast.PredictionSet)
	assert.Equal(t, "Predicted Calls: 12, 15, 9.5, , true", forecast.PredictionsLine(set))
	assert.True(t, set.Values[0].IsNumber)
	assert.False(t, set.Values[1].IsNumber)
}

func TestDecodePredictNestedValuesRenderLikeJoin(t *testing.T) {
	reply, err := decodePredictReply([]byte(`{"predictions":[[1,2],{"a":1},[null,"x"]]}`))
	require.NoError(t, err)
	assert.Equal(t, "Predicted Calls: 1,2, [object Object], ,x", forecast.PredictionsLine(reply.(*forecast.PredictionSet)))
}

func TestDecodePredictFromDailyForecasts(t *testing.T) {
	body := `{
		"forecasts": {"Fri": 90, "Mon": 120, "Thu": 100, "Tue": 110, "Wed": 105},
		"accuracy": {"Fri": 4.1, "Mon": 3.2},
		"next_week_dates": ["2024-01-08", "2024-01-09"]
	}`

	reply, err := decodePredictReply([]byte(body))
	require.NoError(t, err)

	set := reply.(*forecast.PredictionSet)
	assert.Equal(t, "Predicted Calls: 120, 110, 105, 100, 90", forecast.PredictionsLine(set))
	assert.Equal(t, 3.2, set.Accuracy["Mon"])
	assert.Equal(t, []string{"2024-01-08", "2024-01-09"}, set.NextWeekDates)
}

func TestDecodePredictMalformed(t *testing.T) {
	for _, body := range []string{
		`{"predictions":"12, 15"}`,
		`{"predictions":null}`,
		`{}`,
		`{"forecasts":{}}`,
	} {
		_, err := decodePredictReply([]byte(body))
		require.Error(t, err, body)
		assert.Equal(t, apperrors.CodeMalformedResponse, apperrors.GetCode(err), body)
	}
}
