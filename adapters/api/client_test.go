package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"callcast/domain/forecast"
	apperrors "callcast/internal/errors"
	"callcast/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *testkit.StubServer, *testkit.Diagnostics) {
	t.Helper()
	stub := testkit.NewStubServer()
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	diag := &testkit.Diagnostics{}
	client, err := NewClient(ClientConfig{BaseURL: srv.URL + "/"}, diag)
	require.NoError(t, err)
	return client, stub, diag
}

func TestUploadSendsMultipartFile(t *testing.T) {
	client, stub, _ := newTestClient(t)
	stub.SetUploadReply(testkit.JSONReply(map[string]interface{}{
		"message": "File processed successfully!",
		"years":   []int{2022, 2023},
		"weeks":   7,
	}))

	reply, err := client.Upload(context.Background(), testkit.MemFile{FileName: "/tmp/calls.csv", Content: []byte("Year,Week\n")})
	require.NoError(t, err)

	summary, ok := reply.(*forecast.DatasetSummary)
	require.True(t, ok, "expected a dataset summary, got %T", reply)
	assert.Equal(t, 7.0, summary.Weeks)
	assert.Equal(t, "File processed successfully!", summary.Message)
	assert.Equal(t, []int{2022, 2023}, summary.Years)

	hits := stub.Hits()
	require.Len(t, hits, 1)
	assert.Equal(t, UploadPath, hits[0].Path)
	assert.True(t, strings.HasPrefix(hits[0].ContentType, "multipart/form-data"))
	assert.Equal(t, "calls.csv", hits[0].FileName)
	assert.Equal(t, "Year,Week\n", string(hits[0].FileContent))
	assert.NotEmpty(t, hits[0].RequestID)
}

func TestUploadRejection(t *testing.T) {
	client, stub, _ := newTestClient(t)
	stub.SetUploadReply(testkit.JSONReply(map[string]string{"error": "bad file"}))

	reply, err := client.Upload(context.Background(), testkit.MemFile{FileName: "x.csv"})
	require.NoError(t, err)
	assert.Equal(t, forecast.Rejection{Message: "bad file"}, reply)
}

func TestUploadFileReadFailure(t *testing.T) {
	client, stub, _ := newTestClient(t)

	_, err := client.Upload(context.Background(), testkit.MemFile{FileName: "gone.csv", OpenErr: errors.New("permission denied")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Zero(t, stub.HitCount(UploadPath))
}

func TestPredictSendsRawWeek(t *testing.T) {
	client, stub, _ := newTestClient(t)

	reply, err := client.Predict(context.Background(), forecast.PredictRequest{Week: "0"})
	require.NoError(t, err)

	set, ok := reply.(*forecast.PredictionSet)
	require.True(t, ok)
	assert.Equal(t, "Predicted Calls: 120, 131, 118, 125, 97", forecast.PredictionsLine(set))

	hits := stub.Hits()
	require.Len(t, hits, 1)
	assert.Equal(t, PredictPath, hits[0].Path)
	assert.Equal(t, "application/json", hits[0].ContentType)
	assert.JSONEq(t, `{"week":"0"}`, string(hits[0].Body))
}

func TestPredictSendsModelWhenSet(t *testing.T) {
	client, stub, _ := newTestClient(t)

	_, err := client.Predict(context.Background(), forecast.PredictRequest{Week: "12", Model: "ARIMA"})
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(stub.Hits()[0].Body, &body))
	assert.Equal(t, map[string]string{"week": "12", "model": "ARIMA"}, body)
}

func TestPredictMalformedReply(t *testing.T) {
	client, stub, _ := newTestClient(t)
	stub.SetPredictReply(testkit.Reply{Status: http.StatusInternalServerError, Body: "<html>oops</html>", ContentType: "text/html"})

	_, err := client.Predict(context.Background(), forecast.PredictRequest{Week: "3"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMalformedResponse, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "status 500")
}

func TestNonSuccessStatusStillDecoded(t *testing.T) {
	client, stub, diag := newTestClient(t)
	stub.SetPredictReply(testkit.Reply{Status: http.StatusBadRequest, Body: `{"error":"Please upload a file first!"}`})

	reply, err := client.Predict(context.Background(), forecast.PredictRequest{Week: "3"})
	require.NoError(t, err)
	assert.Equal(t, forecast.Rejection{Message: "Please upload a file first!"}, reply)
	assert.Empty(t, diag.Warnings())
	assert.Empty(t, diag.Errors())
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: url}, &testkit.Diagnostics{})
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), forecast.PredictRequest{Week: "3"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeExternalService, apperrors.GetCode(err))
}

func TestTimeoutApplies(t *testing.T) {
	stub := testkit.NewStubServer()
	release := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		stub.Handler().ServeHTTP(w, r)
	})
	srv := httptest.NewServer(slow)
	defer srv.Close()
	defer close(release)

	client, err := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, &testkit.Diagnostics{})
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), forecast.PredictRequest{Week: "3"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeExternalService, apperrors.GetCode(err))
}

func TestNewClientRejectsBadConfig(t *testing.T) {
	_, err := NewClient(ClientConfig{BaseURL: "not a url"}, &testkit.Diagnostics{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))

	_, err = NewClient(ClientConfig{BaseURL: "http://localhost", Timeout: -time.Second}, &testkit.Diagnostics{})
	require.Error(t, err)
}
