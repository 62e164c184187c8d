package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"callcast/domain/forecast"
	"callcast/internal/errors"
	"callcast/ports"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-call id so service logs can be matched to ours.
const RequestIDHeader = "X-Request-ID"

const serviceName = "forecast"

// Client talks to the forecasting service over HTTP
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     ports.Diagnostics
}

var _ ports.ForecastService = (*Client)(nil)

// NewClient creates a client for the configured service
func NewClient(config ClientConfig, logger ports.Diagnostics) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "invalid client configuration")
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// Upload sends the file as multipart form data under the "file" field
func (c *Client) Upload(ctx context.Context, file ports.SelectedFile) (forecast.UploadReply, error) {
	body, contentType, err := buildUploadBody(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", file.Name())
	}

	raw, status, err := c.post(ctx, UploadPath, contentType, body)
	if err != nil {
		return nil, err
	}
	reply, err := decodeUploadReply(raw)
	if err != nil {
		return nil, withStatus(err, status)
	}
	return reply, nil
}

// Predict sends the week value as JSON
func (c *Client) Predict(ctx context.Context, req forecast.PredictRequest) (forecast.PredictReply, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal predict request")
	}

	raw, status, err := c.post(ctx, PredictPath, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	reply, err := decodePredictReply(raw)
	if err != nil {
		return nil, withStatus(err, status)
	}
	return reply, nil
}

// post issues the request and returns the raw body and status. The status code
// does not decide success: the body is decoded either way. Only debug lines are
// logged here; failures reach the caller through the returned error.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, int, error) {
	requestID := uuid.NewString()
	url := strings.TrimRight(c.config.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	c.logger.Debug("[ForecastClient] POST %s request_id=%s", path, requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.ExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.ExternalServiceError(serviceName, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("[ForecastClient] %s returned status %d request_id=%s", path, resp.StatusCode, requestID)
	}
	c.logger.Debug("[ForecastClient] %s answered in %.2fms (%d bytes) request_id=%s",
		path, float64(time.Since(start).Nanoseconds())/1e6, len(raw), requestID)

	return raw, resp.StatusCode, nil
}

// withStatus adds a non-2xx status to a decode error. The error code is kept.
func withStatus(err error, status int) error {
	if status >= 200 && status < 300 {
		return err
	}
	return errors.Wrapf(err, "status %d", status)
}

func buildUploadBody(file ports.SelectedFile) (*bytes.Buffer, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(forecast.FileField, filepath.Base(file.Name()))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
