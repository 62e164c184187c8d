package api

import (
	"fmt"
	"net/url"
	"time"
)

// Fixed endpoint paths on the forecasting service.
const (
	UploadPath  = "/upload"
	PredictPath = "/predict"
)

// ClientConfig holds configuration for the forecasting service client
type ClientConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"` // zero means no client-side timeout
}

// Validate checks if the configuration is valid
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return &ValidationError{Field: "BaseURL", Message: "must be an absolute URL"}
	}
	if c.Timeout < 0 {
		return &ValidationError{Field: "Timeout", Message: "cannot be negative"}
	}
	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}
