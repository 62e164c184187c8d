package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"callcast/internal"
	"callcast/internal/errors"
)

// DefaultBaseURL is where the forecasting service listens when run locally.
const DefaultBaseURL = "http://127.0.0.1:5000"

// KnownModels are the forecasting models the service accepts in a predict request.
var KnownModels = []string{"ARIMA", "RandomForecast", "HoltWinters"}

// Config represents the complete application configuration
type Config struct {
	Service  ServiceConfig
	Dispatch DispatchConfig
	LogLevel internal.LogLevel
}

// ServiceConfig holds forecasting service connection settings
type ServiceConfig struct {
	BaseURL string
	Model   string
	// Timeout of zero leaves the transport's own behaviour in charge.
	Timeout time.Duration
}

// DispatchConfig holds handler scheduling settings
type DispatchConfig struct {
	LatestOnly bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	timeout, err := getEnvDuration("CALLCAST_TIMEOUT", 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load service configuration")
	}
	latestOnly, err := getEnvBool("CALLCAST_LATEST_ONLY", false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dispatch configuration")
	}

	config := &Config{
		Service: ServiceConfig{
			BaseURL: getEnvOrDefault("CALLCAST_BASE_URL", DefaultBaseURL),
			Model:   getEnvOrDefault("CALLCAST_MODEL", ""),
			Timeout: timeout,
		},
		Dispatch: DispatchConfig{
			LatestOnly: latestOnly,
		},
		LogLevel: internal.ParseLogLevel(os.Getenv("LOG_LEVEL")),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks settings that may also have been overridden by flags
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil {
		return errors.ConfigInvalid("CALLCAST_BASE_URL is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.ConfigInvalid("CALLCAST_BASE_URL must use http or https")
	}
	if u.Host == "" {
		return errors.ConfigInvalid("CALLCAST_BASE_URL must include a host")
	}
	if c.Service.Timeout < 0 {
		return errors.ConfigInvalid("CALLCAST_TIMEOUT cannot be negative")
	}
	if c.Service.Model != "" && !isKnownModel(c.Service.Model) {
		return errors.ConfigInvalid("CALLCAST_MODEL must be one of " + strings.Join(KnownModels, ", "))
	}
	return nil
}

func isKnownModel(model string) bool {
	for _, m := range KnownModels {
		if m == model {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(key + " must be a boolean")
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a duration such as 30s")
	}
	return d, nil
}
