package config

import (
	"testing"
	"time"

	"callcast/internal"
	"callcast/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"CALLCAST_BASE_URL", "CALLCAST_MODEL", "CALLCAST_TIMEOUT", "CALLCAST_LATEST_ONLY", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Service.BaseURL)
	assert.Empty(t, cfg.Service.Model)
	assert.Zero(t, cfg.Service.Timeout)
	assert.False(t, cfg.Dispatch.LatestOnly)
	assert.Equal(t, internal.LogLevelInfo, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALLCAST_BASE_URL", "https://forecast.example.com")
	t.Setenv("CALLCAST_MODEL", "HoltWinters")
	t.Setenv("CALLCAST_TIMEOUT", "15s")
	t.Setenv("CALLCAST_LATEST_ONLY", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://forecast.example.com", cfg.Service.BaseURL)
	assert.Equal(t, "HoltWinters", cfg.Service.Model)
	assert.Equal(t, 15*time.Second, cfg.Service.Timeout)
	assert.True(t, cfg.Dispatch.LatestOnly)
	assert.Equal(t, internal.LogLevelDebug, cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"relative url", "CALLCAST_BASE_URL", "/forecast"},
		{"ftp url", "CALLCAST_BASE_URL", "ftp://example.com"},
		{"unknown model", "CALLCAST_MODEL", "Prophet"},
		{"bad timeout", "CALLCAST_TIMEOUT", "soon"},
		{"negative timeout", "CALLCAST_TIMEOUT", "-1s"},
		{"bad bool", "CALLCAST_LATEST_ONLY", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
