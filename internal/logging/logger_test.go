package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	logger.WithComponent("resolver").
		With("script", "script[0]").
		Warn(context.Background(), errors.New("boom"), "resolution failed", "attempt", 1)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "resolution failed", record["msg"])
	assert.Equal(t, "resolver", record["component"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "script[0]", record["script"])
	assert.Equal(t, float64(1), record["attempt"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Format: "text", Output: &buf})

	logger.Debug(context.Background(), "debug message")
	logger.Info(context.Background(), "info message")
	assert.Empty(t, buf.String())

	logger.Error(context.Background(), nil, "error message")
	assert.True(t, strings.Contains(buf.String(), "error message"))
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), errors.New("x"), "discarded")
		logger.With("a", 1).WithComponent("c").Info(context.Background(), "discarded")
	})
}

func TestSanitizeField(t *testing.T) {
	assert.Equal(t, "[REDACTED]", SanitizeField("api_key", "abc123"))
	assert.Nil(t, SanitizeField("api_key", nil))
	assert.Equal(t, "example.com", SanitizeField("base-hostname", "example.com"))
	assert.Equal(t, 10, SanitizeField("limit", 10))

	long := strings.Repeat("a", 1200)
	assert.True(t, strings.HasSuffix(SanitizeField("note", long).(string), "[TRUNCATED]"))
}

func TestSanitizeMap(t *testing.T) {
	in := map[string]interface{}{"api_key": "secret", "limit": 5}
	out := SanitizeMap(in)

	assert.Equal(t, "[REDACTED]", out["api_key"])
	assert.Equal(t, 5, out["limit"])
	assert.Equal(t, "secret", in["api_key"], "input must not be mutated")
}
