package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/internal/config"
)

func TestInitializeLoggerFileOutput(t *testing.T) {
	t.Cleanup(ResetLoggerForTesting)
	ResetLoggerForTesting()

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "debug",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("startup complete", "component", "test")
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "startup complete")
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"INFO", "INFO"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input).String())
		})
	}
}

func TestTraceIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = WithTraceID(ctx, "abc-123")
	assert.Equal(t, "abc-123", GetTraceID(ctx))

	// EnsureTraceID keeps an existing ID
	assert.Equal(t, "abc-123", GetTraceID(EnsureTraceID(ctx)))

	// and generates one when missing
	generated := GetTraceID(EnsureTraceID(context.Background()))
	assert.NotEmpty(t, generated)
}

func TestGenerateTraceIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateTraceID()
		assert.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}
