package telemetry

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	t.Setenv(endpointEnv, "")
	assert.False(t, Enabled())

	t.Setenv(endpointEnv, "http://127.0.0.1:4317")
	assert.True(t, Enabled())
}

func TestNewLoggerWritesTextWithoutEndpoint(t *testing.T) {
	t.Setenv(endpointEnv, "")

	var buf bytes.Buffer
	logger := NewLogger("rawhttp-test", &buf, slog.LevelInfo)
	require.NotNil(t, logger)

	logger.Info("request received", "method", "GET", "path", "/")
	logger.Debug("dropped below level")

	out := buf.String()
	assert.Contains(t, out, "msg=\"request received\"")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/")
	assert.NotContains(t, out, "dropped below level")
}

func TestNewLoggerUsesBridgeWithEndpoint(t *testing.T) {
	t.Setenv(endpointEnv, "http://127.0.0.1:4317")

	var buf bytes.Buffer
	logger := NewLogger("rawhttp-test", &buf, slog.LevelInfo)
	require.NotNil(t, logger)

	logger.Info("goes to the logger provider")
	assert.Empty(t, buf.String())
}
