package telemetry

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// NewLogger returns the process logger. With an OTLP endpoint configured,
// records go through the otelslog bridge to the global logger provider;
// otherwise they are written as text to w.
func NewLogger(name string, w io.Writer, level slog.Level) *slog.Logger {
	if Enabled() {
		return otelslog.NewLogger(name)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
