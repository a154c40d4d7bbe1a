// Package observability provides structured logging for the application.
package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the application's JSON logger. Services receive it at
// construction; the CLI installs it as the slog default.
func NewLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
