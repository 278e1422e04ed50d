// Package logger builds the application's structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New initializes a slog logger with the given level and format ("text" or
// "json"). A nil output defaults to stderr so that reports printed to stdout
// stay clean.
func New(level slog.Level, format string, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
