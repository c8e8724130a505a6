// Package logging provides structured slog loggers configured from the
// application config.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const loggerContextKey contextKey = "logger"

// New creates a JSON logger writing to stdout at the given level.
// Level can be "debug", "info", "warn", or "error" (case-insensitive);
// invalid values fall back to "info".
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a JSON logger with a custom writer. Useful for
// tests and custom output destinations.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

// NewFromConfig creates a logger based on configuration settings.
// Supports format (json/text), level, and output (stderr, stdout,
// discard, or a file path).
func NewFromConfig(format, level, output string) (*slog.Logger, error) {
	var writer io.Writer
	switch output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	case "discard", "/dev/null":
		writer = io.Discard
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		writer = f
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	return slog.New(handler), nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext attaches a logger to a context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext retrieves a logger from the context, or a default info
// logger when none is attached.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return New("info")
}
