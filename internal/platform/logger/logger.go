package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/visiondb/internal/config"
)

type contextKey struct{}

// ParseLevel converts a configured level name into a slog.Level.
// Matching is case-insensitive.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Setup initializes and configures the application's logging system based on
// the provided configuration. It creates a structured JSON logger writing to
// stdout with the configured level and sets it as the default logger.
func Setup(cfg config.LogConfig) (*slog.Logger, error) {
	return SetupWithWriter(cfg, os.Stdout)
}

// SetupWithWriter is Setup with an explicit destination.
// An invalid level falls back to info and is reported as a warning.
func SetupWithWriter(cfg config.LogConfig, out io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)

	if err != nil {
		logger.Warn("invalid log level configured, using default level",
			slog.String("configured_level", cfg.Level),
			slog.String("default_level", "info"))
	}

	slog.SetDefault(logger)

	return logger, nil
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or fallback when
// ctx carries none.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return fallback
}
