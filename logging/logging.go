// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("info")   // explicit level
//	logging.Setup("")       // level from LOG_LEVEL, default info
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures the default slog logger and returns it.
func Setup(level string) *slog.Logger {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	return SetupWithWriter(os.Stderr, ParseLevel(level))
}

// SetupWithWriter configures colored logging to w at the given level.
func SetupWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  level == slog.LevelDebug,
		}),
	)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug/info/warn/error (case-insensitive) to a slog level.
// Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
