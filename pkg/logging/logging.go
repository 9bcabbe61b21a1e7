// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logger := logging.SetupWithLevel(cfg.Level())
//
// The level normally comes from config's LOG_LEVEL.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// SetupWithLevel configures colored logging on stderr at the given level,
// installs it as the slog default and returns it.
func SetupWithLevel(level slog.Level) *slog.Logger {
	logger := New(os.Stderr, level, true)
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger writing to w. Colors are disabled when color is
// false, e.g. for log files or tests.
func New(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    !color,
	}))
}
