// Package logging configures the process-wide slog logger.
//
// Adapted from the teacher's pkg/logger package: a level-parsing helper plus
// a thin handler wrapper, swapped here for the two-mode "simple"/"verbose"
// format the CLI exposes on --log-format.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a string log level to slog.Level. Unknown strings
// default to info, matching the teacher's permissive parser.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
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

// Init installs a process-wide slog.Logger writing to w (stderr if nil) at
// the given level. format "verbose" adds source location; anything else
// uses the compact text handler.
func Init(level slog.Level, format string, logFile *os.File) *slog.Logger {
	w := os.Stderr
	if logFile != nil {
		w = logFile
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(format, "verbose") {
		opts.AddSource = true
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithQuestion returns a logger scoped to a single question_id, used for the
// one-line-per-question result logging spec.md §7 requires.
func WithQuestion(ctx context.Context, questionID string) *slog.Logger {
	return slog.Default().With("question_id", questionID)
}
