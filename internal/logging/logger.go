// =============================================================================
// Ledger Extractor - Logging
// =============================================================================
//
// Structured logging with log/slog. Every command builds one logger from the
// configuration and passes it down; nothing logs through a package global.
//
// =============================================================================

package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Options configures the logger.
type Options struct {
	// Level is "debug", "info", "warn" or "error".
	Level string

	// Format is "text" or "json".
	Format string

	// Verbose forces the debug level.
	Verbose bool
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
