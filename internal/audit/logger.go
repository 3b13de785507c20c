// Package audit records what the phonebook does without changing it.
//
// An Observer owns the audit logger and the operation metrics. It is built
// once by the entry point and handed to Store, which wraps a
// phonebook.Store and reports every call it forwards.
package audit

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures the audit logger.
type Options struct {
	// Level is the minimum level: debug, info, warn or error (default info).
	Level string
	// File is appended to; empty writes to stderr, os.DevNull discards.
	File string
	// Format is text or json (default text).
	Format string
}

func level(option string) (slog.Level, bool) {
	switch strings.ToLower(option) {
	case "", "info":
		return slog.LevelInfo, true
	case "debug":
		return slog.LevelDebug, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the audit logger. The returned Closer releases the log
// file and must be called by the owner. Bad options fall back to defaults
// and the problem is logged through the fallback logger.
func NewLogger(options Options) (*slog.Logger, io.Closer) {
	lvl, ok := level(options.Level)
	if !ok {
		bad := options.Level
		options.Level = ""
		logger, closer := NewLogger(options)
		logger.Warn("could not parse logger level", "level", bad)
		return logger, closer
	}

	var (
		output io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch options.File {
	case "":
	case os.DevNull:
		return slog.New(slog.DiscardHandler), closer
	default:
		f, err := os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			options.File = ""
			logger, closer := NewLogger(options)
			logger.Warn("could not open log file", "err", err)
			return logger, closer
		}
		output, closer = f, f
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(options.Format) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "", "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		closer.Close()
		format := options.Format
		options.Format = "text"
		logger, closer := NewLogger(options)
		logger.Warn("could not parse logger format", "format", format)
		return logger, closer
	}

	return slog.New(handler), closer
}
