// Package logging configures the structured logger shared by the truthmines
// commands and services.
//
// Loggers are plain *slog.Logger values and are passed explicitly to the
// components that need them. Output goes to stderr so that stdout stays
// free for command results.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is the minimum severity that reaches the log
type Level int

const (
	// LevelDebug logs everything, including per-file loader progress
	LevelDebug Level = iota

	// LevelInfo logs command milestones
	LevelInfo

	// LevelWarn logs skipped inputs and degraded modes
	LevelWarn

	// LevelError logs failures only
	LevelError
)

// String returns the upper-case level name
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a level name such as "debug" or "WARN".
// An empty string yields LevelWarn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "", "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
}

// Config controls logger construction
type Config struct {
	// Level is the minimum level written
	Level Level

	// JSON switches from text to JSON lines
	JSON bool

	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer

	// Service is attached to every record when non-empty
	Service string
}

// New builds a logger from cfg
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level.toSlogLevel(),
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	if cfg.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String("service", cfg.Service),
		})
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
