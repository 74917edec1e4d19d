package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON slog logger on stderr at the given level.
// Unknown levels fall back to info.
func New(level string) *slog.Logger {
	return NewWithFormat(level, "json", os.Stderr)
}

// NewWithFormat creates a logger writing to w in "json" or "text" format
func NewWithFormat(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level
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
