package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger builds the service logger on stdout and makes it the slog
// default. Format "text" gives colored human-readable output; anything else
// is JSON.
func NewLogger(level, format string) *slog.Logger {
	logger := NewLoggerTo(os.Stdout, level, format)
	slog.SetDefault(logger)
	return logger
}

// NewLoggerTo is NewLogger writing to w.
func NewLoggerTo(w io.Writer, level, format string) *slog.Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.DateTime,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(handler)
}

// parseLevel accepts the same names as the shared service logger ("debug",
// "info", "warn"/"warning", "error", any case) by way of slog's own level
// parser. Unknown values log at info.
func parseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
