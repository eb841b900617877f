package lumina

import (
	"io"
	"log/slog"
	"strings"
)

// logger is the package-wide fallback used when a Config carries no Logger.
var logger = slog.Default()

// NewLogger builds a text slog.Logger writing to w at the named level
// ("debug", "info", "warn", "error"). Unknown names select info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(h)
}

func parseLevel(level string) slog.Level {
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
