package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON stdout logger at the level named by LOG_LEVEL.
func Setup() slog.Level {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(slog.New(NewStdoutHandler(level)))
	return level
}

func NewStdoutHandler(level slog.Level) slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
