// Package logger configures the process-wide slog default. Logs go to stderr
// so saved-file paths and progress printed by the CLI stay clean on stdout.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"xhs-downloader-go/internal/config"
)

func InitFromConfig() {
	opts := &slog.HandlerOptions{Level: parseLevel(config.AppConfig.LogLevel)}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(config.AppConfig.LogFormat)) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		// Text is the default; this is an interactive download tool.
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func Info(msg string, args ...any) {
	slog.Default().Info(msg, args...)
}

func Error(msg string, args ...any) {
	slog.Default().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	slog.Default().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	slog.Default().Debug(msg, args...)
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
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
