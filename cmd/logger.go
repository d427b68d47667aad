package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ColonelBlimp/lasertag/internal/config"
)

// parseLogLevel converts a config string to a slog level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
}

// setupLogger creates a text logger writing to w and installs it as the
// default. debug: true wins over log_level.
func setupLogger(settings *config.Settings, w io.Writer) (*slog.Logger, error) {
	level, err := parseLogLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	if settings.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
