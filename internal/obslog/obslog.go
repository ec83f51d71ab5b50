// Package obslog configures the planner's structured logger.
package obslog

import (
	"log/slog"
	"os"
	"strings"
)

// New configures a global slog logger for component, JSON-encoded if
// PLANNER_JSON_LOG is 1/true/json, text otherwise. The level is read from
// PLANNER_LOG_LEVEL.
func New(component string) *slog.Logger {
	mode := strings.ToLower(os.Getenv("PLANNER_JSON_LOG"))
	var handler slog.Handler
	if mode == "1" || mode == "true" || mode == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelFromEnv()})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: levelFromEnv()})
	}
	logger := slog.New(handler).With("component", component)
	slog.SetDefault(logger)
	logger.Info("logging initialized", "json", mode == "1" || mode == "true" || mode == "json")
	return logger
}

func levelFromEnv() slog.Leveler {
	switch strings.ToLower(os.Getenv("PLANNER_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}
