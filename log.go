//go:build linux

package main

import (
	"fmt"
	"io"
	"log/slog"
)

func initLogger(w io.Writer) error {
	var level slog.Level
	switch FlagVerbose {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %s", FlagVerbose)
	}
	if FlagDebug {
		level = slog.LevelDebug
	}
	// Explicitly use text handler
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}
