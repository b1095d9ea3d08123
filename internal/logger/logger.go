package logger

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

// Init sets up the process-wide slog default. Debug level is opt-in.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(Logger)
}
