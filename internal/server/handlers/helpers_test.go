package handlers

import (
	"io"
	"log/slog"
)

// setupTestLogger creates a logger that discards output
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
