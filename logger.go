package main

import (
	"io"
	"log/slog"
)

// newLogger builds the diagnostic logger. It is passed down explicitly
// rather than installed as the slog default.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
