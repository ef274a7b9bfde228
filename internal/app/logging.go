package app

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w at the level held by
// level. Changing level later changes the logger's threshold.
func NewLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
