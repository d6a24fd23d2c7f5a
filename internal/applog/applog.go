// Package applog provides the structured logging used across the
// session server's lifecycle events: game create/reap, session read and
// upgrade errors, and recovered internal errors. Restarts, subscriber
// attach/detach and admission decisions are not logged.
package applog

import (
	"io"
	"log/slog"
	"os"
)

// New builds a text-handler structured logger writing to w (os.Stdout if
// w is nil).
func New(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
