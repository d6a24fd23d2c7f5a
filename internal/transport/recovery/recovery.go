// Package recovery implements the HTTP boundary's panic-recovery
// middleware: a handler invariant violation must end that one request,
// never the process.
package recovery

import (
	"log/slog"
	"net/http"
)

// Wrap returns next guarded by a recover() that turns a panic into a
// logged 500 instead of an unhandled crash. For a hijacked connection (the
// WebSocket upgrade), the response can no longer be written once the panic
// happens past the upgrade, so the recovered handler only logs in that
// case; the connection is left for the client to observe as closed.
func Wrap(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if logger != nil {
					logger.Error("recovered panic", "panic", rec, "path", r.URL.Path)
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
