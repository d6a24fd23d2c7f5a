// Package cors wires the configured origin allow-list into an HTTP
// middleware, honoring preflight requests for POST /create.
package cors

import (
	"net/http"

	rscors "github.com/rs/cors"
)

// Wrap returns next wrapped in a CORS middleware that allows only the
// given origins and honors preflight (OPTIONS) requests.
func Wrap(next http.Handler, allowedOrigins []string) http.Handler {
	c := rscors.New(rscors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(next)
}
