// Package recovery turns handler panics into the service's error envelope.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/drawmyfeelings/journey/internal/devserver/respond"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// Middleware intercepts panics from downstream handlers, logs details, and
// returns HTTP 500 with an INTERNAL_ERROR envelope.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("remote", r.RemoteAddr).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				respond.WriteFailure(w, http.StatusInternalServerError, wire.CodeInternal,
					"An unexpected error occurred", map[string]any{"suggestion": "Please try again later"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
