package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// corsMaxAge lets a browser cache a preflight, so a catalog page editing
// trips does not send OPTIONS before every PUT and DELETE.
const corsMaxAge = 600

// NewCORSHandler opens the trips REST surface (GET/POST /trips,
// PUT/DELETE /trips/{id}) to the browser origins in allowedOrigins. Each
// entry is a full origin: scheme and host, no trailing slash. X-Request-Id
// may be sent and is exposed so a page can correlate its calls with the
// service log.
//
// An empty list allows no cross-origin access at all; rs/cors would
// otherwise read it as "*".
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", chimiddleware.RequestIDHeader},
		ExposedHeaders: []string{chimiddleware.RequestIDHeader},
		MaxAge:         corsMaxAge,
	})
	return c.Handler
}
