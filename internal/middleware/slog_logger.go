// Package middleware provides the HTTP middleware shared by the local trips
// service and the trips client: request logging on both sides of the wire,
// CORS, and request body limits.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewSlogLogger returns a middleware that writes one structured line per
// request to the trips service. Besides method, path, status, size, duration
// and request ID it records the matched route ("/trips/{id}") and, for item
// routes, the trip ID. 5xx responses log at error level and 4xx at warn.
//
// Wire it after chimiddleware.RequestID. RequestID reuses an incoming
// X-Request-Id, so ids minted by the trips client show up here unchanged.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			// chi fills the shared route context while routing, so it is
			// complete once next has returned.
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					attrs = append(attrs, "route", pattern)
				}
				if id := rctx.URLParam("id"); id != "" {
					attrs = append(attrs, "trip_id", id)
				}
			}

			level := slog.LevelInfo
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				level = slog.LevelError
			case ww.Status() >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			log.Log(r.Context(), level, "trips request", attrs...)
		})
	}
}
