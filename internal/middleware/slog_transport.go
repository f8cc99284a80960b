package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// NewSlogTransport wraps next (http.DefaultTransport when nil) in a
// RoundTripper that stamps every outbound request with an X-Request-Id and
// logs one structured line per exchange: method, path, status, duration and
// request ID. Failed round trips are logged at warn level with the error.
//
// A request that already carries X-Request-Id keeps it. A nil log falls
// back to slog.Default().
func NewSlogTransport(next http.RoundTripper, log *slog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if log == nil {
		log = slog.Default()
	}
	return &slogTransport{next: next, log: log}
}

type slogTransport struct {
	next http.RoundTripper
	log  *slog.Logger
}

func (t *slogTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	reqID := r.Header.Get(chimiddleware.RequestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
		// RoundTrippers must not modify the caller's request.
		r = r.Clone(r.Context())
		r.Header.Set(chimiddleware.RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		t.log.WarnContext(r.Context(), "outbound request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", elapsed,
			"request_id", reqID,
			"error", err,
		)
		return nil, err
	}

	t.log.InfoContext(r.Context(), "outbound request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", elapsed,
		"request_id", reqID,
	)
	return resp, nil
}
