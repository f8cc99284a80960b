package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-catalog/internal/middleware"
)

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestSlogTransport_SetsRequestIDAndLogs(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	hc := &http.Client{Transport: middleware.NewSlogTransport(nil, logger)}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/trips", nil)
	require.NoError(t, err)
	resp, err := hc.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	_, err = uuid.Parse(seen)
	require.NoError(t, err, "request id should be a UUID, got %q", seen)
	assert.Empty(t, req.Header.Get("X-Request-Id"), "caller's request must not be modified")

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "outbound request", logEntry["msg"])
	assert.Equal(t, "GET", logEntry["method"])
	assert.Equal(t, "/trips", logEntry["path"])
	assert.EqualValues(t, http.StatusOK, logEntry["status"])
	assert.Equal(t, seen, logEntry["request_id"])
}

func TestSlogTransport_KeepsExistingRequestID(t *testing.T) {
	var seen string
	next := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.Header.Get("X-Request-Id")
		return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody, Request: r}, nil
	})
	rt := middleware.NewSlogTransport(next, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest(http.MethodDelete, "http://trips.test/trips/1", nil)
	req.Header.Set("X-Request-Id", "fixed")
	_, err := rt.RoundTrip(req)

	require.NoError(t, err)
	assert.Equal(t, "fixed", seen)
}

func TestSlogTransport_LogsFailure(t *testing.T) {
	boom := errors.New("connection refused")
	next := roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, boom })

	var buf bytes.Buffer
	rt := middleware.NewSlogTransport(next, slog.New(slog.NewJSONHandler(&buf, nil)))

	req := httptest.NewRequest(http.MethodGet, "http://trips.test/trips", nil)
	_, err := rt.RoundTrip(req)

	require.ErrorIs(t, err, boom)
	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "WARN", logEntry["level"])
	assert.Equal(t, "connection refused", logEntry["error"])
}

func TestSlogTransport_NilLoggerUsesDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	next := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})
	rt := middleware.NewSlogTransport(next, nil)

	req := httptest.NewRequest(http.MethodGet, "http://trips.test/trips", nil)
	require.NotPanics(t, func() {
		_, err := rt.RoundTrip(req)
		require.NoError(t, err)
	})

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "outbound request", logEntry["msg"])
}
