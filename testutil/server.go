// Package testutil provides shared helpers for tests that need a live trips
// service. The service runs in-process on an httptest listener with the same
// handler, service and storage stack cmd/tripsapi uses, so client and
// controller tests exercise the real wire format.
package testutil

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/trip-catalog/internal/domain"
	"github.com/pkordes/trip-catalog/internal/handler"
	"github.com/pkordes/trip-catalog/internal/middleware"
	"github.com/pkordes/trip-catalog/internal/repo"
	"github.com/pkordes/trip-catalog/internal/service"
)

// maxBodyBytes matches the default of the standalone service.
const maxBodyBytes = 1 << 20

// NewTripsServer starts an in-memory trips service seeded with trips and
// returns it. The server is closed automatically when the test finishes.
func NewTripsServer(t *testing.T, trips ...domain.Trip) *httptest.Server {
	t.Helper()

	svc := service.NewTripService(repo.NewTripRepo(trips...))
	r := handler.NewServer(svc).Routes()

	h := chimiddleware.RequestID(
		middleware.NewSlogLogger(slog.New(slog.DiscardHandler))(
			middleware.NewMaxBodySizeHandler(maxBodyBytes)(r),
		),
	)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}
