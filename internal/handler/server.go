// Package handler implements the HTTP surface of the local trips service: the
// same REST contract the catalog client talks to (GET/POST /trips,
// GET/PUT/DELETE /trips/{id}), plus /healthz and /openapi.yaml.
//
// All handlers are methods on Server. Methods are split into files by
// resource (health.go, trip.go) but share the same struct.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-catalog/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the service or storage layers.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id domain.ID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id domain.ID) error
}

// Server serves every endpoint of the trips service.
type Server struct {
	trips TripServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer) *Server {
	return &Server{trips: trips}
}

// Routes returns a chi router with every endpoint registered. Callers add
// their own middleware on top (see cmd/tripsapi).
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Get("/{id}", s.GetTrip)
		r.Put("/{id}", s.UpdateTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})
	return r
}
