// Package service contains the rules the local trips service enforces before
// anything reaches storage: titles are trimmed and required, timestamps must
// be well formed, and a trip must start before it ends.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/trip-catalog/internal/domain"
	"github.com/pkordes/trip-catalog/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalize(trip)
	if err := trip.Validate(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips. The result is never nil.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Update validates and replaces an existing trip.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.ID == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: id is required", domain.ErrValidation)
	}
	trip = normalize(trip)
	if err := trip.Validate(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

func normalize(t domain.Trip) domain.Trip {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	return t
}
