// Package repo holds the storage behind the local trips service.
// Trips are kept in memory in insertion order, the way a json-server
// db.json behaves; nothing survives a restart.
package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-catalog/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, which lets it be unit-tested
// with a mock.
type TripRepo interface {
	// Create stores a new trip and returns it with a freshly assigned ID.
	// Meetings without an ID get one as well. Any ID on the input is ignored.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id domain.ID) (domain.Trip, error)

	// List returns all trips in insertion order.
	List(ctx context.Context) ([]domain.Trip, error)

	// Update replaces the stored trip with the same ID and returns the stored
	// record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id domain.ID) error
}

// memTripRepo is the in-memory implementation of TripRepo.
type memTripRepo struct {
	mu    sync.RWMutex
	order []domain.ID
	byID  map[domain.ID]domain.Trip
	newID func() domain.ID
}

// NewTripRepo constructs an in-memory TripRepo preloaded with seed.
// Seed trips keep their IDs when they have one.
func NewTripRepo(seed ...domain.Trip) TripRepo {
	r := &memTripRepo{
		byID:  make(map[domain.ID]domain.Trip, len(seed)),
		newID: func() domain.ID { return domain.ID(uuid.NewString()) },
	}
	for _, t := range seed {
		if t.ID == "" {
			t.ID = r.newID()
		}
		t = r.withMeetingIDs(t.Clone())
		if _, dup := r.byID[t.ID]; !dup {
			r.order = append(r.order, t.ID)
		}
		r.byID[t.ID] = t
	}
	return r
}

// Create assigns an ID and stores the trip.
func (r *memTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = trip.Clone()
	trip.ID = r.newID()
	trip = r.withMeetingIDs(trip)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, trip.ID)
	r.byID[trip.ID] = trip
	return trip.Clone(), nil
}

// GetByID retrieves a trip by ID.
func (r *memTripRepo) GetByID(_ context.Context, id domain.ID) (domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return t.Clone(), nil
}

// List returns all trips in insertion order.
func (r *memTripRepo) List(_ context.Context) ([]domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trips := make([]domain.Trip, 0, len(r.order))
	for _, id := range r.order {
		trips = append(trips, r.byID[id].Clone())
	}
	return trips, nil
}

// Update overwrites every field of an existing trip.
func (r *memTripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = r.withMeetingIDs(trip.Clone())

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[trip.ID]; !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
	}
	r.byID[trip.ID] = trip
	return trip.Clone(), nil
}

// Delete removes a trip by ID.
func (r *memTripRepo) Delete(_ context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(x domain.ID) bool { return x == id })
	return nil
}

// withMeetingIDs fills in missing meeting IDs. t must not share its
// Meetings slice with the caller.
func (r *memTripRepo) withMeetingIDs(t domain.Trip) domain.Trip {
	for i := range t.Meetings {
		if t.Meetings[i].ID == "" {
			t.Meetings[i].ID = r.newID()
		}
	}
	return t
}
