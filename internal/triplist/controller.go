// Package triplist keeps a local view of the trip catalog in step with the
// remote trips service.
//
// A Controller owns three pieces of state: the master collection (every trip
// the service returned), the filtered view derived from it by a month
// selector, and a single draft bound to the edit form. The collection is
// filled by one full fetch and afterwards patched locally from the responses
// to create, update and delete; there is no background refresh.
//
// Network calls are made without holding the controller's lock, so readers
// stay responsive while a request is in flight. Overlapping requests are
// neither cancelled nor de-duplicated: whichever response is applied last
// wins.
package triplist

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pkordes/trip-catalog/internal/domain"
)

// AllMonths is the month selector that disables filtering.
const AllMonths time.Month = 0

// TripAPI is the remote trips service as the controller sees it.
// *client.Client satisfies it.
type TripAPI interface {
	List(ctx context.Context) ([]domain.Trip, error)
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id domain.ID) error
}

// Controller synchronizes the local trip list with a TripAPI.
// It is safe for concurrent use.
type Controller struct {
	api TripAPI
	log *slog.Logger

	mu    sync.Mutex
	trips []domain.Trip // master collection
	view  []domain.Trip // trips filtered by month
	month time.Month
	draft Draft
}

// New returns a Controller with an empty collection, no month filter and an
// empty draft. A nil logger falls back to slog.Default().
func New(api TripAPI, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		api:   api,
		log:   log.With("component", "triplist"),
		trips: []domain.Trip{},
		view:  []domain.Trip{},
	}
}

// Load fetches the full collection and replaces the local one with it. The
// current month filter is re-applied to the new collection. On failure the
// error is logged and returned, and local state is left untouched.
func (c *Controller) Load(ctx context.Context) error {
	trips, err := c.api.List(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "load trips", "error", err)
		return fmt.Errorf("triplist.Controller.Load: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.trips = cloneTrips(trips)
	c.refreshView()
	c.log.DebugContext(ctx, "trips loaded", "count", len(c.trips))
	return nil
}

// SetMonthFilter recomputes the view as the trips whose start month equals
// month, or every trip for AllMonths. It never touches the network. A month
// outside 1-12 is rejected and the current filter is kept.
func (c *Controller) SetMonthFilter(month time.Month) error {
	if month != AllMonths && (month < time.January || month > time.December) {
		return fmt.Errorf("triplist.Controller.SetMonthFilter: %w: month %d out of range 1-12", domain.ErrValidation, month)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.month = month
	c.refreshView()
	return nil
}

// SelectForEdit copies the trip with the given ID into the draft. When no
// such trip exists nothing changes and false is returned.
func (c *Controller) SelectForEdit(id domain.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.draft = DraftFromTrip(c.trips[i])
	return true
}

// SubmitForm sends the draft to the service: a create when the draft has no
// ID, an update otherwise. On success the returned record is spliced into the
// collection (appended on create, replaced by ID on update), the view is
// recomputed, the draft is cleared unless it was replaced while the request
// was in flight, and the record is returned. On failure
// the error is logged and returned and local state is left untouched.
func (c *Controller) SubmitForm(ctx context.Context) (domain.Trip, error) {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	trip, err := draft.Trip()
	if err != nil {
		c.log.WarnContext(ctx, "submit trip: invalid draft", "id", draft.ID, "error", err)
		return domain.Trip{}, fmt.Errorf("triplist.Controller.SubmitForm: %w", err)
	}

	var saved domain.Trip
	if draft.IsNew() {
		saved, err = c.api.Create(ctx, trip)
	} else {
		saved, err = c.api.Update(ctx, trip)
	}
	if err != nil {
		c.log.ErrorContext(ctx, "submit trip", "id", draft.ID, "create", draft.IsNew(), "error", err)
		return domain.Trip{}, fmt.Errorf("triplist.Controller.SubmitForm: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.upsert(saved)
	c.refreshView()
	if c.draft.equal(draft) {
		c.draft = Draft{}
	}
	c.log.InfoContext(ctx, "trip saved", "id", saved.ID, "create", draft.IsNew())
	return saved.Clone(), nil
}

// DeleteTrip asks the service to delete the trip and, on success, removes it
// from the collection and the view. On failure the error is logged and
// returned and local state is left untouched.
func (c *Controller) DeleteTrip(ctx context.Context, id domain.ID) error {
	if err := c.api.Delete(ctx, id); err != nil {
		c.log.ErrorContext(ctx, "delete trip", "id", id, "error", err)
		return fmt.Errorf("triplist.Controller.DeleteTrip: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.trips = slices.DeleteFunc(c.trips, func(t domain.Trip) bool { return t.ID == id })
	c.refreshView()
	if c.draft.ID == id {
		c.draft = Draft{}
	}
	c.log.InfoContext(ctx, "trip deleted", "id", id)
	return nil
}

// --- accessors ------------------------------------------------------------------

// Trips returns a copy of the master collection.
func (c *Controller) Trips() []domain.Trip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTrips(c.trips)
}

// View returns a copy of the filtered view.
func (c *Controller) View() []domain.Trip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTrips(c.view)
}

// MonthFilter returns the active month selector; AllMonths when unset.
func (c *Controller) MonthFilter() time.Month {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.month
}

// Lookup returns the trip with the given ID from the master collection.
func (c *Controller) Lookup(id domain.ID) (domain.Trip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return domain.Trip{}, false
	}
	return c.trips[i].Clone(), true
}

// Draft returns the current draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.draft
	d.Meetings = slices.Clone(d.Meetings)
	return d
}

// SetDraft replaces the draft, e.g. with what the user typed into the form.
func (c *Controller) SetDraft(d Draft) {
	d.Meetings = slices.Clone(d.Meetings)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// NewDraft discards the current draft and starts an empty one.
func (c *Controller) NewDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = Draft{}
}

// --- internals (callers hold c.mu) ----------------------------------------------

func (c *Controller) refreshView() {
	c.view = FilterByMonth(c.trips, c.month)
}

func (c *Controller) indexOf(id domain.ID) int {
	return slices.IndexFunc(c.trips, func(t domain.Trip) bool { return t.ID == id })
}

// upsert replaces the trip with t's ID or appends t. A create whose ID is
// already present (a racing load saw it first) therefore never duplicates,
// and an update of a trip deleted meanwhile puts the canonical record back.
func (c *Controller) upsert(t domain.Trip) {
	t = t.Clone()
	if i := c.indexOf(t.ID); i >= 0 {
		c.trips[i] = t
		return
	}
	c.trips = append(c.trips, t)
}

// FilterByMonth returns the trips whose start month equals month, in their
// original order, or all of them for AllMonths. The result is never nil and
// shares no backing array with trips.
func FilterByMonth(trips []domain.Trip, month time.Month) []domain.Trip {
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if month == AllMonths || t.Start.Month == month {
			out = append(out, t)
		}
	}
	return out
}

func cloneTrips(trips []domain.Trip) []domain.Trip {
	out := make([]domain.Trip, len(trips))
	for i, t := range trips {
		out[i] = t.Clone()
	}
	return out
}
