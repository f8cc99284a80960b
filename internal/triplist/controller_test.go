package triplist_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-catalog/internal/domain"
	"github.com/pkordes/trip-catalog/internal/triplist"
)

// mockTripAPI is a hand-written test double for triplist.TripAPI.
// Each method is a function field; set only the ones your test needs.
type mockTripAPI struct {
	list   func(ctx context.Context) ([]domain.Trip, error)
	create func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	update func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete func(ctx context.Context, id domain.ID) error
}

func (m *mockTripAPI) List(ctx context.Context) ([]domain.Trip, error) { return m.list(ctx) }
func (m *mockTripAPI) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripAPI) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripAPI) Delete(ctx context.Context, id domain.ID) error { return m.delete(ctx, id) }

// compile-time check: mockTripAPI must satisfy triplist.TripAPI.
var _ triplist.TripAPI = (*mockTripAPI)(nil)

// ---- helpers ---------------------------------------------------------------

func trip(id domain.ID, month time.Month) domain.Trip {
	return domain.Trip{
		ID:          id,
		Title:       "Trip " + string(id),
		Description: "desc " + string(id),
		Start:       domain.Timestamp{Year: 2025, Month: month, Day: 2, Hour: 8},
		End:         domain.Timestamp{Year: 2025, Month: month, Day: 5, Hour: 18},
	}
}

func listing(trips ...domain.Trip) *mockTripAPI {
	return &mockTripAPI{
		list: func(context.Context) ([]domain.Trip, error) { return trips, nil },
	}
}

func newController(t *testing.T, api triplist.TripAPI) *triplist.Controller {
	t.Helper()
	return triplist.New(api, slog.New(slog.DiscardHandler))
}

func loaded(t *testing.T, api *mockTripAPI) *triplist.Controller {
	t.Helper()
	c := newController(t, api)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func ids(trips []domain.Trip) []domain.ID {
	out := make([]domain.ID, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.ID)
	}
	return out
}

// ---- New / Load ------------------------------------------------------------

func TestNew_StartsEmpty(t *testing.T) {
	c := newController(t, &mockTripAPI{})

	assert.Empty(t, c.Trips())
	assert.Empty(t, c.View())
	assert.Equal(t, triplist.AllMonths, c.MonthFilter())
	assert.True(t, c.Draft().IsEmpty())
}

func TestLoad_ReplacesCollectionAndView(t *testing.T) {
	want := []domain.Trip{trip("1", time.February), trip("2", time.June)}
	c := loaded(t, listing(want...))

	if diff := cmp.Diff(want, c.Trips()); diff != "" {
		t.Errorf("Trips() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, c.View()); diff != "" {
		t.Errorf("View() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_KeepsMonthFilter(t *testing.T) {
	first := true
	api := &mockTripAPI{
		list: func(context.Context) ([]domain.Trip, error) {
			if first {
				first = false
				return []domain.Trip{trip("1", time.June)}, nil
			}
			return []domain.Trip{trip("1", time.June), trip("2", time.July), trip("3", time.June)}, nil
		},
	}
	c := loaded(t, api)
	require.NoError(t, c.SetMonthFilter(time.June))

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, []domain.ID{"1", "3"}, ids(c.View()))
	assert.Len(t, c.Trips(), 3)
}

func TestLoad_FailureLeavesStateUntouched(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	api := &mockTripAPI{
		list: func(context.Context) ([]domain.Trip, error) {
			calls++
			if calls > 1 {
				return nil, boom
			}
			return []domain.Trip{trip("1", time.March)}, nil
		},
	}
	c := loaded(t, api)

	err := c.Load(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []domain.ID{"1"}, ids(c.Trips()))
	assert.Equal(t, []domain.ID{"1"}, ids(c.View()))
}

func TestLoad_CallerCannotMutateState(t *testing.T) {
	src := []domain.Trip{trip("1", time.March)}
	c := loaded(t, listing(src...))

	src[0].Title = "mutated by caller"
	got := c.Trips()
	got[0].Title = "mutated by reader"

	assert.Equal(t, "Trip 1", c.Trips()[0].Title)
}

// ---- SetMonthFilter --------------------------------------------------------

func TestSetMonthFilter_Example(t *testing.T) {
	c := loaded(t, listing(trip("feb", time.February), trip("jun", time.June), trip("dec", time.December)))

	require.NoError(t, c.SetMonthFilter(time.June))

	assert.Equal(t, []domain.ID{"jun"}, ids(c.View()))
}

// TestSetMonthFilter_EveryMonth checks, for every selector, that the view is
// exactly the subset of the collection whose start month matches.
func TestSetMonthFilter_EveryMonth(t *testing.T) {
	var all []domain.Trip
	for i, m := range []time.Month{1, 3, 3, 5, 6, 6, 6, 9, 12, 12} {
		all = append(all, trip(domain.ID(fmt.Sprint(i)), m))
	}
	c := loaded(t, listing(all...))

	for m := triplist.AllMonths; m <= time.December; m++ {
		require.NoError(t, c.SetMonthFilter(m))

		var want []domain.ID
		for _, tr := range all {
			if m == triplist.AllMonths || tr.Start.Month == m {
				want = append(want, tr.ID)
			}
		}
		got := ids(c.View())
		if want == nil {
			want = []domain.ID{}
		}
		assert.Equal(t, want, got, "month %d", m)
		assert.Len(t, c.Trips(), len(all), "filtering never mutates the collection")
		assert.Equal(t, m, c.MonthFilter())
	}
}

func TestSetMonthFilter_NoMatchesIsEmptyNotError(t *testing.T) {
	c := loaded(t, listing(trip("1", time.January)))

	err := c.SetMonthFilter(time.August)

	require.NoError(t, err)
	assert.NotNil(t, c.View())
	assert.Empty(t, c.View())
}

func TestSetMonthFilter_OutOfRange(t *testing.T) {
	c := loaded(t, listing(trip("1", time.January), trip("2", time.May)))
	require.NoError(t, c.SetMonthFilter(time.May))

	err := c.SetMonthFilter(13)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, time.May, c.MonthFilter())
	assert.Equal(t, []domain.ID{"2"}, ids(c.View()))
}

func TestSetMonthFilter_NoNetwork(t *testing.T) {
	// Every API method is nil: any network call would panic.
	c := newController(t, &mockTripAPI{})

	assert.NoError(t, c.SetMonthFilter(time.April))
}

// ---- SelectForEdit ---------------------------------------------------------

func TestSelectForEdit_CopiesTrip(t *testing.T) {
	tr := trip("7", time.October)
	tr.Meetings = []domain.Meeting{{ID: "m", Title: "Kickoff"}}
	c := loaded(t, listing(tr))

	ok := c.SelectForEdit("7")

	require.True(t, ok)
	d := c.Draft()
	assert.Equal(t, domain.ID("7"), d.ID)
	assert.Equal(t, "Trip 7", d.Title)
	assert.Equal(t, "2025,10,2,8,0", d.Start)
	assert.Equal(t, "2025,10,5,18,0", d.End)
	assert.Equal(t, tr.Meetings, d.Meetings)
	assert.False(t, d.IsNew())
}

func TestSelectForEdit_UnknownIDIsNoOp(t *testing.T) {
	c := loaded(t, listing(trip("7", time.October)))
	c.SetDraft(triplist.Draft{Title: "typing"})

	ok := c.SelectForEdit("missing")

	assert.False(t, ok)
	assert.Equal(t, "typing", c.Draft().Title)
}

// ---- SubmitForm: create ------------------------------------------------------

func TestSubmitForm_CreateAppendsOnce(t *testing.T) {
	var sent domain.Trip
	api := listing(trip("1", time.March))
	api.create = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		sent = tr
		tr.ID = "99"
		return tr, nil
	}
	c := loaded(t, api)
	c.SetDraft(triplist.Draft{Title: " Lakes ", Description: "Boat", Start: "2025-03-10 10:00", End: "2025,3,12"})

	saved, err := c.SubmitForm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ID(""), sent.ID, "a create sends no id")
	assert.Equal(t, "Lakes", sent.Title)
	assert.Equal(t, domain.ID("99"), saved.ID)
	assert.Equal(t, []domain.ID{"1", "99"}, ids(c.Trips()))
	assert.True(t, c.Draft().IsEmpty(), "draft is cleared on success")
}

func TestSubmitForm_KeepsDraftReplacedWhileSaving(t *testing.T) {
	release := make(chan struct{})
	inFlight := make(chan struct{})
	api := listing()
	api.create = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		close(inFlight)
		<-release
		tr.ID = "7"
		return tr, nil
	}
	c := loaded(t, api)
	c.SetDraft(triplist.Draft{Title: "Lakes", Start: "2025,3,10", End: "2025,3,12"})

	done := make(chan error, 1)
	go func() {
		_, err := c.SubmitForm(context.Background())
		done <- err
	}()
	<-inFlight
	c.SetDraft(triplist.Draft{Title: "typed while saving"})
	close(release)

	require.NoError(t, <-done)
	assert.Equal(t, []domain.ID{"7"}, ids(c.Trips()))
	assert.Equal(t, "typed while saving", c.Draft().Title)
}

func TestSubmitForm_CreateVisibleThroughFilter(t *testing.T) {
	api := listing(trip("1", time.March))
	api.create = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		tr.ID = "2"
		return tr, nil
	}
	c := loaded(t, api)
	require.NoError(t, c.SetMonthFilter(time.March))
	c.SetDraft(triplist.Draft{Title: "x", Start: "2025,3,1", End: "2025,3,2"})

	_, err := c.SubmitForm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.ID{"1", "2"}, ids(c.View()))
}

func TestSubmitForm_CreateWithKnownIDDoesNotDuplicate(t *testing.T) {
	api := listing(trip("1", time.March))
	api.create = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		tr.ID = "1"
		return tr, nil
	}
	c := loaded(t, api)
	c.SetDraft(triplist.Draft{Title: "dup", Start: "2025,3,1", End: "2025,3,2"})

	_, err := c.SubmitForm(context.Background())

	require.NoError(t, err)
	require.Len(t, c.Trips(), 1)
	assert.Equal(t, "dup", c.Trips()[0].Title)
}

func TestSubmitForm_InvalidDraftSendsNothing(t *testing.T) {
	c := loaded(t, listing(trip("1", time.March))) // create/update nil: a call would panic
	draft := triplist.Draft{Title: "", Start: "2025,3,5", End: "2025,3,1"}
	c.SetDraft(draft)

	_, err := c.SubmitForm(context.Background())

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, draft, c.Draft(), "draft survives a failed submit")
	assert.Len(t, c.Trips(), 1)
}

func TestSubmitForm_RemoteFailureLeavesStateUntouched(t *testing.T) {
	boom := errors.New("503")
	api := listing(trip("1", time.March))
	api.create = func(context.Context, domain.Trip) (domain.Trip, error) { return domain.Trip{}, boom }
	c := loaded(t, api)
	draft := triplist.Draft{Title: "x", Start: "2025,3,1", End: "2025,3,2"}
	c.SetDraft(draft)

	_, err := c.SubmitForm(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []domain.ID{"1"}, ids(c.Trips()))
	assert.Equal(t, draft, c.Draft())
}

// ---- SubmitForm: update ------------------------------------------------------

func TestSubmitForm_UpdateReplacesByID(t *testing.T) {
	var sent domain.Trip
	orig := trip("2", time.June)
	orig.Meetings = []domain.Meeting{{ID: "m1", Title: "Briefing"}}
	api := listing(trip("1", time.March), orig, trip("3", time.June))
	api.update = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		sent = tr
		return tr, nil
	}
	c := loaded(t, api)
	require.True(t, c.SelectForEdit("2"))
	d := c.Draft()
	d.Title = "Renamed"
	d.Start = "2025,7,1"
	d.End = "2025,7,9"
	c.SetDraft(d)

	_, err := c.SubmitForm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ID("2"), sent.ID)
	assert.Equal(t, orig.Meetings, sent.Meetings, "meetings ride along with an update")
	assert.Equal(t, []domain.ID{"1", "2", "3"}, ids(c.Trips()), "position is kept")
	got, ok := c.Lookup("2")
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, time.July, got.Start.Month)
	assert.True(t, c.Draft().IsEmpty())
}

func TestSubmitForm_UpdateMovesTripAcrossFilter(t *testing.T) {
	api := listing(trip("1", time.June), trip("2", time.June))
	api.update = func(_ context.Context, tr domain.Trip) (domain.Trip, error) { return tr, nil }
	c := loaded(t, api)
	require.NoError(t, c.SetMonthFilter(time.June))
	require.True(t, c.SelectForEdit("1"))
	d := c.Draft()
	d.Start, d.End = "2025,8,1", "2025,8,2"
	c.SetDraft(d)

	_, err := c.SubmitForm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.ID{"2"}, ids(c.View()))
}

// TestSubmitForm_UpdateIdempotent submits the same values twice and expects
// the ID set unchanged and the record equal to the last submission.
func TestSubmitForm_UpdateIdempotent(t *testing.T) {
	api := listing(trip("1", time.March), trip("2", time.April))
	api.update = func(_ context.Context, tr domain.Trip) (domain.Trip, error) { return tr, nil }
	c := loaded(t, api)

	var last domain.Trip
	for range 2 {
		c.SetDraft(triplist.Draft{ID: "2", Title: "Same", Description: "Same", Start: "2025,4,1,9,0", End: "2025,4,3,9,0"})
		saved, err := c.SubmitForm(context.Background())
		require.NoError(t, err)
		last = saved
	}

	assert.Equal(t, []domain.ID{"1", "2"}, ids(c.Trips()))
	got, ok := c.Lookup("2")
	require.True(t, ok)
	assert.Equal(t, last, got)
	assert.Equal(t, "Same", got.Title)
}

func TestSubmitForm_UpdateNotFoundLeavesState(t *testing.T) {
	api := listing(trip("1", time.March))
	api.update = func(context.Context, domain.Trip) (domain.Trip, error) {
		return domain.Trip{}, fmt.Errorf("client: %w", domain.ErrNotFound)
	}
	c := loaded(t, api)
	require.True(t, c.SelectForEdit("1"))

	_, err := c.SubmitForm(context.Background())

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Trip 1", c.Trips()[0].Title)
	assert.Equal(t, domain.ID("1"), c.Draft().ID)
}

// ---- DeleteTrip --------------------------------------------------------------

func TestDeleteTrip_RemovesFromCollectionAndView(t *testing.T) {
	var deleted domain.ID
	api := listing(trip("1", time.June), trip("2", time.June), trip("3", time.July))
	api.delete = func(_ context.Context, id domain.ID) error { deleted = id; return nil }
	c := loaded(t, api)
	require.NoError(t, c.SetMonthFilter(time.June))

	err := c.DeleteTrip(context.Background(), "2")

	require.NoError(t, err)
	assert.Equal(t, domain.ID("2"), deleted)
	assert.Equal(t, []domain.ID{"1", "3"}, ids(c.Trips()))
	assert.Equal(t, []domain.ID{"1"}, ids(c.View()))
	_, ok := c.Lookup("2")
	assert.False(t, ok)
}

func TestDeleteTrip_ClearsDraftOfDeletedTrip(t *testing.T) {
	api := listing(trip("1", time.June))
	api.delete = func(context.Context, domain.ID) error { return nil }
	c := loaded(t, api)
	require.True(t, c.SelectForEdit("1"))

	require.NoError(t, c.DeleteTrip(context.Background(), "1"))

	assert.True(t, c.Draft().IsEmpty())
}

func TestDeleteTrip_FailureLeavesState(t *testing.T) {
	boom := errors.New("timeout")
	api := listing(trip("1", time.June))
	api.delete = func(context.Context, domain.ID) error { return boom }
	c := loaded(t, api)

	err := c.DeleteTrip(context.Background(), "1")

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []domain.ID{"1"}, ids(c.Trips()))
	assert.Equal(t, []domain.ID{"1"}, ids(c.View()))
}

// ---- FilterByMonth ---------------------------------------------------------

func TestFilterByMonth_DoesNotAlias(t *testing.T) {
	trips := []domain.Trip{trip("1", time.May)}

	out := triplist.FilterByMonth(trips, triplist.AllMonths)
	out[0].Title = "changed"

	assert.Equal(t, "Trip 1", trips[0].Title)
}

func TestNewDraft_Resets(t *testing.T) {
	c := loaded(t, listing(trip("1", time.June)))
	require.True(t, c.SelectForEdit("1"))

	c.NewDraft()

	assert.True(t, c.Draft().IsNew())
	assert.True(t, c.Draft().IsEmpty())
}
