package triplist

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pkordes/trip-catalog/internal/domain"
)

// Draft is the form-bound, not yet persisted version of a trip. Start and End
// hold delimited text as typed ("2025,6,1,9,30"). An empty ID means the draft
// is a new record; otherwise it edits the trip with that ID.
type Draft struct {
	ID          domain.ID
	Title       string
	Description string
	Start       string
	End         string

	// Meetings of the trip being edited. The form does not edit them; they
	// are sent back unchanged so an update does not drop them.
	Meetings []domain.Meeting
}

// DraftFromTrip fills a draft with t's fields.
func DraftFromTrip(t domain.Trip) Draft {
	return Draft{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Start:       t.Start.String(),
		End:         t.End.String(),
		Meetings:    t.Clone().Meetings,
	}
}

// IsNew reports whether submitting d creates a trip rather than updating one.
func (d Draft) IsNew() bool {
	return d.ID == ""
}

// IsEmpty reports whether d is the zero draft.
func (d Draft) IsEmpty() bool {
	return d.ID == "" && d.Title == "" && d.Description == "" &&
		d.Start == "" && d.End == "" && len(d.Meetings) == 0
}

func (d Draft) equal(o Draft) bool {
	return d.ID == o.ID && d.Title == o.Title && d.Description == o.Description &&
		d.Start == o.Start && d.End == o.End && slices.Equal(d.Meetings, o.Meetings)
}

// Trip parses the draft into a validated trip. Every failure wraps
// domain.ErrValidation; all field problems are reported together.
func (d Draft) Trip() (domain.Trip, error) {
	t := domain.Trip{
		ID:          d.ID,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Meetings:    append([]domain.Meeting(nil), d.Meetings...),
	}

	var errs []error
	var err error
	if t.Start, err = domain.ParseTimestamp(d.Start); err != nil {
		errs = append(errs, fmt.Errorf("start: %w", err))
	}
	if t.End, err = domain.ParseTimestamp(d.End); err != nil {
		errs = append(errs, fmt.Errorf("end: %w", err))
	}
	if len(errs) > 0 {
		if t.Title == "" {
			errs = append([]error{fmt.Errorf("%w: title is required", domain.ErrValidation)}, errs...)
		}
		return domain.Trip{}, errors.Join(errs...)
	}

	if err := t.Validate(); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}
