// Package domain contains the core data types of the trip catalog.
// It has no dependencies on other internal packages and is imported by every
// one of them (client, triplist, repo, service, handler).
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID identifies a trip or a meeting. The trips service assigns it.
//
// Depending on its version, the service emits ids either as JSON strings
// ("7f3c…") or as JSON numbers (7). Both decode into the same string form so
// the rest of the code never has to care.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("domain.ID: %s is neither a string nor a number", b)
		}
		*id = ID(n.String())
		return nil
	}
}

// Meeting is a record attached to a trip.
type Meeting struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Trip is a scheduled event with a start, an end, and associated meetings.
// It is the only aggregate in the catalog; meetings live inside it.
type Trip struct {
	ID          ID        `json:"id,omitempty"` // empty until the service assigns one
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       Timestamp `json:"startTrip"`
	End         Timestamp `json:"endTrip"`
	Meetings    []Meeting `json:"meetings,omitempty"`
}

// Validate reports whether t satisfies the catalog's rules: a non-blank
// title, well-formed timestamps, and a start that strictly precedes the end.
// Every failure wraps ErrValidation.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := t.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %s", ErrValidation, err)
	}
	if err := t.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %s", ErrValidation, err)
	}
	if !t.Start.Before(t.End) {
		return fmt.Errorf("%w: start must precede end", ErrValidation)
	}
	return nil
}

// Clone returns a copy of t that shares no slices with the original.
func (t Trip) Clone() Trip {
	if t.Meetings != nil {
		t.Meetings = append([]Meeting(nil), t.Meetings...)
	}
	return t
}
