// Package export renders a list of trips as a flat table, one row per
// meeting with the trip's fields repeated. A trip without meetings yields a
// single row whose meeting columns are empty.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkordes/trip-catalog/internal/domain"
)

// Row is one line of the export.
type Row struct {
	TripID          string `json:"trip_id"`
	TripTitle       string `json:"trip_title"`
	TripDescription string `json:"trip_description"`
	Start           string `json:"start"` // ISO-8601 minute precision, UTC
	End             string `json:"end"`

	MeetingID          string `json:"meeting_id,omitempty"`
	MeetingTitle       string `json:"meeting_title,omitempty"`
	MeetingDescription string `json:"meeting_description,omitempty"`
}

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_description", "start", "end",
	"meeting_id", "meeting_title", "meeting_description",
}

const timeLayout = "2006-01-02T15:04"

// Rows flattens trips in order.
func Rows(trips []domain.Trip) []Row {
	rows := make([]Row, 0, len(trips))
	for _, t := range trips {
		base := Row{
			TripID:          string(t.ID),
			TripTitle:       t.Title,
			TripDescription: t.Description,
			Start:           t.Start.Time().Format(timeLayout),
			End:             t.End.Time().Format(timeLayout),
		}
		if len(t.Meetings) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, m := range t.Meetings {
			r := base
			r.MeetingID = string(m.ID)
			r.MeetingTitle = m.Title
			r.MeetingDescription = m.Description
			rows = append(rows, r)
		}
	}
	return rows
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, trips []domain.Trip) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	for _, r := range Rows(trips) {
		rec := []string{
			r.TripID, r.TripTitle, r.TripDescription, r.Start, r.End,
			r.MeetingID, r.MeetingTitle, r.MeetingDescription,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	return nil
}

// WriteJSON writes the rows as an indented JSON array.
func WriteJSON(w io.Writer, trips []domain.Trip) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Rows(trips)); err != nil {
		return fmt.Errorf("export.WriteJSON: %w", err)
	}
	return nil
}
