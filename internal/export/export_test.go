package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-catalog/internal/domain"
	"github.com/pkordes/trip-catalog/internal/export"
)

func fixtures() []domain.Trip {
	return []domain.Trip{
		{
			ID:    "1",
			Title: "Alps",
			Start: domain.Timestamp{Year: 2025, Month: time.June, Day: 1, Hour: 9, Minute: 30},
			End:   domain.Timestamp{Year: 2025, Month: time.June, Day: 7},
			Meetings: []domain.Meeting{
				{ID: "m1", Title: "Briefing", Description: "Hut"},
				{ID: "m2", Title: "Debrief"},
			},
		},
		{
			ID:          "2",
			Title:       "Coast, north",
			Description: "Ferry",
			Start:       domain.Timestamp{Year: 2025, Month: time.July, Day: 3},
			End:         domain.Timestamp{Year: 2025, Month: time.July, Day: 4},
		},
	}
}

func TestRows_OneRowPerMeeting(t *testing.T) {
	rows := export.Rows(fixtures())

	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[0].TripID)
	assert.Equal(t, "Briefing", rows[0].MeetingTitle)
	assert.Equal(t, "Debrief", rows[1].MeetingTitle)
	assert.Equal(t, "2025-06-01T09:30", rows[1].Start, "trip fields repeat on every meeting row")
	assert.Equal(t, "2", rows[2].TripID)
	assert.Empty(t, rows[2].MeetingID)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, fixtures()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "trip_id", records[0][0])
	assert.Equal(t, []string{"2", "Coast, north", "Ferry", "2025-07-03T00:00", "2025-07-04T00:00", "", "", ""}, records[3])
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, nil))

	var rows []export.Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
