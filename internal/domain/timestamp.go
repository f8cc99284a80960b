package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a trip boundary at minute precision.
// On the wire it is the array [year, month, day, hour, minute].
type Timestamp struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// TimestampOf truncates t to a Timestamp in t's own location.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

// Time returns ts as a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Date(ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, 0, 0, time.UTC)
}

// IsZero reports whether ts is the zero value.
func (ts Timestamp) IsZero() bool {
	return ts == Timestamp{}
}

// Before reports whether ts is strictly earlier than other.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.Time().Before(other.Time())
}

// Validate checks every component is in range, including the day against
// the month's length.
func (ts Timestamp) Validate() error {
	if ts.IsZero() {
		return errors.New("timestamp is required")
	}
	if ts.Month < time.January || ts.Month > time.December {
		return fmt.Errorf("month %d out of range 1-12", ts.Month)
	}
	if ts.Hour < 0 || ts.Hour > 23 {
		return fmt.Errorf("hour %d out of range 0-23", ts.Hour)
	}
	if ts.Minute < 0 || ts.Minute > 59 {
		return fmt.Errorf("minute %d out of range 0-59", ts.Minute)
	}
	// time.Date normalises 31 June to 1 July; a round-trip mismatch means
	// the day does not exist.
	if ts.Day < 1 || TimestampOf(ts.Time()) != ts {
		return fmt.Errorf("day %d is not valid for %s %d", ts.Day, ts.Month, ts.Year)
	}
	return nil
}

// String renders ts in the delimited form ParseTimestamp reads back.
func (ts Timestamp) String() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d", ts.Year, int(ts.Month), ts.Day, ts.Hour, ts.Minute)
}

// DisplayDate renders the date part as day-month-year, the way the catalog
// page shows it.
func (ts Timestamp) DisplayDate() string {
	return fmt.Sprintf("%d-%d-%d", ts.Day, int(ts.Month), ts.Year)
}

// ParseTimestamp reads a delimited timestamp such as "2024,6,1,9,30",
// "2024-06-01 09:30" or "2024/6/1". Commas, dashes, slashes, dots, colons,
// spaces and a 'T' separator are all accepted. Year, month and day are
// required; hour and minute default to zero.
func ParseTimestamp(s string) (Timestamp, error) {
	fields, ok := splitTimestamp(strings.TrimSpace(s))
	if !ok {
		return Timestamp{}, fmt.Errorf("%w: timestamp %q: want unsigned numbers separated by one delimiter", ErrValidation, s)
	}
	if len(fields) < 3 || len(fields) > 5 {
		return Timestamp{}, fmt.Errorf("%w: timestamp %q needs 3 to 5 parts (year, month, day[, hour[, minute]])", ErrValidation, s)
	}

	var parts [5]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Timestamp{}, fmt.Errorf("%w: timestamp %q: part %q is not a number", ErrValidation, s, f)
		}
		parts[i] = n
	}

	ts := timestampFromParts(parts)
	if err := ts.Validate(); err != nil {
		return Timestamp{}, fmt.Errorf("%w: timestamp %q: %s", ErrValidation, s, err)
	}
	return ts, nil
}

// MarshalJSON encodes ts as [year, month, day, hour, minute].
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal([5]int{ts.Year, int(ts.Month), ts.Day, ts.Hour, ts.Minute})
}

// UnmarshalJSON decodes an array of three to five integers. Missing hour and
// minute are zero. null leaves ts as the zero value.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var raw []int
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("domain.Timestamp: %w", err)
	}
	if raw == nil {
		*ts = Timestamp{}
		return nil
	}
	if len(raw) < 3 || len(raw) > 5 {
		return fmt.Errorf("domain.Timestamp: want 3 to 5 elements, got %d", len(raw))
	}
	var parts [5]int
	copy(parts[:], raw)
	*ts = timestampFromParts(parts)
	return nil
}

// splitTimestamp cuts s into runs of digits. Between two runs it accepts
// blanks around at most one of , - / . : T. An empty part, a leading or
// trailing delimiter, or any other character (a sign included) fails.
func splitTimestamp(s string) ([]string, bool) {
	var fields []string
	i := 0
	for {
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i {
			return nil, false
		}
		fields = append(fields, s[i:j])
		if j == len(s) {
			return fields, true
		}

		k := skipBlanks(s, j)
		if k < len(s) && strings.IndexByte(",-/.:T", s[k]) >= 0 {
			k = skipBlanks(s, k+1)
		}
		if k == j || k == len(s) {
			return nil, false
		}
		i = k
	}
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func timestampFromParts(p [5]int) Timestamp {
	return Timestamp{Year: p[0], Month: time.Month(p[1]), Day: p[2], Hour: p[3], Minute: p[4]}
}
