package bikeshare

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Trip is one ride from a city's trip log, with the calendar fields derived
// from its start time.
type Trip struct {
	StartTime       time.Time
	EndTime         time.Time // zero when the log has no End Time column
	DurationSeconds float64
	StartStation    string
	EndStation      string
	UserType        string
	Gender          string
	BirthYear       float64
	HasBirthYear    bool

	Month   time.Month
	Weekday Day
}

// Route is the "<start> to <end>" pairing used for route popularity. It is
// built on demand and never stored.
func (t Trip) Route() string {
	return t.StartStation + " to " + t.EndStation
}

// Table is the normalized trip log of one city.
type Table struct {
	City   City
	Header []string
	Fields Fields
	Trips  []Trip
}

func (t *Table) Len() int { return len(t.Trips) }

// View returns an unfiltered view of every trip in load order.
func (t *Table) View() *View {
	indices := make([]int, len(t.Trips))
	for i := range indices {
		indices[i] = i
	}
	return &View{table: t, indices: indices}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseFinite reads a duration or year cell. ParseFloat also accepts NaN and
// infinities, which no trip log means and which poison every aggregate.
func parseFinite(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", value)
	}
	return f, nil
}

// calendarFields derives the month and Monday-based weekday of a timestamp.
func calendarFields(t time.Time) (time.Month, Day) {
	return t.Month(), Day((int(t.Weekday()) + 6) % 7)
}

// rawTrip is a trip log row as written in the source, decoded by header name.
type rawTrip struct {
	StartTime    string `csv:"Start Time"`
	EndTime      string `csv:"End Time"`
	TripDuration string `csv:"Trip Duration"`
	StartStation string `csv:"Start Station"`
	EndStation   string `csv:"End Station"`
	UserType     string `csv:"User Type"`
	Gender       string `csv:"Gender"`
	BirthYear    string `csv:"Birth Year"`
}

func (r rawTrip) normalize(fields Fields, hasDuration bool) (Trip, error) {
	start, err := parseTimestamp(r.StartTime)
	if err != nil {
		return Trip{}, fmt.Errorf("parse %s %q: %w", colStartTime, r.StartTime, err)
	}

	var end time.Time
	if strings.TrimSpace(r.EndTime) != "" {
		end, err = parseTimestamp(r.EndTime)
		if err != nil {
			return Trip{}, fmt.Errorf("parse %s %q: %w", colEndTime, r.EndTime, err)
		}
	}

	var duration float64
	switch {
	case hasDuration && strings.TrimSpace(r.TripDuration) != "":
		duration, err = parseFinite(r.TripDuration)
		if err != nil {
			return Trip{}, fmt.Errorf("parse %s %q: %w", colTripDuration, r.TripDuration, err)
		}
	case !end.IsZero():
		duration = end.Sub(start).Seconds()
	default:
		return Trip{}, fmt.Errorf("no %s or %s", colTripDuration, colEndTime)
	}

	trip := Trip{
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: duration,
		StartStation:    strings.TrimSpace(r.StartStation),
		EndStation:      strings.TrimSpace(r.EndStation),
		UserType:        strings.TrimSpace(r.UserType),
	}
	if fields.Has(FieldGender) {
		trip.Gender = strings.TrimSpace(r.Gender)
	}
	if fields.Has(FieldBirthYear) && strings.TrimSpace(r.BirthYear) != "" {
		trip.BirthYear, err = parseFinite(r.BirthYear)
		if err != nil {
			return Trip{}, fmt.Errorf("parse %s %q: %w", colBirthYear, r.BirthYear, err)
		}
		trip.HasBirthYear = true
	}
	trip.Month, trip.Weekday = calendarFields(start)
	return trip, nil
}
