package bikeshare

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// All modes in this package break ties the same way: among the values sharing
// the highest count, the one seen first in view order wins. All rounding is
// half to even.

type TimeStats struct {
	MostFrequentMonth   time.Month
	MostFrequentWeekday Day
}

// TimeStats reports the most frequent month and weekday of travel.
func (v *View) TimeStats() (TimeStats, error) {
	if v.Len() == 0 {
		return TimeStats{}, ErrEmptyView
	}
	months := newTally[time.Month]()
	days := newTally[Day]()
	for _, trip := range v.All() {
		months.add(trip.Month)
		days.add(trip.Weekday)
	}
	month, _ := months.mode()
	day, _ := days.mode()
	return TimeStats{MostFrequentMonth: month, MostFrequentWeekday: day}, nil
}

type StationStats struct {
	MostFrequentStart string
	MostFrequentEnd   string
	MostFrequentRoute string
}

// StationStats reports the most popular start station, end station and
// start-to-end route. Missing station names are not counted.
func (v *View) StationStats() (StationStats, error) {
	if v.Len() == 0 {
		return StationStats{}, ErrEmptyView
	}
	starts := newTally[string]()
	ends := newTally[string]()
	routes := newTally[string]()
	for _, trip := range v.All() {
		if trip.StartStation != "" {
			starts.add(trip.StartStation)
		}
		if trip.EndStation != "" {
			ends.add(trip.EndStation)
		}
		if trip.StartStation != "" && trip.EndStation != "" {
			routes.add(trip.Route())
		}
	}
	var stats StationStats
	stats.MostFrequentStart, _ = starts.mode()
	stats.MostFrequentEnd, _ = ends.mode()
	stats.MostFrequentRoute, _ = routes.mode()
	return stats, nil
}

type DurationStats struct {
	TotalSeconds   float64
	AverageSeconds int64
}

// DurationStats reports the total and the mean trip duration. Both are
// unavailable for an empty view.
func (v *View) DurationStats() (DurationStats, error) {
	if v.Len() == 0 {
		return DurationStats{}, ErrEmptyView
	}
	var total float64
	for _, trip := range v.All() {
		total += trip.DurationSeconds
	}
	return DurationStats{
		TotalSeconds:   total,
		AverageSeconds: int64(math.RoundToEven(total / float64(v.Len()))),
	}, nil
}

// ValueCount is the number of trips carrying one label.
type ValueCount struct {
	Value string
	Count int
}

type UserStats struct {
	Types []ValueCount
	// Demographics is nil when the city's log carries neither gender nor
	// birth year, as with Washington.
	Demographics *Demographics
}

type Demographics struct {
	Genders    []ValueCount // nil when the log has no Gender column
	BirthYears *BirthYearStats
}

type BirthYearStats struct {
	Earliest   int
	MostRecent int
	MostCommon int
}

// UserStats counts trips per user type and, where the city's log has them,
// per gender and birth year. Counts are ordered from most to least frequent.
func (v *View) UserStats() (UserStats, error) {
	if v.Len() == 0 {
		return UserStats{}, ErrEmptyView
	}

	fields := v.Fields()
	types := newTally[string]()
	genders := newTally[string]()
	years := newTally[float64]()
	earliest, latest := math.Inf(1), math.Inf(-1)
	for _, trip := range v.All() {
		if trip.UserType != "" {
			types.add(trip.UserType)
		}
		if fields.Has(FieldGender) && trip.Gender != "" {
			genders.add(trip.Gender)
		}
		if fields.Has(FieldBirthYear) && trip.HasBirthYear {
			years.add(trip.BirthYear)
			earliest = min(earliest, trip.BirthYear)
			latest = max(latest, trip.BirthYear)
		}
	}

	stats := UserStats{Types: valueCounts(types)}
	if fields&(FieldGender|FieldBirthYear) == 0 {
		return stats, nil
	}

	demographics := &Demographics{}
	if fields.Has(FieldGender) {
		demographics.Genders = valueCounts(genders)
	}
	if common, ok := years.mode(); ok {
		demographics.BirthYears = &BirthYearStats{
			Earliest:   int(math.RoundToEven(earliest)),
			MostRecent: int(math.RoundToEven(latest)),
			MostCommon: int(math.RoundToEven(common)),
		}
	}
	stats.Demographics = demographics
	return stats, nil
}

// tally counts occurrences while remembering the order values were first
// seen in.
type tally[K comparable] struct {
	counts map[K]int
	order  []K
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{counts: make(map[K]int)}
}

func (t *tally[K]) add(k K) {
	if _, ok := t.counts[k]; !ok {
		t.order = append(t.order, k)
	}
	t.counts[k]++
}

// mode returns the most frequent value, the first seen on a tie. ok is false
// when nothing was counted.
func (t *tally[K]) mode() (value K, ok bool) {
	best := 0
	for _, k := range t.order {
		if n := t.counts[k]; n > best {
			value, best = k, n
		}
	}
	return value, best > 0
}

// valueCounts lists every label with its count, most frequent first and
// ties in first-seen order.
func valueCounts(t *tally[string]) []ValueCount {
	out := make([]ValueCount, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, ValueCount{Value: k, Count: t.counts[k]})
	}
	slices.SortStableFunc(out, func(a, b ValueCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}
