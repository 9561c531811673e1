package bikeshare

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"log/slog"
	"strings"
	"time"
)

// Month selects one of the months covered by the trip logs. The logs only
// span January to June, so later months are not selectable.
type Month int

const (
	MonthAll Month = iota
	January
	February
	March
	April
	May
	June
)

// Months lists the selectable months in order, without MonthAll.
var Months = []Month{January, February, March, April, May, June}

func (m Month) String() string {
	if m == MonthAll {
		return "All"
	}
	if m < MonthAll || m > June {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return time.Month(m).String()
}

// ParseMonth accepts a month name from January to June or "all", in any case.
func ParseMonth(s string) (Month, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "all" {
		return MonthAll, nil
	}
	for _, m := range Months {
		if key == strings.ToLower(m.String()) {
			return m, nil
		}
	}
	return MonthAll, fmt.Errorf("%w: month %q is not January to June or all", ErrInvalidFilter, s)
}

// Day is a weekday numbered from Monday=0 to Sunday=6, or DayAll.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const DayAll Day = -1

// Days lists the weekdays from Monday, without DayAll.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Day) String() string {
	if d == DayAll {
		return "All"
	}
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return time.Weekday((int(d) + 1) % 7).String()
}

// ParseDay accepts a weekday name or "all", in any case.
func ParseDay(s string) (Day, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "all" {
		return DayAll, nil
	}
	for _, d := range Days {
		if key == strings.ToLower(d.String()) {
			return d, nil
		}
	}
	return DayAll, fmt.Errorf("%w: day %q is not a weekday or all", ErrInvalidFilter, s)
}

// FilterSpec is the city, month and day a session is restricted to.
type FilterSpec struct {
	City  City  `validate:"required,oneof=chicago new_york_city washington"`
	Month Month `validate:"min=0,max=6"`
	Day   Day   `validate:"min=-1,max=6"`
}

var specValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate rejects values outside the enumerations even though the shell only
// ever builds specs through ParseCity, ParseMonth and ParseDay.
func (s FilterSpec) Validate() error {
	if err := specValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFilter, err)
	}
	return nil
}

func (s FilterSpec) String() string {
	return fmt.Sprintf("city=%s month=%s day=%s", s.City.Name(), s.Month, s.Day)
}

// ApplyFilter returns the trips of table matching spec, in table order. The
// month and day restrictions are combined with AND; MonthAll and DayAll
// leave their dimension unrestricted. A view with no rows is a valid result.
func ApplyFilter(table *Table, spec FilterSpec) (*View, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.City != table.City {
		return nil, fmt.Errorf("%w: filter is for %s but table is %s", ErrInvalidFilter, spec.City.Name(), table.City.Name())
	}

	indices := make([]int, 0, len(table.Trips))
	for i, trip := range table.Trips {
		if spec.Month != MonthAll && int(trip.Month) != int(spec.Month) {
			continue
		}
		if spec.Day != DayAll && trip.Weekday != spec.Day {
			continue
		}
		indices = append(indices, i)
	}

	slog.Debug(fmt.Sprintf("Filter %s kept %d of %d trips", spec, len(indices), len(table.Trips)))
	return &View{table: table, indices: indices}, nil
}
