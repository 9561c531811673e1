package bikeshare

import (
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/jszwec/csvutil"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Load reads and normalizes every trip of city from src. Any unreadable or
// malformed input fails the whole load with a *DataSourceError; rows are
// never skipped.
func Load(src Source, city City) (*Table, error) {
	location := src.Location(city)
	if !city.Valid() {
		return nil, &DataSourceError{City: city, Source: location, Err: fmt.Errorf("%w: unknown city", ErrInvalidInput)}
	}

	rows, err := src.Open(city)
	if err != nil {
		return nil, &DataSourceError{City: city, Source: location, Err: err}
	}
	defer func() { _ = rows.Close() }()

	return decodeTable(city, location, rows)
}

// LoadCSV normalizes a trip log read from r.
func LoadCSV(city City, r io.Reader) (*Table, error) {
	return decodeTable(city, "csv stream", csv.NewReader(r))
}

func decodeTable(city City, location string, rows csvutil.Reader) (*Table, error) {
	fail := func(err error) (*Table, error) {
		return nil, &DataSourceError{City: city, Source: location, Err: err}
	}

	slog.Info(fmt.Sprintf("Loading %s from %s", city.Name(), location))

	dec, err := csvutil.NewDecoder(rows)
	if errors.Is(err, io.EOF) {
		return fail(fmt.Errorf("%w: no header row", ErrInvalidInput))
	} else if err != nil {
		return fail(decodeErr(err))
	}

	header := slices.Clone(dec.Header())
	if missing := missingColumns(header); len(missing) > 0 {
		return fail(fmt.Errorf("%w: missing column(s) %s", ErrInvalidInput, strings.Join(missing, ", ")))
	}

	table := &Table{
		City:   city,
		Header: header,
		Fields: presentFields(city, header),
	}
	hasDuration := slices.Contains(header, colTripDuration)

	// Line numbers count the header as line 1.
	for line := 2; ; line++ {
		var raw rawTrip
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return fail(fmt.Errorf("line %d: %w", line, decodeErr(err)))
		}

		trip, err := raw.normalize(table.Fields, hasDuration)
		if err != nil {
			return fail(fmt.Errorf("%w: line %d: %s", ErrInvalidInput, line, err))
		}
		table.Trips = append(table.Trips, trip)
	}

	slog.Info(fmt.Sprintf("Loaded %d trips for %s (optional fields: %s)", len(table.Trips), city.Name(), table.Fields))
	return table, nil
}

// decodeErr marks CSV syntax problems as invalid input and passes anything
// else, such as a failing disk or database, through unchanged.
func decodeErr(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) || errors.Is(err, csvutil.ErrFieldCount) {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return err
}
