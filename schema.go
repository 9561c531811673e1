package bikeshare

import (
	"crawshaw.io/sqlite"
	"slices"
)

// NOTE: Skipped validating
//   - that End Time is after Start Time, real trip logs contain a handful of negative trips

const (
	colStartTime    = "Start Time"
	colEndTime      = "End Time"
	colTripDuration = "Trip Duration"
	colStartStation = "Start Station"
	colEndStation   = "End Station"
	colUserType     = "User Type"
	colGender       = "Gender"
	colBirthYear    = "Birth Year"
)

type columnKind int

const (
	kindText columnKind = iota
	kindTimestamp
	kindSeconds
	kindYear
)

func (k columnKind) String() string {
	switch k {
	case kindTimestamp:
		return "timestamp"
	case kindSeconds:
		return "number of seconds"
	case kindYear:
		return "year"
	default:
		return "text"
	}
}

// check reports whether value can be read as k the way Load reads it.
func (k columnKind) check(value string) error {
	switch k {
	case kindTimestamp:
		_, err := parseTimestamp(value)
		return err
	case kindSeconds, kindYear:
		_, err := parseFinite(value)
		return err
	default:
		return nil
	}
}

type columnSchema struct {
	Kind columnKind
	// Required columns must be in every header. Columns sharing an AnyOf group
	// are required as a group: at least one of them must be present.
	Required bool
	AnyOf    string
	Field    Fields
}

// tripSchema lists the columns the loader understands. Anything else in a
// header (Washington's unnamed index column, trip ids, ...) is carried into
// source databases but otherwise ignored.
var tripSchema = map[string]columnSchema{
	colStartTime:    {Kind: kindTimestamp, Required: true},
	colEndTime:      {Kind: kindTimestamp, AnyOf: "duration"},
	colTripDuration: {Kind: kindSeconds, AnyOf: "duration"},
	colStartStation: {Kind: kindText, Required: true},
	colEndStation:   {Kind: kindText, Required: true},
	colUserType:     {Kind: kindText, Required: true},
	colGender:       {Kind: kindText, Field: FieldGender},
	colBirthYear:    {Kind: kindYear, Field: FieldBirthYear},
}

// missingColumns returns the schema columns a header lacks, in a stable order.
// A satisfied AnyOf group contributes nothing; an unsatisfied one is reported
// as "A or B".
func missingColumns(header []string) []string {
	var missing []string
	groups := make(map[string][]string)
	satisfied := make(map[string]bool)
	for column, schema := range tripSchema {
		present := slices.Contains(header, column)
		if schema.AnyOf != "" {
			groups[schema.AnyOf] = append(groups[schema.AnyOf], column)
			if present {
				satisfied[schema.AnyOf] = true
			}
			continue
		}
		if schema.Required && !present {
			missing = append(missing, column)
		}
	}
	for group, columns := range groups {
		if !satisfied[group] {
			slices.Sort(columns)
			missing = append(missing, columns[0]+" or "+columns[1])
		}
	}
	slices.Sort(missing)
	return missing
}

// presentFields is the subset of the city's optional fields that the header
// actually carries.
func presentFields(city City, header []string) Fields {
	var fields Fields
	for column, schema := range tripSchema {
		if schema.Field != 0 && slices.Contains(header, column) {
			fields |= schema.Field
		}
	}
	return fields & city.OptionalFields()
}

func sqlitexNoop(*sqlite.Stmt) error { return nil }
