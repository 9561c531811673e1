package bikeshare

import (
	"fmt"
	"strings"
)

// City identifies one of the trip logs the tool knows about.
type City string

const (
	Chicago     City = "chicago"
	NewYorkCity City = "new_york_city"
	Washington  City = "washington"
)

// Cities lists every known city in menu order.
var Cities = []City{Chicago, NewYorkCity, Washington}

type cityInfo struct {
	Name     string
	FileName string
	Optional Fields
}

var cityData = map[City]cityInfo{
	Chicago:     {Name: "Chicago", FileName: "chicago.csv", Optional: FieldGender | FieldBirthYear},
	NewYorkCity: {Name: "New York City", FileName: "new_york_city.csv", Optional: FieldGender | FieldBirthYear},
	Washington:  {Name: "Washington", FileName: "washington.csv"},
}

// ParseCity accepts a city id or display name in any case. "new york" is
// accepted as a short form of New York City.
func ParseCity(s string) (City, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "new york" {
		return NewYorkCity, nil
	}
	for city, info := range cityData {
		if key == string(city) || key == strings.ToLower(info.Name) {
			return city, nil
		}
	}
	return "", fmt.Errorf("%w: unknown city %q", ErrInvalidFilter, s)
}

func (c City) Valid() bool {
	_, ok := cityData[c]
	return ok
}

// Name is the display name, e.g. "New York City".
func (c City) Name() string {
	if info, ok := cityData[c]; ok {
		return info.Name
	}
	return string(c)
}

// FileName is the name of the city's CSV file inside a data directory.
func (c City) FileName() string {
	if info, ok := cityData[c]; ok {
		return info.FileName
	}
	return string(c) + ".csv"
}

// OptionalFields are the demographic fields the city's log may carry.
func (c City) OptionalFields() Fields {
	return cityData[c].Optional
}

func (c City) String() string { return c.Name() }

// Fields is a set of optional trip fields.
type Fields uint8

const (
	FieldGender Fields = 1 << iota
	FieldBirthYear
)

func (f Fields) Has(field Fields) bool { return f&field == field }

func (f Fields) String() string {
	var names []string
	if f.Has(FieldGender) {
		names = append(names, colGender)
	}
	if f.Has(FieldBirthYear) {
		names = append(names, colBirthYear)
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
