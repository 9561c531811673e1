package bikeshare

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestRowProblem(t *testing.T) {
	columns := []string{colStartTime, colEndTime, colTripDuration, colBirthYear}
	cases := []struct {
		values map[string]string
		want   string
	}{
		{map[string]string{colStartTime: "2017-01-01 00:00:00", colTripDuration: "60"}, ""},
		{map[string]string{colStartTime: "2017-01-01 00:00:00", colEndTime: "2017-01-01 00:01:00"}, ""},
		{map[string]string{colStartTime: "", colTripDuration: "60"}, `Start Time "" is not a timestamp`},
		{map[string]string{colStartTime: "2017-01-01 00:00:00", colEndTime: "soon", colTripDuration: "60"}, `End Time "soon" is not a timestamp`},
		{map[string]string{colStartTime: "2017-01-01 00:00:00", colTripDuration: "1m"}, `Trip Duration "1m" is not a number of seconds`},
		{map[string]string{colStartTime: "2017-01-01 00:00:00", colTripDuration: "60", colBirthYear: "old"}, `Birth Year "old" is not a year`},
		{map[string]string{colStartTime: "2017-01-01 00:00:00", colTripDuration: "NaN"}, `Trip Duration "NaN" is not a number of seconds`},
		{map[string]string{colStartTime: "2017-01-01 00:00:00", colTripDuration: "60", colBirthYear: "-Inf"}, `Birth Year "-Inf" is not a year`},
		{map[string]string{colStartTime: "2017-01-01 00:00:00"}, "no Trip Duration or End Time"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, rowProblem(columns, c.values), c.values)
	}
}

func TestMissingColumns(t *testing.T) {
	assert.Empty(t, missingColumns([]string{"", colStartTime, colEndTime, colStartStation, colEndStation, colUserType}))
	assert.Equal(t,
		[]string{"End Time or Trip Duration", colUserType},
		missingColumns([]string{colStartTime, colStartStation, colEndStation}))
}

func TestParseFinite(t *testing.T) {
	f, err := parseFinite(" 1985.0 ")
	assert.NoError(t, err)
	assert.Equal(t, 1985.0, f)

	for _, value := range []string{"NaN", "nan", "Inf", "-Inf", "Infinity", "1e400"} {
		_, err := parseFinite(value)
		assert.Error(t, err, value)
	}
}
