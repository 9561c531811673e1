package main

import (
	"github.com/dzfranklin/bikeshare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestImportCity(t *testing.T) {
	city, err := importCity("data/new_york_city.csv", "")
	require.NoError(t, err)
	assert.Equal(t, bikeshare.NewYorkCity, city)

	city, err = importCity("trips.csv", "washington")
	require.NoError(t, err)
	assert.Equal(t, bikeshare.Washington, city)

	_, err = importCity("trips.csv", "")
	assert.ErrorIs(t, err, bikeshare.ErrInvalidFilter)
}

func TestParseFilterSpec(t *testing.T) {
	spec, err := parseFilterSpec("chicago", "june", "")
	require.NoError(t, err)
	assert.Equal(t, bikeshare.FilterSpec{City: bikeshare.Chicago, Month: bikeshare.June, Day: bikeshare.DayAll}, spec)

	_, err = parseFilterSpec("chicago", "", "someday")
	assert.ErrorIs(t, err, bikeshare.ErrInvalidFilter)
}

func TestOutputPathOrDefault(t *testing.T) {
	assert.Equal(t, "given.zip", outputPathOrDefault("trips.db", "given.zip", ".db", ".zip"))
	assert.Equal(t, "trips.zip", outputPathOrDefault("data/trips.db", "", ".db", ".zip"))
	assert.Equal(t, "trips_chicago_june_all.db", outputPathOrDefault("./trips.db", "", ".db", "_chicago_june_all.db"))
}
