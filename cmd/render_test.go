package main

import (
	"bytes"
	"github.com/dzfranklin/bikeshare"
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
	"time"
)

func TestRenderTimeStats(t *testing.T) {
	var out bytes.Buffer
	renderTimeStats(&out, bikeshare.TimeStats{MostFrequentMonth: time.March, MostFrequentWeekday: bikeshare.Sunday})
	assert.Equal(t, "Most frequently traveled Month: March\nMost frequently traveled weekday: Sunday\n", out.String())
}

func TestRenderDurationStats(t *testing.T) {
	var out bytes.Buffer
	renderDurationStats(&out, bikeshare.DurationStats{TotalSeconds: 1234567.5, AverageSeconds: 1234})
	assert.Equal(t, "Total Trip Time: 1,234,567.5 seconds\nAverage Trip Time: 1,234 seconds\n", out.String())
}

func TestRenderUserStats(t *testing.T) {
	var out bytes.Buffer
	renderUserStats(&out, bikeshare.Chicago, bikeshare.UserStats{
		Types: []bikeshare.ValueCount{{Value: "Subscriber", Count: 1200}, {Value: "Customer", Count: 4}},
		Demographics: &bikeshare.Demographics{
			Genders: []bikeshare.ValueCount{{Value: "female", Count: 3}},
		},
	})

	got := out.String()
	assert.Contains(t, got, "Subscriber  1,200\n")
	assert.Contains(t, got, "Female")
	assert.Contains(t, got, "Birth year data not available for Chicago.")
	assert.NotContains(t, got, "Earliest Birth Year")
}

func TestRenderPage(t *testing.T) {
	trip := bikeshare.Trip{
		StartTime:       time.Date(2017, time.June, 5, 8, 0, 0, 0, time.UTC),
		DurationSeconds: 489.066,
		StartStation:    "A",
		EndStation:      "B",
		UserType:        "Subscriber",
	}

	var out bytes.Buffer
	renderPage(&out, 0, bikeshare.Page{Offset: 5, Rows: []bikeshare.Trip{trip}})
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if assert.Len(t, lines, 2) {
		assert.NotContains(t, lines[0], "Gender")
		assert.True(t, strings.HasPrefix(lines[1], "5 "))
		assert.Contains(t, lines[1], "2017-06-05 08:00:00")
		assert.Contains(t, lines[1], "489.066")
	}

	out.Reset()
	renderPage(&out, bikeshare.FieldGender|bikeshare.FieldBirthYear, bikeshare.Page{Rows: []bikeshare.Trip{trip}})
	assert.Contains(t, out.String(), "Birth Year")
}
