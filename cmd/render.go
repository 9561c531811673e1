package main

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/dzfranklin/bikeshare"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

var title = cases.Title(language.English)

func renderFilters(w io.Writer, spec bikeshare.FilterSpec) {
	fmt.Fprintf(w, "\nCurrent Filters:\nCity: %s\nMonth: %s\nWeekday: %s\n", spec.City.Name(), spec.Month, spec.Day)
}

func renderTimeStats(w io.Writer, stats bikeshare.TimeStats) {
	fmt.Fprintln(w, "Most frequently traveled Month:", stats.MostFrequentMonth)
	fmt.Fprintln(w, "Most frequently traveled weekday:", stats.MostFrequentWeekday)
}

func renderStationStats(w io.Writer, stats bikeshare.StationStats) {
	fmt.Fprintln(w, "Most frequent Start Station:", stats.MostFrequentStart)
	fmt.Fprintln(w, "Most frequent End Station:", stats.MostFrequentEnd)
	fmt.Fprintln(w, "Most frequent Route:", stats.MostFrequentRoute)
}

func renderDurationStats(w io.Writer, stats bikeshare.DurationStats) {
	fmt.Fprintln(w, "Total Trip Time:", humanize.Commaf(stats.TotalSeconds), "seconds")
	fmt.Fprintln(w, "Average Trip Time:", humanize.Comma(stats.AverageSeconds), "seconds")
}

func renderUserStats(w io.Writer, city bikeshare.City, stats bikeshare.UserStats) {
	fmt.Fprintln(w, "Count of Users by Type:")
	renderCounts(w, stats.Types)

	if stats.Demographics == nil {
		fmt.Fprintf(w, "\nGender and birth year data not available for %s.\n", city.Name())
		return
	}
	if stats.Demographics.Genders != nil {
		fmt.Fprintln(w, "\nCount of Users by Gender:")
		renderCounts(w, stats.Demographics.Genders)
	} else {
		fmt.Fprintf(w, "\nGender data not available for %s.\n", city.Name())
	}
	if years := stats.Demographics.BirthYears; years != nil {
		fmt.Fprintln(w, "\nEarliest Birth Year:", years.Earliest)
		fmt.Fprintln(w, "Most Recent Birth Year:", years.MostRecent)
		fmt.Fprintln(w, "Most Common Birth Year:", years.MostCommon)
	} else {
		fmt.Fprintf(w, "\nBirth year data not available for %s.\n", city.Name())
	}
}

func renderCounts(w io.Writer, counts []bikeshare.ValueCount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%s\t\n", title.String(c.Value), humanize.Comma(int64(c.Count)))
	}
	_ = tw.Flush()
}

func renderPage(w io.Writer, fields bikeshare.Fields, page bikeshare.Page) {
	if len(page.Rows) == 0 {
		fmt.Fprintln(w, "No rows.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "\tStart Time\tEnd Time\tTrip Duration\tStart Station\tEnd Station\tUser Type")
	if fields.Has(bikeshare.FieldGender) {
		fmt.Fprint(tw, "\tGender")
	}
	if fields.Has(bikeshare.FieldBirthYear) {
		fmt.Fprint(tw, "\tBirth Year")
	}
	fmt.Fprintln(tw)

	for i, trip := range page.Rows {
		end := ""
		if !trip.EndTime.IsZero() {
			end = trip.EndTime.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s",
			page.Offset+i,
			trip.StartTime.Format("2006-01-02 15:04:05"),
			end,
			strconv.FormatFloat(trip.DurationSeconds, 'f', -1, 64),
			trip.StartStation,
			trip.EndStation,
			trip.UserType)
		if fields.Has(bikeshare.FieldGender) {
			fmt.Fprintf(tw, "\t%s", trip.Gender)
		}
		if fields.Has(bikeshare.FieldBirthYear) {
			year := ""
			if trip.HasBirthYear {
				year = strconv.FormatFloat(trip.BirthYear, 'f', -1, 64)
			}
			fmt.Fprintf(tw, "\t%s", year)
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// printTimings prints the --metrics summary gathered from reg.
func printTimings(w io.Writer, reg prometheus.Gatherer) {
	timings, err := bikeshare.QueryTimings(reg)
	if err != nil {
		fmt.Fprintln(w, "Error reading metrics:", err)
		return
	}
	if len(timings) == 0 {
		return
	}
	fmt.Fprintln(w, "\nQuery timings:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "op\toutcome\tcount\ttotal")
	for _, t := range timings {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.Op, t.Outcome, t.Count, t.Total)
	}
	_ = tw.Flush()
}
