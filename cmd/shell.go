package main

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/dzfranklin/bikeshare"
	"io"
	"strings"
	"time"
)

const rule = "----------------------------------------"

// presets answer the filter questions up front, from command line flags.
type presets struct {
	city, month, day string
}

// shell is the interactive prompt. It only ever hands the library a spec
// built from ParseCity, ParseMonth and ParseDay.
type shell struct {
	in       *bufio.Scanner
	out      io.Writer
	src      bikeshare.Source
	pageSize int
	metrics  bikeshare.Observer

	session     *bikeshare.Session
	lastElapsed time.Duration
}

func newShell(in io.Reader, out io.Writer, src bikeshare.Source, pageSize int) *shell {
	return &shell{
		in:       bufio.NewScanner(in),
		out:      out,
		src:      src,
		pageSize: pageSize,
	}
}

// run asks for filters, loads the city and answers commands until "esc". It
// returns io.EOF if the input ends first.
func (s *shell) run(p presets) error {
	s.println("Hello! Let's explore some US bikeshare data!")

	spec, err := s.askFilters(p)
	if err != nil {
		return err
	}

	table, err := bikeshare.Load(s.src, spec.City)
	if err != nil {
		return err
	}
	s.session, err = bikeshare.NewSession(table, spec, bikeshare.WithObserver(s.observe))
	if err != nil {
		return err
	}

	for {
		s.println("\nType \"m\" for menu.")
		command, err := s.readLine()
		if err != nil {
			return err
		}
		switch command {
		case "m":
			s.println("\nTo view a sample of the data frame, type \"df\"\n" +
				"To view current filters, type \"Filters\"\n" +
				"To view Time stats, type \"Time\"\n" +
				"To view station stats, type \"station\"\n" +
				"To view trip duration stats, type \"Trip\"\n" +
				"To view User stats, type \"User\"\n" +
				"To exit the program, type \"esc\"")
			s.println(rule)
		case "filters":
			renderFilters(s.out, s.session.Filter)
			s.println(rule)
		case "df":
			if err := s.viewRows(); err != nil {
				return err
			}
		case "time":
			s.println("\nCalculating The Most Frequent Times of Travel...\n")
			stats, err := s.session.TimeStats()
			s.report(err, func() { renderTimeStats(s.out, stats) })
		case "station":
			s.println("\nCalculating The Most Popular Stations and Trip...\n")
			stats, err := s.session.StationStats()
			s.report(err, func() { renderStationStats(s.out, stats) })
		case "trip":
			s.println("\nCalculating Trip Duration...\n")
			stats, err := s.session.DurationStats()
			s.report(err, func() { renderDurationStats(s.out, stats) })
		case "user":
			s.println("\nCalculating User Stats...\n")
			stats, err := s.session.UserStats()
			s.report(err, func() { renderUserStats(s.out, s.session.Table.City, stats) })
		case "esc":
			s.println("\nClosing Program...\n")
			return nil
		default:
			s.println("\nInvalid Input")
		}
	}
}

func (s *shell) askFilters(p presets) (bikeshare.FilterSpec, error) {
	spec := bikeshare.FilterSpec{Month: bikeshare.MonthAll, Day: bikeshare.DayAll}

	city, err := askParsed(s, p.city,
		"Would you like to see data for Chicago, New York, or Washington?",
		"\nInvalid Input. Please choose Chicago, New York, or Washington (Case Insensitive)",
		bikeshare.ParseCity)
	if err != nil {
		return spec, err
	}
	spec.City = city
	s.println("\nYou have selected", city.Name())

	filterMonth := p.month != ""
	if !filterMonth {
		filterMonth, err = s.askYesNo("Would you like to filter data by month? Enter \"Y\" or \"N\"")
		if err != nil {
			return spec, err
		}
	}
	if filterMonth {
		spec.Month, err = askParsed(s, p.month,
			"\nPlease select a Month to filter. Data is available for January-June.",
			"\nInvalid Input. Please choose a month between January and June. You may also type \"all\" to select all months.",
			bikeshare.ParseMonth)
		if err != nil {
			return spec, err
		}
	}
	s.println("\nYou have selected", spec.Month)

	filterDay := p.day != ""
	if !filterDay {
		filterDay, err = s.askYesNo("Would you like to filter data by Day of the Week? Please enter \"Y\" for Yes and \"N\" for No")
		if err != nil {
			return spec, err
		}
	}
	if filterDay {
		spec.Day, err = askParsed(s, p.day,
			"\nPlease select a Day (Monday-Sunday) to filter.",
			"\nInvalid Input. Please input a Day of the Week. You may also type \"all\" to select all days.",
			bikeshare.ParseDay)
		if err != nil {
			return spec, err
		}
	}
	s.println("\nYou have selected", spec.Day)
	s.println(rule)

	return spec, spec.Validate()
}

// askParsed prompts until parse accepts a line. A preset answer is used
// without prompting when it parses.
func askParsed[T any](s *shell, preset, prompt, invalid string, parse func(string) (T, error)) (T, error) {
	if preset != "" {
		if v, err := parse(preset); err == nil {
			return v, nil
		}
		s.println(invalid)
	} else {
		s.println(prompt)
	}
	for {
		line, err := s.readLine()
		if err != nil {
			var zero T
			return zero, err
		}
		if v, err := parse(line); err == nil {
			return v, nil
		}
		s.println(invalid)
	}
}

func (s *shell) askYesNo(prompt string) (bool, error) {
	s.println(prompt)
	for {
		line, err := s.readLine()
		if err != nil {
			return false, err
		}
		switch line {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		s.println("\nInvalid Input. Please enter \"Y\" for Yes and \"N\" for No")
	}
}

func (s *shell) viewRows() error {
	for offset := 0; ; offset += s.pageSize {
		page, err := s.session.RowPage(offset, s.pageSize)
		if err != nil {
			return err
		}
		renderPage(s.out, s.session.View.Fields(), page)
		if !page.HasMore {
			s.println("\nEnd of data.")
			break
		}
		more, err := s.askYesNo(fmt.Sprintf("\nWould you like to view the next %d rows? Type \"Y\" for Yes and \"N\" for No", s.pageSize))
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	s.println(rule)
	return nil
}

// report prints a statistic, or the reason there is none, followed by how
// long it took.
func (s *shell) report(err error, render func()) {
	switch {
	case errors.Is(err, bikeshare.ErrEmptyView):
		s.println("No data for the selected filters.")
	case err != nil:
		s.println("Error:", err)
	default:
		render()
	}
	s.println(fmt.Sprintf("\nThis took %s seconds.", formatSeconds(s.lastElapsed)))
	s.println(rule)
}

func (s *shell) observe(op string, elapsed time.Duration, err error) {
	s.lastElapsed = elapsed
	if s.metrics != nil {
		s.metrics(op, elapsed, err)
	}
}

func (s *shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.ToLower(strings.TrimSpace(s.in.Text())), nil
}

func (s *shell) println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}
