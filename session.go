package bikeshare

import (
	"time"
)

// Observer is told how long each session query took. It exists for timing
// output and metrics only; queries behave the same without one.
type Observer func(op string, elapsed time.Duration, err error)

type SessionOption func(*Session)

func WithObserver(observer Observer) SessionOption {
	return func(s *Session) { s.observer = observer }
}

// Session holds one city's table and the view selected by a filter. The view
// is computed once and then shared by every query.
type Session struct {
	Table  *Table
	Filter FilterSpec
	View   *View

	observer Observer
}

func NewSession(table *Table, spec FilterSpec, opts ...SessionOption) (*Session, error) {
	view, err := ApplyFilter(table, spec)
	if err != nil {
		return nil, err
	}
	s := &Session{Table: table, Filter: spec, View: view}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

const (
	OpTime     = "time"
	OpStation  = "station"
	OpDuration = "duration"
	OpUser     = "user"
	OpRows     = "rows"
)

func (s *Session) TimeStats() (TimeStats, error) {
	return observe(s, OpTime, s.View.TimeStats)
}

func (s *Session) StationStats() (StationStats, error) {
	return observe(s, OpStation, s.View.StationStats)
}

func (s *Session) DurationStats() (DurationStats, error) {
	return observe(s, OpDuration, s.View.DurationStats)
}

func (s *Session) UserStats() (UserStats, error) {
	return observe(s, OpUser, s.View.UserStats)
}

func (s *Session) RowPage(offset, size int) (Page, error) {
	return observe(s, OpRows, func() (Page, error) {
		return s.View.RowPage(offset, size)
	})
}

func observe[T any](s *Session, op string, query func() (T, error)) (T, error) {
	start := time.Now()
	result, err := query()
	if s.observer != nil {
		s.observer(op, time.Since(start), err)
	}
	return result, err
}
