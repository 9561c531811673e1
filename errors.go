package bikeshare

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyView is returned by every statistic computed over a view with no
	// rows. It is an expected outcome of a narrow filter, not a failure.
	ErrEmptyView = errors.New("no data for the selected filters")

	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidPage   = errors.New("invalid page")
)

// DataSourceError reports a city whose trip log could not be loaded. Malformed
// data wraps ErrInvalidInput; I/O failures wrap the underlying error.
type DataSourceError struct {
	City   City
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("load %s from %s: %s", e.City.Name(), e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
