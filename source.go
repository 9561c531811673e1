package bikeshare

import (
	"encoding/csv"
	"os"
	"path/filepath"
)

// RowReader yields the rows of one city's trip log, header first. A
// *csv.Reader paired with its file satisfies it.
type RowReader interface {
	Read() ([]string, error)
	Close() error
}

// A Source knows where each city's trip log lives.
type Source interface {
	Open(city City) (RowReader, error)
	// Location describes where Open reads from, for error messages.
	Location(city City) string
}

// CSVSource reads <Dir>/<city file name>, e.g. data/chicago.csv.
type CSVSource struct {
	Dir string
}

func (s CSVSource) Location(city City) string {
	return filepath.Join(s.Dir, city.FileName())
}

func (s CSVSource) Open(city City) (RowReader, error) {
	f, err := os.Open(s.Location(city))
	if err != nil {
		return nil, err
	}
	return &csvRows{Reader: csv.NewReader(f), f: f}, nil
}

type csvRows struct {
	*csv.Reader
	f *os.File
}

func (r *csvRows) Close() error { return r.f.Close() }
