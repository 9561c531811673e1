package bikeshare

import (
	"crawshaw.io/sqlite"
	"fmt"
	"io"
)

// SQLiteSource reads trip logs from a database written by Import, where each
// city is a table named after its id.
type SQLiteSource struct {
	Path string
}

func (s SQLiteSource) Location(city City) string {
	return fmt.Sprintf("%s (table %s)", s.Path, string(city))
}

func (s SQLiteSource) Open(city City) (RowReader, error) {
	conn, err := sqlite.OpenConn(s.Path, sqlite.SQLITE_OPEN_READONLY)
	if err != nil {
		return nil, err
	}
	stmt, _, err := conn.PrepareTransient("SELECT * FROM " + quoteIdent(string(city)) + " ORDER BY rowid")
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &sqliteRows{conn: conn, stmt: stmt}, nil
}

type sqliteRows struct {
	conn       *sqlite.Conn
	stmt       *sqlite.Stmt
	headerRead bool
}

func (r *sqliteRows) Read() ([]string, error) {
	if !r.headerRead {
		r.headerRead = true
		header := make([]string, r.stmt.ColumnCount())
		for i := range header {
			header[i] = headerName(r.stmt.ColumnName(i))
		}
		return header, nil
	}

	hasRow, err := r.stmt.Step()
	if err != nil {
		return nil, err
	}
	if !hasRow {
		return nil, io.EOF
	}
	row := make([]string, r.stmt.ColumnCount())
	for i := range row {
		row[i] = r.stmt.ColumnText(i)
	}
	return row, nil
}

func (r *sqliteRows) Close() error {
	_ = r.stmt.Finalize()
	return r.conn.Close()
}
