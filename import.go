package bikeshare

import (
	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ImportOpts struct {
	ForceValid    bool
	IgnoreInvalid bool
}

var importPragmas = map[string]string{
	"synchronous": "OFF",
}

// Import copies the trip log at inputPath into the table named after city in
// the SQLite database at outputPath, replacing any previous import of the
// same city. Other cities already in the database are kept, so one database
// can hold every city. The returned issues describe rows that failed
// validation.
func Import(inputPath string, outputPath string, city City, opts *ImportOpts) ([]string, error) {
	if inputPath == "" {
		panic("Missing inputPath")
	}
	if outputPath == "" {
		panic("Missing outputPath")
	}
	if !city.Valid() {
		return nil, fmt.Errorf("%w: unknown city %q", ErrInvalidInput, city)
	}

	if opts == nil {
		opts = &ImportOpts{}
	}

	slog.Info(fmt.Sprintf("Importing %s (%s) to %s", inputPath, city.Name(), outputPath))

	inputF, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = inputF.Close() }()

	db, err := sqlite.OpenConn(outputPath, 0)
	if err != nil {
		return nil, err
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	for pragma, value := range importPragmas {
		err = sqlitex.Exec(db, "PRAGMA "+pragma+" = "+value, sqlitexNoop)
		if err != nil {
			return nil, err
		}
	}

	header, err := importTrips(db, csv.NewReader(inputF), string(city))
	if err != nil {
		return nil, err
	}

	var validationLogLevel slog.Level
	if opts.ForceValid || opts.IgnoreInvalid {
		validationLogLevel = slog.LevelWarn
	} else {
		validationLogLevel = slog.LevelError
	}

	validationErrors, err := validate(db, string(city), header, validateOpts{
		force:    opts.ForceValid,
		ignore:   opts.IgnoreInvalid,
		logLevel: validationLogLevel,
	})
	if err != nil {
		return validationErrors, err
	}

	err = db.Close()
	db = nil
	if err != nil {
		return nil, err
	}

	slog.Info(fmt.Sprintf("Wrote %s", outputPath))
	return validationErrors, nil
}

// importTrips replaces table with the rows of inputCSV inside one savepoint
// and returns the CSV header.
func importTrips(db *sqlite.Conn, inputCSV *csv.Reader, table string) (header []string, err error) {
	defer sqlitex.Save(db)(&err)

	// Header

	header, err = inputCSV.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", ErrInvalidInput)
	} else if err != nil {
		return nil, err
	}
	slog.Info(fmt.Sprintf("Importing %s: %s", table, strings.Join(header, ",")))

	columns := make([]string, len(header))
	var columnFragments []string
	for i, name := range header {
		columns[i] = quoteIdent(columnName(name, i))
		columnFragments = append(columnFragments, columns[i]+" TEXT")
	}

	if err := sqlitex.ExecTransient(db, "DROP TABLE IF EXISTS "+quoteIdent(table), sqlitexNoop); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(columnFragments, ", "))
	if err := sqlitex.ExecTransient(db, query, sqlitexNoop); err != nil {
		return nil, err
	}

	var argFragments []string
	for i := range header {
		argFragments = append(argFragments, fmt.Sprintf("?%d", i+1))
	}
	query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(columns, ", "), strings.Join(argFragments, ", "))
	insertStmt, err := db.Prepare(query)
	if err != nil {
		return nil, err
	}

	// Rows

	inputCSV.FieldsPerRecord = -1 // Allow variable numbers of fields

	rowCount := 0
	for {
		row, err := inputCSV.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		err = insertStmt.Reset()
		if err != nil {
			return nil, err
		}
		err = insertStmt.ClearBindings()
		if err != nil {
			return nil, err
		}

		for i, v := range row {
			if i >= len(header) {
				break
			}
			param := i + 1
			if v == "" {
				insertStmt.BindNull(param)
			} else {
				insertStmt.BindText(param, v)
			}
		}

		for {
			rowReturned, err := insertStmt.Step()
			if err != nil {
				return nil, err
			}
			if !rowReturned {
				break
			}
		}

		rowCount++
	}
	slog.Info(fmt.Sprintf("Wrote %d rows", rowCount))

	return header, nil
}

const unnamedColumnPrefix = "__bikeshare_unnamed_"

// columnName names the SQLite column for a CSV header cell. Washington's log
// starts with an index column whose header is empty.
func columnName(header string, i int) string {
	if header == "" {
		return fmt.Sprintf("%s%d", unnamedColumnPrefix, i)
	}
	return header
}

// headerName reverses columnName.
func headerName(column string) string {
	if strings.HasPrefix(column, unnamedColumnPrefix) {
		return ""
	}
	return column
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
