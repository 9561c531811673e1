package bikeshare

import (
	"context"
	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

type validateOpts struct {
	force    bool
	ignore   bool
	logLevel slog.Level
}

// validate checks an imported trip table the way Load will read it: required
// columns present and every row's times and duration parseable. With force,
// offending rows are deleted; missing columns cannot be fixed that way.
func validate(db *sqlite.Conn, table string, header []string, opts validateOpts) ([]string, error) {
	v := &rowValidator{db: db, table: table, header: header, opts: opts}

	slog.Info("Validating")

	if missing := missingColumns(header); len(missing) > 0 {
		for _, column := range missing {
			v.append("%s is missing required column %s", table, column)
		}
		if opts.ignore {
			return v.issues, nil
		}
		return v.issues, ErrInvalidInput
	}

	for {
		if err := v.validateRows(); err != nil {
			return nil, err
		}
		if len(v.toDelete) == 0 {
			break
		}

		query := fmt.Sprintf("DELETE FROM %s WHERE rowid = ?", quoteIdent(table))
		for _, rowid := range v.toDelete {
			if err := sqlitex.Exec(db, query, sqlitexNoop, rowid); err != nil {
				return nil, err
			}
		}
		slog.Info(fmt.Sprintf("Re-validating after force deleting %d row(s)", len(v.toDelete)))
		v.toDelete = nil
		v.pass++
	}

	if len(v.issues) > 0 {
		if opts.force || opts.ignore {
			return v.issues, nil
		} else {
			return v.issues, ErrInvalidInput
		}
	}
	return nil, nil
}

type rowValidator struct {
	db       *sqlite.Conn
	table    string
	header   []string
	opts     validateOpts
	issues   []string
	pass     int
	toDelete []int64 // rowid
}

func (v *rowValidator) append(msg string, args ...any) {
	issue := fmt.Sprintf(msg, args...)
	slog.Log(context.Background(), v.opts.logLevel, issue)
	v.issues = append(v.issues, issue)
}

func (v *rowValidator) validateRows() error {
	columns := []string{colStartTime}
	for _, column := range []string{colEndTime, colTripDuration, colBirthYear} {
		if slices.Contains(v.header, column) {
			columns = append(columns, column)
		}
	}
	var selected []string
	for _, column := range columns {
		selected = append(selected, quoteIdent(column))
	}
	query := fmt.Sprintf("SELECT rowid, %s FROM %s ORDER BY rowid", strings.Join(selected, ", "), quoteIdent(v.table))

	return sqlitex.Exec(v.db, query, func(stmt *sqlite.Stmt) error {
		rowid := stmt.ColumnInt64(0)
		values := make(map[string]string, len(columns))
		for i, column := range columns {
			values[column] = stmt.ColumnText(i + 1)
		}

		problem := rowProblem(columns, values)
		if problem == "" {
			return nil
		}

		if v.pass == 0 {
			v.append("row %d of %s: %s", rowid, v.table, problem)
		}

		if v.opts.force {
			v.toDelete = append(v.toDelete, rowid)
		}

		return nil
	})
}

// rowProblem describes why Load would reject a row, or returns "".
func rowProblem(columns []string, values map[string]string) string {
	for _, column := range columns {
		value := values[column]
		if value == "" && column != colStartTime {
			continue
		}
		if err := tripSchema[column].Kind.check(value); err != nil {
			return fmt.Sprintf("%s %q is not a %s", column, value, tripSchema[column].Kind)
		}
	}
	if values[colTripDuration] == "" && values[colEndTime] == "" {
		return fmt.Sprintf("no %s or %s", colTripDuration, colEndTime)
	}
	return ""
}
