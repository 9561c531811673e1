package bikeshare

import (
	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"fmt"
	"log/slog"
)

// Clip writes a copy of the database at inputPath to outputPath in which the
// table of spec.City only holds the trips matching spec. Other cities are
// copied unchanged.
func Clip(inputPath string, outputPath string, spec FilterSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("Writing a clipped copy of %s to %s (%s)", inputPath, outputPath, spec))

	table, err := Load(SQLiteSource{Path: inputPath}, spec.City)
	if err != nil {
		return err
	}
	view, err := ApplyFilter(table, spec)
	if err != nil {
		return err
	}

	inputDB, err := sqlite.OpenConn(inputPath, sqlite.SQLITE_OPEN_READONLY)
	if err != nil {
		return err
	}
	defer func() {
		if inputDB != nil {
			_ = inputDB.Close()
		}
	}()

	db, err := inputDB.BackupToDB("", outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	err = inputDB.Close()
	inputDB = nil
	if err != nil {
		return err
	}
	slog.Info("Copied input db")

	tableName := quoteIdent(string(spec.City))

	// Load reads in rowid order, so the i'th trip of the table is the i'th rowid.
	var rowids []int64
	err = sqlitex.Exec(db, "SELECT rowid FROM "+tableName+" ORDER BY rowid", func(stmt *sqlite.Stmt) error {
		rowids = append(rowids, stmt.ColumnInt64(0))
		return nil
	})
	if err != nil {
		return err
	}
	if len(rowids) != table.Len() {
		return fmt.Errorf("%s changed while clipping: %d rows, loaded %d", inputPath, len(rowids), table.Len())
	}

	if err := sqlitex.ExecTransient(db, "CREATE TABLE __bikeshare_rows_inside (row INTEGER)", sqlitexNoop); err != nil {
		return err
	}
	for _, idx := range view.indices {
		err := sqlitex.Exec(db, "INSERT INTO __bikeshare_rows_inside (row) VALUES (?)", sqlitexNoop, rowids[idx])
		if err != nil {
			return err
		}
	}
	slog.Info(fmt.Sprintf("%d of %d trips are inside", view.Len(), table.Len()))

	script := fmt.Sprintf(`
DELETE FROM %s WHERE rowid NOT IN (SELECT row FROM __bikeshare_rows_inside);

DROP TABLE __bikeshare_rows_inside;
`, tableName)
	if err := sqlitex.ExecScript(db, script); err != nil {
		return err
	}
	if _, err = validate(db, string(spec.City), table.Header, validateOpts{logLevel: slog.LevelError}); err != nil {
		return err
	}

	err = db.Close()
	db = nil
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("Wrote %s", outputPath))
	return nil
}
