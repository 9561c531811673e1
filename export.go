package bikeshare

import (
	"archive/zip"
	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"slices"
)

type ExportOpts struct {
	// Cities restricts the export. Empty means every city in the database.
	Cities []City
}

// Export writes the city tables of a database built by Import back out as
// CSV files (chicago.csv, ...) inside a zip archive.
func Export(inputPath string, outputPath string, opts *ExportOpts) error {
	if inputPath == "" {
		panic("Missing inputPath")
	}
	if outputPath == "" {
		panic("Missing outputPath")
	}

	if opts == nil {
		opts = &ExportOpts{}
	}

	slog.Info(fmt.Sprintf("Exporting %s to %s", inputPath, outputPath))

	db, err := sqlite.OpenConn(inputPath, sqlite.SQLITE_OPEN_READONLY)
	if err != nil {
		return err
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	outputF, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	outputZip := zip.NewWriter(outputF)
	defer func() {
		_ = outputZip.Close()
		_ = outputF.Close()
	}()

	cities, err := importedCities(db)
	if err != nil {
		return err
	}

	for _, city := range cities {
		if len(opts.Cities) > 0 && !slices.Contains(opts.Cities, city) {
			continue
		}
		if err := exportTableIn(db, outputZip, city); err != nil {
			return err
		}
	}

	if err := outputZip.Close(); err != nil {
		return err
	}
	if err := outputF.Close(); err != nil {
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

// importedCities lists the cities that have a table in db, in Cities order.
func importedCities(db *sqlite.Conn) ([]City, error) {
	tables := make(map[string]bool)
	err := sqlitex.Exec(db, "SELECT name FROM sqlite_master WHERE type = 'table'", func(stmt *sqlite.Stmt) error {
		tables[stmt.GetText("name")] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	var cities []City
	for _, city := range Cities {
		if tables[string(city)] {
			cities = append(cities, city)
		}
	}
	return cities, nil
}

func exportTableIn(db *sqlite.Conn, outputZip *zip.Writer, city City) error {
	outputName := city.FileName()
	outputF, err := outputZip.Create(outputName)
	if err != nil {
		return err
	}
	outputCSV := csv.NewWriter(outputF)
	defer func() {
		outputCSV.Flush()
	}()

	rowCount := 0

	var cols []string
	err = sqlitex.Exec(db, "SELECT name FROM pragma_table_info(?)", func(stmt *sqlite.Stmt) error {
		cols = append(cols, stmt.GetText("name"))
		return nil
	}, string(city))
	if err != nil {
		return err
	}
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = headerName(col)
	}
	if err := outputCSV.Write(header); err != nil {
		return err
	}

	err = sqlitex.Exec(db, "SELECT * FROM "+quoteIdent(string(city))+" ORDER BY rowid", func(stmt *sqlite.Stmt) error {
		row := make([]string, len(cols))
		for i := range cols {
			row[i] = stmt.ColumnText(i)
		}
		if err := outputCSV.Write(row); err != nil {
			return err
		}
		rowCount++
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info(fmt.Sprintf("Wrote %d rows to %s", rowCount, outputName))

	outputCSV.Flush()
	return outputCSV.Error()
}
