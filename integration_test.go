package bikeshare

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
)

func TestConcurrent(t *testing.T) {
	outDir := testTempdir(t)
	var wg sync.WaitGroup
	for i := range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			outputPath := fmt.Sprintf("%s/%d.db", outDir, i)

			_, err := Import("./sample_data/chicago.csv", outputPath, Chicago, nil)
			require.NoError(t, err)

			err = Export(outputPath, fmt.Sprintf("%s/%d.zip", outDir, i), nil)
			require.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestStableOutput(t *testing.T) {
	for _, city := range Cities {
		t.Run(string(city), func(t *testing.T) {
			outDir := testTempdir(t)

			_, err := Import("./sample_data/"+city.FileName(), outDir+"/imported.db", city, nil)
			require.NoError(t, err, "import")

			err = Export(outDir+"/imported.db", outDir+"/exported.zip", nil)
			require.NoError(t, err, "export")

			assertExportEqual(t, map[string]string{
				city.FileName(): "./sample_data/" + city.FileName(),
			}, outDir+"/exported.zip")
		})
	}
}

func TestExportSelectedCities(t *testing.T) {
	outDir := testTempdir(t)
	for _, city := range Cities {
		_, err := Import("./sample_data/"+city.FileName(), outDir+"/imported.db", city, nil)
		require.NoError(t, err, "import")
	}

	err := Export(outDir+"/imported.db", outDir+"/all.zip", nil)
	require.NoError(t, err, "export")
	assertExportEqual(t, map[string]string{
		"chicago.csv":       "./sample_data/chicago.csv",
		"new_york_city.csv": "./sample_data/new_york_city.csv",
		"washington.csv":    "./sample_data/washington.csv",
	}, outDir+"/all.zip")

	err = Export(outDir+"/imported.db", outDir+"/washington.zip", &ExportOpts{Cities: []City{Washington}})
	require.NoError(t, err, "export")
	assertExportEqual(t, map[string]string{
		"washington.csv": "./sample_data/washington.csv",
	}, outDir+"/washington.zip")
}

func TestSQLiteSourceMatchesCSV(t *testing.T) {
	outDir := testTempdir(t)
	for _, city := range Cities {
		_, err := Import("./sample_data/"+city.FileName(), outDir+"/imported.db", city, nil)
		require.NoError(t, err, "import")
	}

	for _, city := range Cities {
		fromCSV, err := Load(CSVSource{Dir: "./sample_data"}, city)
		require.NoError(t, err)
		fromDB, err := Load(SQLiteSource{Path: outDir + "/imported.db"}, city)
		require.NoError(t, err)
		assert.Equal(t, fromCSV, fromDB, city)
	}
}

func TestSQLiteSourceMissingCity(t *testing.T) {
	outDir := testTempdir(t)
	_, err := Import("./sample_data/chicago.csv", outDir+"/imported.db", Chicago, nil)
	require.NoError(t, err)

	_, err = Load(SQLiteSource{Path: outDir + "/imported.db"}, Washington)
	var sourceErr *DataSourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, Washington, sourceErr.City)
	assert.Equal(t, outDir+"/imported.db (table washington)", sourceErr.Source)
}

func TestClip(t *testing.T) {
	outDir := testTempdir(t)

	for _, city := range []City{Chicago, Washington} {
		_, err := Import("./sample_data/"+city.FileName(), outDir+"/imported.db", city, nil)
		require.NoError(t, err, "import")
	}

	spec := FilterSpec{City: Chicago, Month: June, Day: Monday}
	err := Clip(outDir+"/imported.db", outDir+"/clipped.db", spec)
	require.NoError(t, err)

	err = Export(outDir+"/clipped.db", outDir+"/exported.zip", nil)
	require.NoError(t, err, "export")

	assertExportEqual(t, map[string]string{
		"chicago.csv":    "./sample_data/chicago_june_monday.csv",
		"washington.csv": "./sample_data/washington.csv",
	}, outDir+"/exported.zip")

	// Clipping is idempotent: the clipped table already matches spec.
	err = Clip(outDir+"/clipped.db", outDir+"/clipped_twice.db", spec)
	require.NoError(t, err)
	table, err := Load(SQLiteSource{Path: outDir + "/clipped_twice.db"}, Chicago)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestClipInvalidSpec(t *testing.T) {
	outDir := testTempdir(t)
	err := Clip(outDir+"/missing.db", outDir+"/clipped.db", FilterSpec{City: Chicago, Month: 9, Day: DayAll})
	require.ErrorIs(t, err, ErrInvalidFilter)
}

// assertExportEqual compares the CSV files inside the zip at actual with the
// expected CSV files, keyed by entry name.
func assertExportEqual(t *testing.T, expected map[string]string, actual string) {
	t.Helper()

	actualZip, err := zip.OpenReader(actual)
	if err != nil {
		panic(err)
	}
	defer func() { _ = actualZip.Close() }()

	expectedFiles := slices.Sorted(maps.Keys(expected))
	var actualFiles []string
	for _, entry := range actualZip.File {
		actualFiles = append(actualFiles, entry.Name)
	}
	slices.Sort(actualFiles)

	var out strings.Builder

	for _, name := range actualFiles {
		if !slices.Contains(expectedFiles, name) {
			t.Fail()
			fmt.Fprintf(&out, "ADDED FILE %s\n", name)
		}
	}
	for _, name := range expectedFiles {
		if !slices.Contains(actualFiles, name) {
			t.Fail()
			fmt.Fprintf(&out, "REMOVED FILE %s\n", name)
		}
	}

	for _, file := range expectedFiles {
		if !slices.Contains(actualFiles, file) {
			continue
		}
		expectedF, err := os.Open(expected[file])
		if err != nil {
			panic(err)
		}
		actualF, err := actualZip.Open(file)
		if err != nil {
			panic(err)
		}

		expectedContent, err := normalizeCSV(expectedF)
		if err != nil {
			panic(err)
		}
		actualContent, err := normalizeCSV(actualF)
		if err != nil {
			panic(err)
		}
		_ = expectedF.Close()
		_ = actualF.Close()

		edits := myers.ComputeEdits(span.URIFromPath(file), string(expectedContent), string(actualContent))
		if len(edits) > 0 {
			t.Fail()
			fmt.Fprint(&out, gotextdiff.ToUnified("expected/"+file, "actual/"+file, string(expectedContent), edits))
		}
	}

	if out.Len() > 0 {
		t.Log(actual, "differs from expected\n", out.String())
	}
}

// normalizeCSV rewrites a CSV with its columns sorted by name so that column
// order does not affect comparisons.
func normalizeCSV(input io.Reader) ([]byte, error) {
	r := csv.NewReader(input)
	r.FieldsPerRecord = -1

	var out bytes.Buffer
	w := csv.NewWriter(&out)

	srcHeader, err := r.Read()
	if err != nil {
		return nil, err
	}

	headerOccurrences := make(map[string]int)
	for _, col := range srcHeader {
		headerOccurrences[col]++
	}
	for _, count := range headerOccurrences {
		if count > 1 {
			return nil, errors.New("normalizeCSV doesn't currently support duplicated column names")
		}
	}

	header := slices.Clone(srcHeader)
	slices.Sort(header)

	headerSort := make([]int, len(srcHeader))
	for srcI, col := range srcHeader {
		headerSort[srcI] = slices.Index(header, col)
	}

	if err := w.Write(header); err != nil {
		return nil, err
	}

	for {
		srcRow, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		row := make([]string, len(header))
		for srcI := range srcRow {
			if srcI < len(headerSort) {
				row[headerSort[srcI]] = srcRow[srcI]
			}
		}

		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return out.Bytes(), w.Error()
}

func TestHelperNormalizeCSV(t *testing.T) {
	sample := "a,c,b\n1,3,2\n1,0,1"
	expected := "a,b,c\n1,2,3\n1,1,0\n"

	got, err := normalizeCSV(bytes.NewReader([]byte(sample)))
	require.NoError(t, err)
	assert.Equal(t, expected, string(got))
}
