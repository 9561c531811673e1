package main

import (
	"errors"
	"fmt"
	"github.com/dzfranklin/bikeshare"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
)

func usageAndDie() {
	fmt.Println("Example usage:\n" +
		"    bikeshare [--city chicago] [--month june] [--day all]\n" +
		"    bikeshare --import <chicago.csv> [--city chicago] [--out bikeshare.db]\n" +
		"    bikeshare --export <bikeshare.db>\n" +
		"    bikeshare --clip <bikeshare.db> --city chicago --month june --day monday")
	os.Exit(1)
}

func main() {
	importPath := pflag.StringP("import", "i", "", "Import a city CSV into a source database")
	exportPath := pflag.StringP("export", "e", "", "Export a source database to a zip of city CSVs")
	clipPath := pflag.String("clip", "", "Write a copy of a source database holding only trips matching --city/--month/--day")
	primaryOptions := []*string{importPath, exportPath, clipPath}

	output := pflag.StringP("out", "o", "", "Path to write output to")
	forceMode := pflag.BoolP("force-valid", "f", false, "Whether to fix issues by deleting rows during import")
	ignoreInvalidMode := pflag.Bool("ignore-invalid", false, "Ignore any issues during import")

	cityName := pflag.StringP("city", "c", "", "City to explore: chicago, new york city or washington")
	monthName := pflag.StringP("month", "m", "", "Month to filter by (january to june, or all)")
	dayName := pflag.StringP("day", "d", "", "Day of week to filter by (monday to sunday, or all)")
	source := pflag.String("source", "", "Where to read trips from: csv or sqlite")
	dataDir := pflag.String("data-dir", "", "Directory holding chicago.csv, new_york_city.csv and washington.csv")
	dbPath := pflag.String("db", "", "Source database for --source sqlite")
	showMetrics := pflag.Bool("metrics", false, "Print a summary of query timings on exit")
	envFile := pflag.String("env-file", ".env", "Optional file of BIKESHARE_* settings")

	pflag.Parse()

	primaryCount := 0
	for _, opt := range primaryOptions {
		if *opt != "" {
			primaryCount++
		}
	}
	if primaryCount > 1 {
		usageAndDie()
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	if *source != "" {
		cfg.Source = *source
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *dbPath != "" {
		cfg.DB = *dbPath
	}
	if err := cfg.validate(); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel()})))

	if *importPath != "" {
		city, err := importCity(*importPath, *cityName)
		if err != nil {
			fmt.Printf("Error: %s\n", err)
			os.Exit(1)
		}
		outputPath := *output
		if outputPath == "" {
			outputPath = cfg.DB
		}
		opts := &bikeshare.ImportOpts{
			ForceValid:    *forceMode,
			IgnoreInvalid: *ignoreInvalidMode,
		}
		_, err = bikeshare.Import(*importPath, outputPath, city, opts)
		exitWith(err)
	} else if *exportPath != "" {
		outputPath := outputPathOrDefault(*exportPath, *output, ".db", ".zip")
		err = bikeshare.Export(*exportPath, outputPath, nil)
		exitWith(err)
	} else if *clipPath != "" {
		if *cityName == "" {
			usageAndDie()
		}
		spec, err := parseFilterSpec(*cityName, *monthName, *dayName)
		if err != nil {
			fmt.Printf("Error: %s\n", err)
			os.Exit(1)
		}
		suffix := fmt.Sprintf("_%s_%s_%s.db", spec.City, strings.ToLower(spec.Month.String()), strings.ToLower(spec.Day.String()))
		outputPath := outputPathOrDefault(*clipPath, *output, ".db", suffix)
		err = bikeshare.Clip(*clipPath, outputPath, spec)
		exitWith(err)
	}

	sh := newShell(os.Stdin, os.Stdout, cfg.source(), cfg.PageSize)
	reg := prometheus.NewRegistry()
	if *showMetrics {
		sh.metrics, err = bikeshare.NewMetricsObserver(reg)
		if err != nil {
			panic(err)
		}
	}

	err = sh.run(presets{city: *cityName, month: *monthName, day: *dayName})
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if *showMetrics {
		printTimings(os.Stdout, reg)
	}
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}

func exitWith(err error) {
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println("All done")
	os.Exit(0)
}

// importCity picks the city of an import from --city, or from the file name
// when it follows the chicago.csv naming.
func importCity(inputPath string, cityName string) (bikeshare.City, error) {
	if cityName == "" {
		cityName = strings.ReplaceAll(trimFileExt(path.Base(inputPath)), "_", " ")
	}
	return bikeshare.ParseCity(cityName)
}

func parseFilterSpec(cityName, monthName, dayName string) (bikeshare.FilterSpec, error) {
	spec := bikeshare.FilterSpec{Month: bikeshare.MonthAll, Day: bikeshare.DayAll}
	var err error
	if spec.City, err = bikeshare.ParseCity(cityName); err != nil {
		return spec, err
	}
	if monthName != "" {
		if spec.Month, err = bikeshare.ParseMonth(monthName); err != nil {
			return spec, err
		}
	}
	if dayName != "" {
		if spec.Day, err = bikeshare.ParseDay(dayName); err != nil {
			return spec, err
		}
	}
	return spec, spec.Validate()
}

func outputPathOrDefault(inputPath string, outputPath string, suffixToTrim string, newSuffix string) string {
	if outputPath != "" {
		return outputPath
	}
	inputPath = path.Clean(inputPath)
	return strings.TrimSuffix(path.Base(inputPath), suffixToTrim) + newSuffix
}

func trimFileExt(name string) string {
	i := strings.LastIndex(name, ".")
	if i == -1 {
		return name
	} else {
		return name[:i]
	}
}
