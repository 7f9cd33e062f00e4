package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VenkatGGG/flight-scraper/internal/config"
	"github.com/VenkatGGG/flight-scraper/internal/flight"
	"github.com/VenkatGGG/flight-scraper/internal/logger"
	"github.com/VenkatGGG/flight-scraper/internal/report"
	"github.com/VenkatGGG/flight-scraper/internal/scrape"
)

type stubSearcher struct {
	result scrape.Result
	query  flight.Query
	calls  int
}

func (s *stubSearcher) Search(_ context.Context, query flight.Query) scrape.Result {
	s.calls++
	s.query = query
	return s.result
}

func testDeps(cfg config.Config, stub *stubSearcher) deps {
	return deps{
		loadConfig: func() config.Config { return cfg },
		newLogger: func(config.Config) (logger.Logger, error) {
			return logger.NewNop(), nil
		},
		newSearcher: func(config.Config, logger.Logger) (searcher, error) {
			return stub, nil
		},
	}
}

func TestRunRejectsWrongArgumentCount(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		nil,
		{"NYC"},
		{"NYC", "LAX"},
		{"NYC", "LAX", "2024-12-01", "extra"},
	}
	for _, args := range cases {
		args := args
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			t.Parallel()

			stub := &stubSearcher{}
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), args, &stdout, &stderr, testDeps(config.Config{}, stub))

			require.Equal(t, 1, code)
			require.Equal(t, usage, stdout.String())
			require.Zero(t, stub.calls)
		})
	}
}

func TestRunWritesReport(t *testing.T) {
	t.Parallel()

	reportPath := filepath.Join(t.TempDir(), "flight_list.md")
	records := []flight.Record{
		{Airline: "Delta", Price: "$189"},
		{Airline: "United Airlines", Stops: "1 stop"},
	}
	stub := &stubSearcher{result: scrape.Result{
		Records:        records,
		ScreenshotPath: "debug_files/flight_search_NYC_LAX_2024-12-01.png",
	}}
	cfg := config.Config{ReportPath: reportPath, ReportFormat: config.FormatMarkdown}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"NYC", "LAX", "2024-12-01"}, &stdout, &stderr, testDeps(cfg, stub))

	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, flight.Query{Origin: "NYC", Destination: "LAX", Date: "2024-12-01"}, stub.query)
	require.Contains(t, stdout.String(), "Screenshot saved to debug_files/flight_search_NYC_LAX_2024-12-01.png\n")
	require.Contains(t, stdout.String(), "Flight list saved to '"+reportPath+"'.\n")

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	require.Equal(t, report.RenderMarkdown(records), string(raw))
}

func TestRunNoRecordsSkipsReport(t *testing.T) {
	t.Parallel()

	reportPath := filepath.Join(t.TempDir(), "flight_list.md")
	stub := &stubSearcher{result: scrape.Result{HTMLPath: "debug_files/error_NYC_LAX_2024-12-01.html"}}
	cfg := config.Config{ReportPath: reportPath, ReportFormat: config.FormatMarkdown}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"NYC", "LAX", "2024-12-01"}, &stdout, &stderr, testDeps(cfg, stub))

	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "HTML content saved to debug_files/error_NYC_LAX_2024-12-01.html for debugging.\n")
	require.True(t, strings.HasSuffix(stdout.String(), "No flights found or an error occurred.\n"))

	_, err := os.Stat(reportPath)
	require.True(t, os.IsNotExist(err))
}

func TestRunReportWriteFailure(t *testing.T) {
	t.Parallel()

	stub := &stubSearcher{result: scrape.Result{Records: []flight.Record{{Price: "$1"}}}}
	cfg := config.Config{ReportPath: filepath.Join(t.TempDir(), "out.txt"), ReportFormat: "csv"}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"NYC", "LAX", "2024-12-01"}, &stdout, &stderr, testDeps(cfg, stub))

	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "unsupported report format")
	require.NotContains(t, stdout.String(), "Flight list saved")
}

func TestRunSetupFailure(t *testing.T) {
	t.Parallel()

	d := testDeps(config.Config{}, &stubSearcher{})
	d.newSearcher = func(config.Config, logger.Logger) (searcher, error) {
		return nil, errors.New("schema missing.json: no such file")
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"NYC", "LAX", "2024-12-01"}, &stdout, &stderr, d)

	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "schema missing.json")
}

func TestNewScraperRejectsBadSchemaFile(t *testing.T) {
	t.Parallel()

	cfg := config.Config{SchemaFile: filepath.Join(t.TempDir(), "missing.json"), DebugDir: t.TempDir()}
	_, err := newScraper(cfg, logger.NewNop())
	require.Error(t, err)

	cfg.SchemaFile = ""
	s, err := newScraper(cfg, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, s)
}
