package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/VenkatGGG/flight-scraper/internal/artifact"
	"github.com/VenkatGGG/flight-scraper/internal/browser"
	"github.com/VenkatGGG/flight-scraper/internal/config"
	"github.com/VenkatGGG/flight-scraper/internal/extract"
	"github.com/VenkatGGG/flight-scraper/internal/flight"
	"github.com/VenkatGGG/flight-scraper/internal/logger"
	"github.com/VenkatGGG/flight-scraper/internal/report"
	"github.com/VenkatGGG/flight-scraper/internal/scrape"
)

const usage = `Usage: flight-scraper ORIGIN DESTINATION DATE
Example: flight-scraper NYC LAX 2024-12-01
`

type searcher interface {
	Search(ctx context.Context, query flight.Query) scrape.Result
}

type deps struct {
	loadConfig  func() config.Config
	newLogger   func(cfg config.Config) (logger.Logger, error)
	newSearcher func(cfg config.Config, log logger.Logger) (searcher, error)
}

func defaultDeps() deps {
	return deps{
		loadConfig: config.Load,
		newLogger: func(cfg config.Config) (logger.Logger, error) {
			return logger.New(cfg.LogLevel, cfg.LogFormat)
		},
		newSearcher: newScraper,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	if len(args) != 3 {
		fmt.Fprint(stdout, usage)
		return 1
	}
	query := flight.Query{Origin: args[0], Destination: args[1], Date: args[2]}

	cfg := d.loadConfig()
	log, err := d.newLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	log = log.With("run_id", uuid.NewString())
	defer func() { _ = log.Sync() }()

	s, err := d.newSearcher(cfg, log)
	if err != nil {
		log.Error("scraper setup failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log.Info("searching flights", "url", query.URL(cfg.URLTemplate), "engine", cfg.Engine, "extractor", cfg.Extractor)
	result := s.Search(ctx, query)
	if result.ScreenshotPath != "" {
		fmt.Fprintf(stdout, "Screenshot saved to %s\n", result.ScreenshotPath)
	}
	if result.HTMLPath != "" {
		fmt.Fprintf(stdout, "HTML content saved to %s for debugging.\n", result.HTMLPath)
	}

	if len(result.Records) == 0 {
		fmt.Fprintln(stdout, "No flights found or an error occurred.")
		return 0
	}

	if err := report.Write(cfg.ReportPath, cfg.ReportFormat, result.Records); err != nil {
		log.Error("write report failed", "path", cfg.ReportPath, "error", err)
		fmt.Fprintf(stderr, "Error writing flight list: %v\n", err)
		return 1
	}
	log.Info("report written", "path", cfg.ReportPath, "format", cfg.ReportFormat, "records", len(result.Records))
	fmt.Fprintf(stdout, "Flight list saved to '%s'.\n", cfg.ReportPath)
	return 0
}

func newScraper(cfg config.Config, log logger.Logger) (searcher, error) {
	schema := extract.DefaultSchema()
	if cfg.SchemaFile != "" {
		loaded, err := extract.LoadSchema(cfg.SchemaFile)
		if err != nil {
			return nil, err
		}
		schema = loaded
	}

	extractor, err := extract.New(cfg.Extractor, schema)
	if err != nil {
		return nil, err
	}
	store, err := artifact.NewDebugStore(cfg.DebugDir)
	if err != nil {
		return nil, err
	}

	browserOpts := browser.Options{
		Engine:       cfg.Engine,
		CDPBaseURL:   cfg.CDPBaseURL,
		Headless:     cfg.Headless,
		UserAgent:    cfg.UserAgent,
		WindowWidth:  cfg.WindowWidth,
		WindowHeight: cfg.WindowHeight,
	}
	open := func(ctx context.Context) (browser.Session, error) {
		return browser.Open(ctx, browserOpts)
	}

	return scrape.New(open, extractor, store, log, scrape.Options{
		URLTemplate:      cfg.URLTemplate,
		ConsentSelectors: cfg.ConsentSelectors,
		ReadySelector:    cfg.ReadySelector,
		ReadyTimeout:     cfg.ReadyTimeout,
		PageTimeout:      cfg.PageTimeout,
		RenderDelay:      cfg.RenderDelay,
		ScrollPasses:     cfg.ScrollPasses,
		ScrollDelay:      cfg.ScrollDelay,
		SettleDelay:      cfg.SettleDelay,
	})
}
