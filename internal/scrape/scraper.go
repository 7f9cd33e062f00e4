// Package scrape drives one browser session through a flight search:
// navigate, dismiss the consent banner, wait for results, scroll, extract,
// and keep debug artifacts. Every failure collapses into an empty result.
package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VenkatGGG/flight-scraper/internal/artifact"
	"github.com/VenkatGGG/flight-scraper/internal/browser"
	"github.com/VenkatGGG/flight-scraper/internal/extract"
	"github.com/VenkatGGG/flight-scraper/internal/flight"
	"github.com/VenkatGGG/flight-scraper/internal/logger"
)

// artifactTimeout bounds the failure-path screenshot and HTML dump, which run
// after the page context may already be done.
const artifactTimeout = 15 * time.Second

// Opener starts a browser session. ctx stays live until the scraper has
// closed the session.
type Opener func(ctx context.Context) (browser.Session, error)

type Options struct {
	URLTemplate      string
	ConsentSelectors []string
	ReadySelector    string
	ReadyTimeout     time.Duration
	PageTimeout      time.Duration
	RenderDelay      time.Duration
	ScrollPasses     int
	ScrollDelay      time.Duration
	SettleDelay      time.Duration
}

type Result struct {
	Records        []flight.Record
	ScreenshotPath string
	HTMLPath       string
	Blocker        Blocker
}

type Scraper struct {
	open      Opener
	extractor extract.Extractor
	store     *artifact.DebugStore
	logger    logger.Logger
	opts      Options
}

func New(open Opener, extractor extract.Extractor, store *artifact.DebugStore, log logger.Logger, opts Options) (*Scraper, error) {
	if open == nil {
		return nil, errors.New("session opener is required")
	}
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if store == nil {
		return nil, errors.New("debug store is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Scraper{open: open, extractor: extractor, store: store, logger: log, opts: opts}, nil
}

// Search never returns an error. A failed run yields no records, with the
// cause logged and the page dumped to the debug directory.
func (s *Scraper) Search(ctx context.Context, query flight.Query) Result {
	url := query.URL(s.opts.URLTemplate)
	log := s.logger.With("origin", query.Origin, "destination", query.Destination, "date", query.Date)

	runCtx, cancel := s.pageContext(ctx)
	defer cancel()

	started := time.Now()
	session, cancelSession, err := s.openSession(ctx, runCtx)
	if err != nil {
		log.Error("open browser session failed", "error", err)
		return Result{}
	}
	defer cancelSession()
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn("close browser session failed", "error", closeErr)
		}
	}()

	records, err := s.drive(runCtx, session, url, log)
	if err != nil {
		return s.fail(ctx, session, query, err, log)
	}

	result := Result{Records: records}
	if path, shotErr := s.screenshot(runCtx, session, query); shotErr != nil {
		log.Warn("save screenshot failed", "error", shotErr)
	} else {
		result.ScreenshotPath = path
	}

	log.Info("flight search finished",
		"url", url,
		"records", len(records),
		"extractor", s.extractor.Name(),
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)
	return result
}

// openSession hands the opener a context that outlives the page timeout, so
// the failure path can still read the page once the timeout fires. The page
// timeout only bounds the open call itself.
func (s *Scraper) openSession(ctx, runCtx context.Context) (browser.Session, context.CancelFunc, error) {
	sessionCtx, cancelSession := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(runCtx, cancelSession)
	session, err := s.open(sessionCtx)
	if !stop() {
		if err == nil {
			_ = session.Close()
		}
		err = errors.Join(err, runCtx.Err())
	}
	if err != nil {
		cancelSession()
		return nil, nil, err
	}
	return session, cancelSession, nil
}

func (s *Scraper) pageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.PageTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.PageTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Scraper) drive(ctx context.Context, session browser.Session, url string, log logger.Logger) ([]flight.Record, error) {
	log.Debug("navigating", "url", url)
	if err := session.Navigate(ctx, url); err != nil {
		return nil, err
	}

	s.dismissConsent(ctx, session, log)

	if err := s.waitReady(ctx, session); err != nil {
		return nil, err
	}

	for pass := 0; pass < s.opts.ScrollPasses; pass++ {
		if err := session.Evaluate(ctx, scrollToBottomScript, nil); err != nil {
			return nil, fmt.Errorf("scroll pass %d: %w", pass+1, err)
		}
		if err := sleepWithContext(ctx, s.opts.ScrollDelay); err != nil {
			return nil, err
		}
	}

	if err := sleepWithContext(ctx, s.opts.SettleDelay); err != nil {
		return nil, err
	}

	records, err := s.extractor.Extract(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("extract with %s: %w", s.extractor.Name(), err)
	}
	return records, nil
}

// waitReady blocks until the results container exists, or for the fixed
// render delay when no readiness selector is configured.
func (s *Scraper) waitReady(ctx context.Context, session browser.Session) error {
	if s.opts.ReadySelector == "" {
		return sleepWithContext(ctx, s.opts.RenderDelay)
	}
	if err := session.WaitForSelector(ctx, s.opts.ReadySelector, s.opts.ReadyTimeout); err != nil {
		return fmt.Errorf("wait for results: %w", err)
	}
	return nil
}

type consentOutcome int

const (
	consentAbsent consentOutcome = iota
	consentClicked
)

// dismissConsent tries each banner selector in order and stops at the first
// click. A missing banner is the normal case and is not an error.
func (s *Scraper) dismissConsent(ctx context.Context, session browser.Session, log logger.Logger) {
	for _, selector := range s.opts.ConsentSelectors {
		outcome, err := clickIfPresent(ctx, session, selector)
		if err != nil {
			log.Warn("consent click failed", "selector", selector, "error", err)
			continue
		}
		if outcome == consentClicked {
			log.Debug("consent banner dismissed", "selector", selector)
			return
		}
	}
}

func clickIfPresent(ctx context.Context, session browser.Session, selector string) (consentOutcome, error) {
	var clicked bool
	if err := session.Evaluate(ctx, fmt.Sprintf(clickScriptTemplate, jsString(selector)), &clicked); err != nil {
		return consentAbsent, err
	}
	if clicked {
		return consentClicked, nil
	}
	return consentAbsent, nil
}

func (s *Scraper) fail(ctx context.Context, session browser.Session, query flight.Query, cause error, log logger.Logger) Result {
	artifactCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), artifactTimeout)
	defer cancel()

	result := Result{}
	if signals, err := collectSignals(artifactCtx, session); err == nil {
		result.Blocker = classifyBlocker(signals)
	}

	if path, err := s.screenshot(artifactCtx, session, query); err != nil {
		log.Warn("save failure screenshot failed", "error", err)
	} else {
		result.ScreenshotPath = path
	}

	if html, err := session.HTML(artifactCtx); err != nil {
		log.Warn("read page html for dump failed", "error", err)
	} else if path, err := s.store.SaveHTML(artifactCtx, query.Slug(), html); err != nil {
		log.Warn("save html dump failed", "error", err)
	} else {
		result.HTMLPath = path
	}

	log.Error("flight search failed",
		"error", cause,
		"blocker", string(result.Blocker),
		"html_dump", result.HTMLPath,
	)
	return result
}

func (s *Scraper) screenshot(ctx context.Context, session browser.Session, query flight.Query) (string, error) {
	png, err := session.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	return s.store.SaveScreenshot(ctx, query.Slug(), png)
}

const scrollToBottomScript = `window.scrollTo(0, document.body ? document.body.scrollHeight : 0)`

const clickScriptTemplate = `(() => {
	try {
		const el = document.querySelector(%s);
		if (!el) return false;
		el.click();
		return true;
	} catch (_error) {
		return false;
	}
})()`

func jsString(value string) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(raw)
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
