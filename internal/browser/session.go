// Package browser opens a single scoped browser session on one of two engines:
// a locally launched Chrome driven by chromedp, or an already running Chrome
// reached over the DevTools websocket.
package browser

import (
	"context"
	"fmt"
	"time"
)

const (
	EngineChromedp = "chromedp"
	EngineCDP      = "cdp"
)

// Session is the page surface the scrape pipeline drives. Implementations
// release every browser resource they hold on Close.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	Evaluate(ctx context.Context, expression string, out any) error
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

type Options struct {
	Engine       string
	CDPBaseURL   string
	Headless     bool
	UserAgent    string
	WindowWidth  int
	WindowHeight int
}

func Open(ctx context.Context, opts Options) (Session, error) {
	switch opts.Engine {
	case "", EngineChromedp:
		return openChromedp(ctx, opts)
	case EngineCDP:
		return openCDP(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported browser engine %q", opts.Engine)
	}
}
