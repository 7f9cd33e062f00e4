package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/VenkatGGG/flight-scraper/internal/cdp"
)

type cdpSession struct {
	client *cdp.Client
}

func openCDP(ctx context.Context, opts Options) (Session, error) {
	client, err := cdp.Dial(ctx, opts.CDPBaseURL)
	if err != nil {
		return nil, fmt.Errorf("attach to chrome: %w", err)
	}
	return &cdpSession{client: client}, nil
}

func (s *cdpSession) Navigate(ctx context.Context, url string) error {
	return s.client.Navigate(ctx, url)
}

func (s *cdpSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	return s.client.WaitForSelector(ctx, selector, timeout)
}

func (s *cdpSession) Evaluate(ctx context.Context, expression string, out any) error {
	return s.client.Evaluate(ctx, expression, out)
}

func (s *cdpSession) HTML(ctx context.Context) (string, error) {
	return s.client.OuterHTML(ctx)
}

func (s *cdpSession) Screenshot(ctx context.Context) ([]byte, error) {
	return s.client.CaptureScreenshot(ctx)
}

// Close drops the websocket only; the attached Chrome keeps running.
func (s *cdpSession) Close() error {
	return s.client.Close()
}
