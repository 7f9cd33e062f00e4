package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/chromedp/chromedp"
)

type chromedpSession struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// openChromedp ties the browser to Close rather than to ctx: ctx only bounds
// the launch. Deadlines of later calls are applied per action in run.
func openChromedp(ctx context.Context, opts Options) (Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocatorOptions(opts)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	stop := context.AfterFunc(ctx, cancelAlloc)
	// Run with no actions starts the browser and the first tab.
	err := chromedp.Run(tabCtx)
	if !stop() {
		err = errors.Join(err, ctx.Err())
	}
	if err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	return &chromedpSession{ctx: tabCtx, cancelAlloc: cancelAlloc, cancelTab: cancelTab}, nil
}

// chromeFlags is the command line the launched browser gets on top of
// chromedp's defaults.
func chromeFlags(opts Options) map[string]any {
	flags := map[string]any{
		"no-sandbox":                             true,
		"disable-dev-shm-usage":                  true,
		"disable-gpu":                            true,
		"disable-blink-features":                 "AutomationControlled",
		"disable-infobars":                       true,
		"disable-default-apps":                   true,
		"disable-background-networking":          true,
		"disable-backgrounding-occluded-windows": true,
		"disable-renderer-backgrounding":         true,
		"disable-popup-blocking":                 true,
		"disable-sync":                           true,
		"disable-translate":                      true,
		"force-color-profile":                    "srgb",
		"password-store":                         "basic",
		"use-mock-keychain":                      true,
	}
	if opts.Headless {
		flags["headless"] = "new"
	} else {
		flags["headless"] = false
	}
	return flags
}

func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)

	flags := chromeFlags(opts)
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		allocOpts = append(allocOpts, chromedp.Flag(name, flags[name]))
	}

	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	return allocOpts
}

// run executes actions on the session tab while honouring ctx's deadline and
// cancellation. ctx is not derived from the tab context, so both are merged.
func (s *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *chromedpSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if selector == "" {
		return errors.New("selector is required")
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		if waitCtx.Err() != nil {
			return fmt.Errorf("timeout waiting for selector %q", selector)
		}
		return err
	}
	return nil
}

func (s *chromedpSession) Evaluate(ctx context.Context, expression string, out any) error {
	return s.run(ctx, chromedp.Evaluate(expression, out))
}

func (s *chromedpSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

func (s *chromedpSession) Screenshot(ctx context.Context) ([]byte, error) {
	var png []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&png)); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return png, nil
}

// Close shuts the browser down gracefully, then tears down the allocator.
func (s *chromedpSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
