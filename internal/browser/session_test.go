package browser

import (
	"context"
	"strings"
	"testing"

	"github.com/chromedp/chromedp"
)

func TestOpenRejectsUnknownEngine(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Options{Engine: "firefox"})
	if err == nil || !strings.Contains(err.Error(), "unsupported browser engine") {
		t.Fatalf("expected unsupported engine error, got %v", err)
	}
}

func TestChromeFlagsHeadlessToggle(t *testing.T) {
	t.Parallel()

	if got := chromeFlags(Options{Headless: true})["headless"]; got != "new" {
		t.Fatalf("expected headless=new, got %v", got)
	}
	if got := chromeFlags(Options{Headless: false})["headless"]; got != false {
		t.Fatalf("expected headless=false for a visible browser, got %v", got)
	}
	if got := chromeFlags(Options{})["disable-blink-features"]; got != "AutomationControlled" {
		t.Fatalf("unexpected disable-blink-features %v", got)
	}
}

func TestAllocatorOptionsExtendDefaults(t *testing.T) {
	t.Parallel()

	base := len(chromedp.DefaultExecAllocatorOptions)
	flags := len(chromeFlags(Options{}))

	bare := allocatorOptions(Options{})
	if len(bare) != base+flags {
		t.Fatalf("expected %d options, got %d", base+flags, len(bare))
	}

	full := allocatorOptions(Options{UserAgent: "ua", WindowWidth: 1280, WindowHeight: 720})
	if len(full) != base+flags+2 {
		t.Fatalf("expected window size and user agent options, got %d", len(full))
	}
}
