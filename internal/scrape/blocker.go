package scrape

import (
	"context"
	"strings"
)

// Blocker names the interstitial a failed results page most likely shows.
type Blocker string

const (
	BlockerNone        Blocker = ""
	BlockerHumanCheck  Blocker = "human_verification_required"
	BlockerBotWall     Blocker = "bot_blocked"
	BlockerConsentWall Blocker = "consent_wall"
)

var humanSignals = []string{
	"captcha",
	"hcaptcha",
	"recaptcha",
	"verify you are human",
	"prove you are human",
	"are you a robot",
	"please confirm that you are a human",
	"complete the following challenge",
	"security check",
	"checking if the site connection is secure",
	"unusual traffic",
}

var consentSignals = []string{
	"accept all cookies",
	"we use cookies",
	"your privacy choices",
	"manage cookie preferences",
}

type pageSignals struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

const pageSignalsScript = `(() => {
	const raw = document && document.body ? String(document.body.innerText || document.body.textContent || "") : "";
	return {
		url: String(window.location.href || ""),
		title: String(document.title || ""),
		body: raw.replace(/\s+/g, " ").slice(0, 5000),
	};
})()`

func classifyBlocker(signals pageSignals) Blocker {
	haystack := strings.ToLower(strings.Join([]string{
		strings.TrimSpace(signals.URL),
		strings.TrimSpace(signals.Title),
		strings.TrimSpace(signals.Body),
	}, " "))
	if strings.TrimSpace(haystack) == "" {
		return BlockerNone
	}

	for _, signal := range humanSignals {
		if strings.Contains(haystack, signal) {
			return BlockerHumanCheck
		}
	}
	if strings.Contains(haystack, "access denied") && strings.Contains(haystack, "bot") {
		return BlockerBotWall
	}
	for _, signal := range consentSignals {
		if strings.Contains(haystack, signal) {
			return BlockerConsentWall
		}
	}
	return BlockerNone
}

func collectSignals(ctx context.Context, page evaluator) (pageSignals, error) {
	var signals pageSignals
	err := page.Evaluate(ctx, pageSignalsScript, &signals)
	return signals, err
}

type evaluator interface {
	Evaluate(ctx context.Context, expression string, out any) error
}
