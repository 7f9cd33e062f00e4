package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/VenkatGGG/flight-scraper/internal/browser"
	"github.com/VenkatGGG/flight-scraper/internal/extract"
	"github.com/VenkatGGG/flight-scraper/internal/flight"
	"github.com/VenkatGGG/flight-scraper/internal/report"
)

// Accepted values are owned by the packages that interpret them.
const (
	EngineChromedp = browser.EngineChromedp
	EngineCDP      = browser.EngineCDP

	ExtractorCSS = extract.KindCSS
	ExtractorDOM = extract.KindDOM

	FormatMarkdown = report.FormatMarkdown
	FormatJSON     = report.FormatJSON
	FormatPDF      = report.FormatPDF
)

type Config struct {
	Engine           string
	Extractor        string
	CDPBaseURL       string
	Headless         bool
	UserAgent        string
	WindowWidth      int
	WindowHeight     int
	URLTemplate      string
	SchemaFile       string
	ReadySelector    string
	ReadyTimeout     time.Duration
	PageTimeout      time.Duration
	RenderDelay      time.Duration
	SettleDelay      time.Duration
	ScrollPasses     int
	ScrollDelay      time.Duration
	ConsentSelectors []string
	DebugDir         string
	ReportPath       string
	ReportFormat     string
	LogLevel         string
	LogFormat        string
}

var defaultConsentSelectors = []string{"[id^=onetrust-accept]", ".consent-button"}

// Load reads a .env file from the working directory when present, then the
// process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	reportFormat := oneOf(envOrDefault("FLIGHTSCRAPER_REPORT_FORMAT", FormatMarkdown), FormatMarkdown, FormatMarkdown, FormatJSON, FormatPDF)
	return Config{
		Engine:           oneOf(envOrDefault("FLIGHTSCRAPER_ENGINE", EngineChromedp), EngineChromedp, EngineChromedp, EngineCDP),
		Extractor:        oneOf(envOrDefault("FLIGHTSCRAPER_EXTRACTOR", ExtractorCSS), ExtractorCSS, ExtractorCSS, ExtractorDOM),
		CDPBaseURL:       envOrDefault("FLIGHTSCRAPER_CDP_URL", "http://127.0.0.1:9222"),
		Headless:         boolOrDefault("FLIGHTSCRAPER_HEADLESS", true),
		UserAgent:        envOrDefault("FLIGHTSCRAPER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		WindowWidth:      clampInt(intOrDefault("FLIGHTSCRAPER_WINDOW_WIDTH", 1920), 320, 7680),
		WindowHeight:     clampInt(intOrDefault("FLIGHTSCRAPER_WINDOW_HEIGHT", 1080), 240, 4320),
		URLTemplate:      envOrDefault("FLIGHTSCRAPER_URL_TEMPLATE", flight.DefaultURLTemplate),
		SchemaFile:       strings.TrimSpace(os.Getenv("FLIGHTSCRAPER_SCHEMA_FILE")),
		ReadySelector:    readySelector(),
		ReadyTimeout:     clampDuration(durationOrDefault("FLIGHTSCRAPER_READY_TIMEOUT", 60*time.Second), time.Second, 10*time.Minute),
		PageTimeout:      clampDuration(durationOrDefault("FLIGHTSCRAPER_PAGE_TIMEOUT", 180*time.Second), 5*time.Second, 30*time.Minute),
		RenderDelay:      clampDuration(durationOrDefault("FLIGHTSCRAPER_RENDER_DELAY", 10*time.Second), 0, 5*time.Minute),
		SettleDelay:      clampDuration(durationOrDefault("FLIGHTSCRAPER_SETTLE_DELAY", 5*time.Second), 0, 5*time.Minute),
		ScrollPasses:     clampInt(intOrDefault("FLIGHTSCRAPER_SCROLL_PASSES", 3), 0, 50),
		ScrollDelay:      clampDuration(durationOrDefault("FLIGHTSCRAPER_SCROLL_DELAY", 2*time.Second), 0, time.Minute),
		ConsentSelectors: listOrDefault("FLIGHTSCRAPER_CONSENT_SELECTORS", defaultConsentSelectors),
		DebugDir:         envOrDefault("FLIGHTSCRAPER_DEBUG_DIR", "debug_files"),
		ReportPath:       envOrDefault("FLIGHTSCRAPER_REPORT_PATH", defaultReportPath(reportFormat)),
		ReportFormat:     reportFormat,
		LogLevel:         envOrDefault("FLIGHTSCRAPER_LOG_LEVEL", "info"),
		LogFormat:        oneOf(envOrDefault("FLIGHTSCRAPER_LOG_FORMAT", "console"), "console", "console", "json"),
	}
}

func defaultReportPath(format string) string {
	switch format {
	case FormatJSON:
		return "flight_list.json"
	case FormatPDF:
		return "flight_list.pdf"
	default:
		return "flight_list.md"
	}
}

// An explicitly empty FLIGHTSCRAPER_READY_SELECTOR switches readiness to the
// fixed render delay.
func readySelector() string {
	value, ok := os.LookupEnv("FLIGHTSCRAPER_READY_SELECTOR")
	if !ok {
		return "#listWrapper"
	}
	return strings.TrimSpace(value)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func intOrDefault(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func boolOrDefault(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return fallback
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func listOrDefault(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return append([]string(nil), fallback...)
	}
	items := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func oneOf(value, fallback string, allowed ...string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range allowed {
		if normalized == candidate {
			return candidate
		}
	}
	return fallback
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampDuration(value, min, max time.Duration) time.Duration {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
