package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/VenkatGGG/flight-scraper/internal/browser"
	"github.com/VenkatGGG/flight-scraper/internal/extract"
	"github.com/VenkatGGG/flight-scraper/internal/report"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	require.Equal(t, EngineChromedp, cfg.Engine)
	require.Equal(t, ExtractorCSS, cfg.Extractor)
	require.True(t, cfg.Headless)
	require.Equal(t, "https://www.kayak.com/flights/{origin}-{destination}/{date}", cfg.URLTemplate)
	require.Equal(t, "#listWrapper", cfg.ReadySelector)
	require.Equal(t, 180*time.Second, cfg.PageTimeout)
	require.Equal(t, 5*time.Second, cfg.SettleDelay)
	require.Equal(t, 3, cfg.ScrollPasses)
	require.Equal(t, []string{"[id^=onetrust-accept]", ".consent-button"}, cfg.ConsentSelectors)
	require.Equal(t, "debug_files", cfg.DebugDir)
	require.Equal(t, "flight_list.md", cfg.ReportPath)
	require.Equal(t, FormatMarkdown, cfg.ReportFormat)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FLIGHTSCRAPER_ENGINE", " CDP ")
	t.Setenv("FLIGHTSCRAPER_EXTRACTOR", "dom")
	t.Setenv("FLIGHTSCRAPER_HEADLESS", "off")
	t.Setenv("FLIGHTSCRAPER_READY_SELECTOR", "")
	t.Setenv("FLIGHTSCRAPER_SCROLL_PASSES", "7")
	t.Setenv("FLIGHTSCRAPER_SCROLL_DELAY", "750ms")
	t.Setenv("FLIGHTSCRAPER_CONSENT_SELECTORS", "#accept, , .agree")
	t.Setenv("FLIGHTSCRAPER_REPORT_FORMAT", "PDF")

	cfg := FromEnv()

	require.Equal(t, EngineCDP, cfg.Engine)
	require.Equal(t, ExtractorDOM, cfg.Extractor)
	require.False(t, cfg.Headless)
	require.Empty(t, cfg.ReadySelector)
	require.Equal(t, 7, cfg.ScrollPasses)
	require.Equal(t, 750*time.Millisecond, cfg.ScrollDelay)
	require.Equal(t, []string{"#accept", ".agree"}, cfg.ConsentSelectors)
	require.Equal(t, FormatPDF, cfg.ReportFormat)
	require.Equal(t, "flight_list.pdf", cfg.ReportPath)
}

func TestFromEnvFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("FLIGHTSCRAPER_ENGINE", "firefox")
	t.Setenv("FLIGHTSCRAPER_HEADLESS", "maybe")
	t.Setenv("FLIGHTSCRAPER_PAGE_TIMEOUT", "forever")
	t.Setenv("FLIGHTSCRAPER_SCROLL_PASSES", "-4")
	t.Setenv("FLIGHTSCRAPER_READY_TIMEOUT", "1ms")
	t.Setenv("FLIGHTSCRAPER_WINDOW_WIDTH", "99999")

	cfg := FromEnv()

	require.Equal(t, EngineChromedp, cfg.Engine)
	require.True(t, cfg.Headless)
	require.Equal(t, 180*time.Second, cfg.PageTimeout)
	require.Equal(t, 0, cfg.ScrollPasses)
	require.Equal(t, time.Second, cfg.ReadyTimeout)
	require.Equal(t, 7680, cfg.WindowWidth)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FLIGHTSCRAPER_REPORT_PATH=from-dotenv.md\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("FLIGHTSCRAPER_REPORT_PATH")
	})

	cfg := Load()
	require.Equal(t, "from-dotenv.md", cfg.ReportPath)
}

func TestFromEnvAcceptsPackageValues(t *testing.T) {
	cases := []struct {
		engine    string
		extractor string
		format    string
	}{
		{browser.EngineChromedp, extract.KindCSS, report.FormatMarkdown},
		{browser.EngineCDP, extract.KindDOM, report.FormatJSON},
		{browser.EngineCDP, extract.KindCSS, report.FormatPDF},
	}
	for _, tc := range cases {
		t.Setenv("FLIGHTSCRAPER_ENGINE", tc.engine)
		t.Setenv("FLIGHTSCRAPER_EXTRACTOR", tc.extractor)
		t.Setenv("FLIGHTSCRAPER_REPORT_FORMAT", tc.format)

		cfg := FromEnv()
		require.Equal(t, tc.engine, cfg.Engine)
		require.Equal(t, tc.extractor, cfg.Extractor)
		require.Equal(t, tc.format, cfg.ReportFormat)
	}
}
