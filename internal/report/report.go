// Package report serializes extracted flight records into the file handed to
// the user. Markdown is the default; JSON and PDF carry the same records.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/VenkatGGG/flight-scraper/internal/flight"
)

const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatPDF      = "pdf"

	// Placeholder printed for any field the extractor left absent.
	NotAvailable = "N/A"
)

type column struct {
	label string
	field string
}

// columns is the fixed per-flight field order of the human-readable formats.
var columns = []column{
	{label: "Airline", field: flight.FieldAirline},
	{label: "Departure Time", field: flight.FieldDepartureTime},
	{label: "Arrival Time", field: flight.FieldArrivalTime},
	{label: "Duration", field: flight.FieldDuration},
	{label: "Stops", field: flight.FieldStops},
	{label: "Price", field: flight.FieldPrice},
	{label: "Fare Type", field: flight.FieldFareType},
	{label: "Provider", field: flight.FieldProvider},
}

func valueOrNA(record flight.Record, field string) string {
	if value := record.Get(field); value != "" {
		return value
	}
	return NotAvailable
}

// Render serializes records in the named format.
func Render(format string, records []flight.Record) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatMarkdown:
		return []byte(RenderMarkdown(records)), nil
	case FormatJSON:
		return RenderJSON(records)
	case FormatPDF:
		return RenderPDF(records)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Write renders records and replaces the file at path.
func Write(path, format string, records []flight.Record) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("report path is required")
	}
	payload, err := Render(format, records)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil {
		return fmt.Errorf("write report tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("commit report: %w", err)
	}
	return nil
}
