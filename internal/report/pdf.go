package report

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/VenkatGGG/flight-scraper/internal/flight"
)

func RenderPDF(records []flight.Record) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Flight List", false)
	// Core fonts are cp1252; scraped text often carries dashes and currency
	// signs outside ASCII.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Flight List")
	pdf.Ln(12)

	for i, record := range records {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("Flight %d", i+1))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		for _, col := range columns {
			pdf.MultiCell(0, 6, tr(col.label+": "+valueOrNA(record, col.field)), "", "", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf report: %w", err)
	}
	return buf.Bytes(), nil
}
