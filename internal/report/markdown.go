package report

import (
	"strconv"
	"strings"

	"github.com/VenkatGGG/flight-scraper/internal/flight"
)

// RenderMarkdown emits one "## Flight i" section per record, 1-based and in
// input order, each followed by a blank line.
func RenderMarkdown(records []flight.Record) string {
	var b strings.Builder
	b.WriteString("# Flight List\n\n")
	for i, record := range records {
		b.WriteString("## Flight ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("\n")
		for _, col := range columns {
			b.WriteString("- **")
			b.WriteString(col.label)
			b.WriteString(":** ")
			b.WriteString(valueOrNA(record, col.field))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
