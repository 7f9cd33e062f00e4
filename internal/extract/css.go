package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/VenkatGGG/flight-scraper/internal/flight"
)

// CSSExtractor applies the schema to a static copy of the rendered HTML.
type CSSExtractor struct {
	schema Schema
}

func NewCSSExtractor(schema Schema) *CSSExtractor {
	return &CSSExtractor{schema: schema}
}

func (e *CSSExtractor) Name() string {
	return KindCSS
}

func (e *CSSExtractor) Extract(ctx context.Context, page Page) ([]flight.Record, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rendered html: %w", err)
	}
	return e.ExtractHTML(html)
}

// ExtractHTML is a pure function of the document: the same HTML always yields
// the same records in the same order.
func (e *CSSExtractor) ExtractHTML(html string) ([]flight.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	records := make([]flight.Record, 0)
	doc.Find(e.schema.BaseSelector).Each(func(_ int, item *goquery.Selection) {
		values := make(map[string]string, len(e.schema.Fields))
		for _, field := range e.schema.Fields {
			if value, ok := selectField(item, field); ok {
				values[field.Name] = value
			}
		}
		if record, ok := buildRecord(e.schema.Fields, values); ok {
			records = append(records, record)
		}
	})
	return records, nil
}

func selectField(item *goquery.Selection, field Field) (string, bool) {
	match := item.Find(field.Selector).First()
	if match.Length() == 0 {
		return "", false
	}
	switch field.kind() {
	case FieldTypeAttr:
		return match.Attr(field.Attr)
	case FieldTypeHTML:
		inner, err := match.Html()
		if err != nil {
			return "", false
		}
		return inner, true
	default:
		return match.Text(), true
	}
}
