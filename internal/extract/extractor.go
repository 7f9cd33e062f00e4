// Package extract turns a rendered results page into flight records using a
// declarative selector schema. Selectors that match nothing leave the field
// absent; they never fail the extraction.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/VenkatGGG/flight-scraper/internal/flight"
)

const (
	KindCSS = "css"
	KindDOM = "dom"
)

// Page is the subset of a browser session the extractors read from.
type Page interface {
	HTML(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, expression string, out any) error
}

type Extractor interface {
	Name() string
	Extract(ctx context.Context, page Page) ([]flight.Record, error)
}

func New(kind string, schema Schema) (Extractor, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	switch kind {
	case "", KindCSS:
		return NewCSSExtractor(schema), nil
	case KindDOM:
		return NewDOMExtractor(schema), nil
	default:
		return nil, fmt.Errorf("unsupported extractor %q", kind)
	}
}

// markupPolicy sanitizes the inner HTML of html-typed fields. Text and attr
// values are already plain text and are never run through it.
var markupPolicy = bluemonday.UGCPolicy()

func collapseSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// normalize turns a raw selector match into the stored display string.
func normalize(kind, raw string) string {
	if kind == FieldTypeHTML {
		return collapseSpace(markupPolicy.Sanitize(raw))
	}
	return collapseSpace(raw)
}

// buildRecord returns false when every field is absent.
func buildRecord(fields []Field, values map[string]string) (flight.Record, bool) {
	var record flight.Record
	for _, field := range fields {
		raw, ok := values[field.Name]
		if !ok {
			continue
		}
		if value := normalize(field.kind(), raw); value != "" {
			record.Set(field.Name, value)
		}
	}
	return record, !record.IsEmpty()
}
