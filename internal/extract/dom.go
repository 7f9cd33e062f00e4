package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VenkatGGG/flight-scraper/internal/flight"
)

// DOMExtractor evaluates the schema inside the live page and reads back one
// name->text object per matched item.
type DOMExtractor struct {
	schema Schema
	script string
}

func NewDOMExtractor(schema Schema) *DOMExtractor {
	return &DOMExtractor{schema: schema, script: buildExtractionScript(schema)}
}

func (e *DOMExtractor) Name() string {
	return KindDOM
}

func (e *DOMExtractor) Script() string {
	return e.script
}

func (e *DOMExtractor) Extract(ctx context.Context, page Page) ([]flight.Record, error) {
	var items []map[string]string
	if err := page.Evaluate(ctx, e.script, &items); err != nil {
		return nil, fmt.Errorf("evaluate extraction script: %w", err)
	}

	records := make([]flight.Record, 0, len(items))
	for _, item := range items {
		if record, ok := buildRecord(e.schema.Fields, item); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

const extractionScriptTemplate = `(() => {
	const schema = %s;
	const pick = (root, selector) => {
		try {
			return root.querySelector(selector);
		} catch (_error) {
			return null;
		}
	};
	let items = [];
	try {
		items = Array.from(document.querySelectorAll(schema.baseSelector));
	} catch (_error) {
		return [];
	}
	return items.map((item) => {
		const out = {};
		for (const field of schema.fields) {
			const el = pick(item, field.selector);
			if (!el) continue;
			let value = el.textContent;
			if (field.type === "attr") value = el.getAttribute(field.attr);
			if (field.type === "html") value = el.innerHTML;
			if (value !== null && value !== undefined) out[field.name] = String(value);
		}
		return out;
	});
})()`

func buildExtractionScript(schema Schema) string {
	fields := make([]Field, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		field.Type = field.kind()
		fields = append(fields, field)
	}
	encoded := mustMarshal(struct {
		BaseSelector string  `json:"baseSelector"`
		Fields       []Field `json:"fields"`
	}{schema.BaseSelector, fields})
	return fmt.Sprintf(extractionScriptTemplate, encoded)
}

func mustMarshal(value any) []byte {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return raw
}
