package extract

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/VenkatGGG/flight-scraper/internal/flight"
)

const (
	FieldTypeText = "text"
	FieldTypeAttr = "attr"
	// FieldTypeHTML keeps the sanitized inner markup of the match.
	FieldTypeHTML = "html"
)

// Schema is a declarative selector map: every element matching BaseSelector
// becomes one record, and each Field selector is resolved inside it.
type Schema struct {
	Name         string  `json:"name"`
	BaseSelector string  `json:"baseSelector"`
	Fields       []Field `json:"fields"`
}

type Field struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
	Type     string `json:"type,omitempty"`
	Attr     string `json:"attr,omitempty"`
}

//go:embed default_schema.json
var defaultSchemaJSON []byte

//go:embed schema_definition.json
var schemaDefinitionJSON []byte

// DefaultSchema returns the built-in results-page selectors.
func DefaultSchema() Schema {
	schema, err := ParseSchema(defaultSchemaJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded schema is invalid: %v", err))
	}
	return schema
}

func LoadSchema(path string) (Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema file: %w", err)
	}
	schema, err := ParseSchema(raw)
	if err != nil {
		return Schema{}, fmt.Errorf("schema %s: %w", path, err)
	}
	return schema, nil
}

func ParseSchema(raw []byte) (Schema, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaDefinitionJSON),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return Schema{}, fmt.Errorf("validate schema: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return Schema{}, fmt.Errorf("invalid schema: %s", strings.Join(problems, "; "))
	}

	var schema Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return Schema{}, fmt.Errorf("decode schema: %w", err)
	}
	if err := schema.Validate(); err != nil {
		return Schema{}, err
	}
	return schema, nil
}

// Validate checks what the JSON definition cannot: field names must map onto
// record fields, appear once, and attr fields must name their attribute.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.BaseSelector) == "" {
		return errors.New("schema base selector is required")
	}
	if len(s.Fields) == 0 {
		return errors.New("schema has no fields")
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, field := range s.Fields {
		if !flight.KnownField(field.Name) {
			return fmt.Errorf("schema field %q is not a flight record field", field.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("schema field %q is declared twice", field.Name)
		}
		seen[field.Name] = struct{}{}
		if strings.TrimSpace(field.Selector) == "" {
			return fmt.Errorf("schema field %q has no selector", field.Name)
		}
		switch field.kind() {
		case FieldTypeText, FieldTypeHTML:
		case FieldTypeAttr:
			if strings.TrimSpace(field.Attr) == "" {
				return fmt.Errorf("schema field %q is type attr without attr", field.Name)
			}
		default:
			return fmt.Errorf("schema field %q has unsupported type %q", field.Name, field.Type)
		}
	}
	return nil
}

func (f Field) kind() string {
	if f.Type == "" {
		return FieldTypeText
	}
	return f.Type
}
