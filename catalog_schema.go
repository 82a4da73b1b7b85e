package mutationboard

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// catalogSchemaDoc is the structural shape ParseCatalogJSON's input must
// satisfy before parsing: a JSON object whose values carry at minimum a
// "size" string and, when present, array/object-shaped "effects" and
// "conditions". Validation catches a malformed document early, before
// Parser.Parse has to translate a ParseSize failure into ErrMalformedSize
// one entry at a time.
const catalogSchemaDoc = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["size"],
		"properties": {
			"name": {"type": "string"},
			"size": {"type": "string", "pattern": "^[1-3]x[1-3]$"},
			"groundAffinity": {"type": "string"},
			"drops": {"type": "object"},
			"effects": {"type": "array", "items": {"type": "string"}},
			"conditions": {"type": "object"}
		}
	}
}`

var (
	catalogSchemaOnce sync.Once
	catalogSchema     *jsonschema.Schema
	catalogSchemaErr  error
)

func compiledCatalogSchema() (*jsonschema.Schema, error) {
	catalogSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("catalog.schema.json", strings.NewReader(catalogSchemaDoc)); err != nil {
			catalogSchemaErr = err
			return
		}
		catalogSchema, catalogSchemaErr = c.Compile("catalog.schema.json")
	})
	return catalogSchema, catalogSchemaErr
}

// ValidateCatalogJSON checks doc against catalogSchemaDoc before
// ParseCatalogJSON walks it with gjson. A schema failure is returned wrapped
// with %w, so the jsonschema validation error and the instance locations it
// carries stay reachable; it is the caller's job to decide whether to still attempt a
// best-effort gjson parse afterward.
func ValidateCatalogJSON(doc string) error {
	schema, err := compiledCatalogSchema()
	if err != nil {
		return fmt.Errorf("mutationboard: compile catalog schema: %w", err)
	}
	var v any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return fmt.Errorf("mutationboard: catalog document is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("mutationboard: catalog document failed schema validation: %w", err)
	}
	return nil
}
