// internal/catalog/schema.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// catalogSchema is the JSON Schema every catalog dataset must satisfy
// before records are accepted.
const catalogSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": [
      "id", "brand", "model", "price", "camera_mp", "ois", "eis",
      "battery_mah", "charging_w", "display_inches", "amoled", "soc",
      "compact", "summary", "pros", "cons"
    ],
    "properties": {
      "id":             {"type": "string", "minLength": 1},
      "brand":          {"type": "string", "minLength": 1},
      "model":          {"type": "string", "minLength": 1},
      "price":          {"type": "integer", "minimum": 1},
      "camera_mp":      {"type": "integer", "minimum": 0},
      "ois":            {"type": "boolean"},
      "eis":            {"type": "boolean"},
      "battery_mah":    {"type": "integer", "minimum": 0},
      "charging_w":     {"type": "integer", "minimum": 0},
      "display_inches": {"type": "number", "minimum": 0},
      "amoled":         {"type": "boolean"},
      "soc":            {"type": "string"},
      "compact":        {"type": "boolean"},
      "summary":        {"type": "string"},
      "pros":           {"type": "array", "items": {"type": "string"}},
      "cons":           {"type": "array", "items": {"type": "string"}}
    },
    "additionalProperties": false
  }
}`

// ValidateRaw checks a raw catalog document against the schema.
func ValidateRaw(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(catalogSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema violations: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ValidateRecords enforces the invariants the schema cannot express:
// unique ids across the catalog.
func ValidateRecords(phones []Phone) error {
	seen := make(map[string]bool, len(phones))
	for _, p := range phones {
		if seen[p.ID] {
			return fmt.Errorf("duplicate phone id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
