package schema

import (
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks payloads against one compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles a schema document.
func New(schemaData []byte) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Load reads and compiles the schema at path.
func Load(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return New(data)
}

// Validate returns one message per violation; an empty slice means the
// payload conforms.
func (v *Validator) Validate(payload any) ([]string, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}
