package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationResult reports the outcome of a schema check.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema wraps a compiled JSON schema.
type Schema struct {
	compiled *gojsonschema.Schema
}

// CompileSchema compiles a JSON schema document once for repeated use.
func CompileSchema(schemaJSON string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks a document (any JSON-marshalable value) against the schema.
func (s *Schema) Validate(document interface{}) (*ValidationResult, error) {
	var loader gojsonschema.JSONLoader
	switch doc := document.(type) {
	case string:
		loader = gojsonschema.NewStringLoader(doc)
	case []byte:
		loader = gojsonschema.NewBytesLoader(doc)
	default:
		raw, err := json.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		loader = gojsonschema.NewBytesLoader(raw)
	}

	result, err := s.compiled.Validate(loader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, resErr := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   resErr.Field(),
			Message: resErr.Description(),
			Code:    resErr.Type(),
		})
	}
	return out, nil
}

// ValidateDocument is a one-shot helper for callers that do not cache
// the compiled schema.
func ValidateDocument(schemaJSON string, document interface{}) (*ValidationResult, error) {
	schema, err := CompileSchema(schemaJSON)
	if err != nil {
		return nil, err
	}
	return schema.Validate(document)
}
