package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/recipe-extractor/internal/entity"
)

// DraftSchema is the JSON Schema for a caller-edited recipe draft. It only
// constrains shape; completeness is the Validator's job.
func DraftSchema() map[string]any {
	strList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":        map[string]any{"type": "string"},
			"description":  map[string]any{"type": "string"},
			"ingredients":  strList,
			"instructions": strList,
			"notes":        strList,
		},
	}
}

var draftSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(DraftSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("draft.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("draft.json")
})

// ValidateJSON checks an edited draft against DraftSchema, decodes it and
// validates the result. A shape error is returned as err; an incomplete
// recipe is reported through the ValidationResult.
func ValidateJSON(data []byte) (entity.ValidationResult, error) {
	schema, err := draftSchema()
	if err != nil {
		return entity.ValidationResult{}, fmt.Errorf("compile draft schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return entity.ValidationResult{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return entity.ValidationResult{}, fmt.Errorf("draft does not match schema: %w", err)
	}
	var c entity.Candidate
	if err := json.Unmarshal(data, &c); err != nil {
		return entity.ValidationResult{}, fmt.Errorf("decode draft: %w", err)
	}
	return Validate(c), nil
}
