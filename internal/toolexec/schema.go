package toolexec

import (
	"math"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// ValidationError reports one schema violation. The message is bare so
// the executor can embed it in plan abort reasons. It unwraps to
// domain.ErrInvalidArgument.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidArgument }

// ValidateInputs checks a step's inputs against the tool's declared
// schema: required fields must be present and declared property types
// must match. Only the JSON-schema subset the descriptors use is
// understood; properties with an unknown declared type pass, so new
// schema features never break existing tools.
func ValidateInputs(schema domain.ToolSchema, inputs map[string]any) error {
	for _, field := range schema.Required {
		if _, ok := inputs[field]; !ok {
			return &ValidationError{Reason: "Missing required field: " + field}
		}
	}
	for name, prop := range schema.Properties {
		value, ok := inputs[name]
		if !ok || prop.Type == "" {
			continue
		}
		if !typeMatches(prop.Type, value) {
			return &ValidationError{Reason: "Field '" + name + "' has invalid type, expected " + prop.Type}
		}
	}
	return nil
}

// typeMatches validates one value against a JSON-schema type name.
// JSON numbers decode to float64, so integer accepts whole floats.
func typeMatches(schemaType string, value any) bool {
	switch schemaType {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return true
		}
		return false
	case "integer":
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return v == math.Trunc(v)
		case float32:
			return float64(v) == math.Trunc(float64(v))
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}
