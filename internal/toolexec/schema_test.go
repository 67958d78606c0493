package toolexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func TestValidateInputsRequired(t *testing.T) {
	schema := domain.ToolSchema{
		Type: "object",
		Properties: map[string]domain.SchemaProperty{
			"title": {Type: "string"},
		},
		Required: []string{"title"},
	}

	err := ValidateInputs(schema, map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "Missing required field: title", err.Error())
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.NoError(t, ValidateInputs(schema, map[string]any{"title": "Q3"}))
}

func TestValidateInputsTypes(t *testing.T) {
	schema := domain.ToolSchema{
		Type: "object",
		Properties: map[string]domain.SchemaProperty{
			"name":    {Type: "string"},
			"count":   {Type: "integer"},
			"ratio":   {Type: "number"},
			"enabled": {Type: "boolean"},
			"tags":    {Type: "array"},
			"meta":    {Type: "object"},
		},
	}

	tests := []struct {
		name    string
		inputs  map[string]any
		wantErr string
	}{
		{"all valid", map[string]any{
			"name":    "x",
			"count":   float64(3),
			"ratio":   2.5,
			"enabled": true,
			"tags":    []any{"a"},
			"meta":    map[string]any{"k": "v"},
		}, ""},
		{"string mismatch", map[string]any{"name": 42}, "Field 'name' has invalid type, expected string"},
		{"integer rejects fraction", map[string]any{"count": 3.5}, "Field 'count' has invalid type, expected integer"},
		{"integer accepts whole float", map[string]any{"count": float64(7)}, ""},
		{"integer accepts int", map[string]any{"count": 7}, ""},
		{"number accepts int", map[string]any{"ratio": 7}, ""},
		{"number mismatch", map[string]any{"ratio": "fast"}, "Field 'ratio' has invalid type, expected number"},
		{"boolean mismatch", map[string]any{"enabled": "yes"}, "Field 'enabled' has invalid type, expected boolean"},
		{"array mismatch", map[string]any{"tags": "a,b"}, "Field 'tags' has invalid type, expected array"},
		{"object mismatch", map[string]any{"meta": []any{}}, "Field 'meta' has invalid type, expected object"},
		{"undeclared fields pass", map[string]any{"extra": struct{}{}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputs(schema, tt.inputs)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidateInputsUnknownDeclaredType(t *testing.T) {
	schema := domain.ToolSchema{
		Type: "object",
		Properties: map[string]domain.SchemaProperty{
			"blob": {Type: "binary"},
		},
	}
	assert.NoError(t, ValidateInputs(schema, map[string]any{"blob": 123}))
}

func TestValidateInputsEmptySchema(t *testing.T) {
	assert.NoError(t, ValidateInputs(domain.ToolSchema{Type: "object"}, map[string]any{"anything": 1}))
	assert.NoError(t, ValidateInputs(domain.ToolSchema{Type: "object"}, nil))
}
