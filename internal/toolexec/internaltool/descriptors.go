package internaltool

import "github.com/fairyhunter13/agent-orchestrator/internal/domain"

// Descriptors lists the internal vendor's tools for registration.
func Descriptors() []domain.ToolDescriptor {
	return []domain.ToolDescriptor{
		{
			Name:        "data_transform",
			Description: "Transform data using Python code in sandbox",
			Vendor:      "internal",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"code":       {Type: "string", Description: "Python code reading input_data and assigning output_data"},
					"input_data": {Type: "object", Description: "Data passed to the transformation"},
				},
				Required: []string{"code", "input_data"},
			},
			TimeoutSeconds: 60,
		},
		{
			Name:        "text_processing",
			Description: "Process and analyze text data",
			Vendor:      "internal",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"input":     {Type: "string", Description: "Text to process"},
					"operation": {Type: "string", Description: "Operation to apply", Enum: []string{"count", "extract", "format", "summarize"}},
				},
				Required: []string{"input"},
			},
			TimeoutSeconds: 30,
		},
		{
			Name:        "file_conversion",
			Description: "Convert data between JSON, CSV and YAML",
			Vendor:      "internal",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"data":       {Type: "string", Description: "Source document"},
					"conversion": {Type: "string", Description: "Conversion to apply", Enum: []string{"json_to_csv", "csv_to_json", "json_to_yaml", "yaml_to_json", "auto"}},
					"target":     {Type: "string", Description: "Target format for auto conversion"},
				},
				Required: []string{"data", "conversion"},
			},
			TimeoutSeconds: 30,
		},
	}
}
