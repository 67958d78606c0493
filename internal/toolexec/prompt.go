package toolexec

import (
	"encoding/json"
	"fmt"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// FunctionSchema is the OpenAI function-calling shape used to describe
// a tool inside an LLM prompt.
type FunctionSchema struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  domain.ToolSchema `json:"parameters"`
}

// Schema converts one tool descriptor into its prompt schema.
func Schema(tool domain.ToolDescriptor) FunctionSchema {
	return FunctionSchema{
		Name:        tool.Name,
		Description: tool.Description,
		Parameters:  tool.InputSchema,
	}
}

// Schemas converts a descriptor list.
func Schemas(tools []domain.ToolDescriptor) []FunctionSchema {
	out := make([]FunctionSchema, 0, len(tools))
	for _, tool := range tools {
		out = append(out, Schema(tool))
	}
	return out
}

// PromptText renders the tool schemas as indented JSON for inclusion in
// system prompts of models without a native function-calling API.
func PromptText(tools []domain.ToolDescriptor) (string, error) {
	raw, err := json.MarshalIndent(Schemas(tools), "", "  ")
	if err != nil {
		return "", fmt.Errorf("op=toolexec.PromptText: %w", err)
	}
	return string(raw), nil
}
