// Package internaltool implements the built-in tool vendor: data
// transformation through the Python sandbox, text processing and file
// format conversion. Internal tools carry no OAuth requirement and are
// fully deterministic apart from the sandbox.
package internaltool

import (
	"context"
	"fmt"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/toolexec/sandbox"
)

// Adapter executes the internal vendor's tools.
type Adapter struct {
	sb  *sandbox.Sandbox
	now func() time.Time
}

// New builds the adapter around a sandbox instance.
func New(sb *sandbox.Sandbox) *Adapter {
	return &Adapter{sb: sb, now: time.Now}
}

// Vendor identifies this adapter in the executor's dispatch table.
func (a *Adapter) Vendor() string { return "internal" }

// Execute dispatches one step to its tool handler.
func (a *Adapter) Execute(ctx context.Context, call domain.ToolCall, ec domain.ExecutionContext) domain.ToolResult {
	start := a.now()
	var res domain.ToolResult
	switch call.Tool {
	case "data_transform":
		res = a.dataTransform(ctx, call.Inputs)
	case "text_processing":
		res = textProcessing(call.Inputs)
	case "file_conversion":
		res = fileConversion(call.Inputs)
	default:
		res = failure("UNKNOWN_TOOL", fmt.Sprintf("Unknown internal tool: %s", call.Tool))
	}
	res.StepID = call.StepID
	res.Tool = call.Tool
	res.LatencyMS = a.now().Sub(start).Milliseconds()
	return res
}

// dataTransform runs caller-supplied Python over input_data inside the
// sandbox. The snippet reads input_data and assigns output_data.
func (a *Adapter) dataTransform(ctx context.Context, inputs map[string]any) domain.ToolResult {
	code, _ := inputs["code"].(string)
	if code == "" {
		return failure("MISSING_CODE", "No transformation code provided")
	}

	wrapped := "input_data = inputs.get(\"input_data\")\n" +
		"output_data = None\n\n" +
		code + "\n\n" +
		"__result__ = output_data"

	res := a.sb.Execute(ctx, wrapped, map[string]any{"input_data": inputs["input_data"]}, a.sb.Defaults())
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Sandbox execution failed"
		}
		return failure(domain.CodeSandboxError, msg)
	}
	return success(map[string]any{
		"output_data": res.Output,
		"logs":        res.Stdout,
	})
}

func success(output map[string]any) domain.ToolResult {
	return domain.ToolResult{Status: domain.ToolStatusSuccess, Output: output}
}

func failure(code, message string) domain.ToolResult {
	return domain.ToolResult{Status: domain.ToolStatusFailed, ErrorCode: code, ErrorMessage: message}
}
