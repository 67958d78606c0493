// Package googletool implements the Google Workspace tool vendor.
// Real API calls are not linked; the adapter answers with canned,
// shape-faithful responses so plans exercising Workspace tools run end
// to end. The transport seam keeps the switch to live calls local.
package googletool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// apiError is an HTTP-style failure from the Workspace transport.
type apiError struct {
	Status int
	Reason string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Reason)
}

// unknownToolError marks a tool name outside the vendor's set.
type unknownToolError string

func (e unknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", string(e))
}

// invokeFunc is the transport seam: given a tool and its inputs it
// returns the response payload and any produced artifacts.
type invokeFunc func(ctx context.Context, tool string, inputs map[string]any) (map[string]any, []domain.Artifact, error)

// Adapter executes the google vendor's tools.
type Adapter struct {
	invoke invokeFunc
	now    func() time.Time
}

// New builds the adapter with the canned transport.
func New() *Adapter {
	return &Adapter{invoke: mockInvoke, now: time.Now}
}

// Vendor identifies this adapter in the executor's dispatch table.
func (a *Adapter) Vendor() string { return "google" }

// Execute runs one Workspace step. A google OAuth token must be
// present in the execution context even against the canned transport;
// the permission gateway normally guarantees that before dispatch.
func (a *Adapter) Execute(ctx context.Context, call domain.ToolCall, ec domain.ExecutionContext) domain.ToolResult {
	start := a.now()
	res := domain.ToolResult{StepID: call.StepID, Tool: call.Tool}

	token, ok := ec.Permissions.OAuthTokens["google"]
	if !ok || token.AccessToken == "" {
		res.Status = domain.ToolStatusFailed
		res.ErrorCode = "NO_CREDENTIALS"
		res.ErrorMessage = "No Google OAuth credentials provided"
		res.LatencyMS = a.now().Sub(start).Milliseconds()
		return res
	}

	data, artifacts, err := a.invoke(ctx, call.Tool, call.Inputs)
	res.LatencyMS = a.now().Sub(start).Milliseconds()

	var apiErr *apiError
	var unknown unknownToolError
	switch {
	case err == nil:
		res.Status = domain.ToolStatusSuccess
		res.Output = data
		res.Artifacts = artifacts
	case errors.As(err, &apiErr):
		res.Status = domain.ToolStatusFailed
		res.ErrorCode = fmt.Sprintf("GOOGLE_API_%d", apiErr.Status)
		res.ErrorMessage = fmt.Sprintf("Google API error: %s", apiErr.Reason)
	case errors.As(err, &unknown):
		res.Status = domain.ToolStatusFailed
		res.ErrorCode = "UNKNOWN_TOOL"
		res.ErrorMessage = err.Error()
	default:
		res.Status = domain.ToolStatusFailed
		res.ErrorCode = domain.CodeExecutionError
		res.ErrorMessage = err.Error()
	}
	return res
}

// mockInvoke answers each tool with a fixed, shape-faithful payload.
func mockInvoke(_ context.Context, tool string, inputs map[string]any) (map[string]any, []domain.Artifact, error) {
	switch tool {
	case "google_sheets_create":
		title := stringInput(inputs, "title", "Mock Sheet")
		return map[string]any{
				"spreadsheet_id":  "mock_spreadsheet_id_12345",
				"spreadsheet_url": "https://docs.google.com/spreadsheets/d/mock_id/edit",
			}, []domain.Artifact{{
				Kind:     "spreadsheet",
				Name:     title,
				URL:      "https://docs.google.com/spreadsheets/d/mock_id/edit",
				Metadata: map[string]any{"id": "mock_id", "title": title},
			}}, nil

	case "google_sheets_read":
		return map[string]any{
			"values":    []any{[]any{"Header1", "Header2"}, []any{"Data1", "Data2"}},
			"range":     stringInput(inputs, "range", "Sheet1!A1:B2"),
			"row_count": 2,
		}, nil, nil

	case "google_sheets_append_row":
		return map[string]any{
			"updated_range": "Sheet1!A10:Z10",
			"updated_rows":  1,
		}, nil, nil

	case "google_sheets_update":
		return map[string]any{
			"updated_range": stringInput(inputs, "range", "Sheet1!A1"),
			"updated_cells": cellCount(inputs["values"]),
		}, nil, nil

	case "google_slides_create":
		title := stringInput(inputs, "title", "Mock Presentation")
		return map[string]any{
				"presentation_id":  "mock_presentation_id_12345",
				"presentation_url": "https://docs.google.com/presentation/d/mock_id/edit",
			}, []domain.Artifact{{
				Kind:     "presentation",
				Name:     title,
				URL:      "https://docs.google.com/presentation/d/mock_id/edit",
				Metadata: map[string]any{"id": "mock_id", "title": title},
			}}, nil

	case "google_slides_add_slide":
		return map[string]any{
			"presentation_id": stringInput(inputs, "presentation_id", ""),
			"slide_id":        "mock_slide_1",
			"layout":          stringInput(inputs, "layout", "BLANK"),
		}, nil, nil

	case "google_drive_share":
		return map[string]any{
			"file_id":     stringInput(inputs, "file_id", ""),
			"shared_with": stringInput(inputs, "email", ""),
			"role":        stringInput(inputs, "role", "reader"),
		}, nil, nil

	case "google_drive_list":
		return map[string]any{
			"files": []any{
				map[string]any{"id": "file1", "name": "Document.docx", "mime_type": "application/vnd.google-apps.document"},
				map[string]any{"id": "file2", "name": "Spreadsheet.xlsx", "mime_type": "application/vnd.google-apps.spreadsheet"},
			},
			"count": 2,
		}, nil, nil

	default:
		return nil, nil, unknownToolError(tool)
	}
}

func stringInput(inputs map[string]any, key, fallback string) string {
	if s, ok := inputs[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// cellCount sizes a values grid ([]any of row slices).
func cellCount(v any) int {
	rows, ok := v.([]any)
	if !ok {
		return 0
	}
	n := 0
	for _, r := range rows {
		if cells, isRow := r.([]any); isRow {
			n += len(cells)
		} else {
			n++
		}
	}
	return n
}
