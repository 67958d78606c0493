package googletool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func grantedContext() domain.ExecutionContext {
	return domain.ExecutionContext{
		ExecutionID: "exec-1",
		UserID:      "u1",
		OfficeID:    "o1",
		Permissions: domain.PermissionScope{
			UserID:        "u1",
			OfficeID:      "o1",
			GrantedScopes: []string{"*"},
			OAuthTokens: map[string]domain.OAuthToken{
				"google": {AccessToken: "valid-token-123"},
			},
		},
	}
}

func TestVendor(t *testing.T) {
	assert.Equal(t, "google", New().Vendor())
}

func TestExecuteRequiresCredentials(t *testing.T) {
	a := New()
	res := a.Execute(context.Background(), domain.ToolCall{StepID: "s1", Tool: "google_sheets_create"}, domain.ExecutionContext{})
	assert.Equal(t, domain.ToolStatusFailed, res.Status)
	assert.Equal(t, "NO_CREDENTIALS", res.ErrorCode)
	assert.Equal(t, "No Google OAuth credentials provided", res.ErrorMessage)
}

func TestExecuteSheetsCreate(t *testing.T) {
	a := New()
	res := a.Execute(context.Background(), domain.ToolCall{
		StepID: "s1",
		Tool:   "google_sheets_create",
		Inputs: map[string]any{"title": "Q3 Report"},
	}, grantedContext())

	require.Equal(t, domain.ToolStatusSuccess, res.Status)
	assert.Equal(t, "mock_spreadsheet_id_12345", res.Output["spreadsheet_id"])
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/mock_id/edit", res.Output["spreadsheet_url"])

	require.Len(t, res.Artifacts, 1)
	art := res.Artifacts[0]
	assert.Equal(t, "spreadsheet", art.Kind)
	assert.Equal(t, "Q3 Report", art.Name)
	assert.Equal(t, "Q3 Report", art.Metadata["title"])
}

func TestExecuteSheetsReadDefaults(t *testing.T) {
	a := New()
	res := a.Execute(context.Background(), domain.ToolCall{
		Tool:   "google_sheets_read",
		Inputs: map[string]any{"spreadsheet_id": "abc"},
	}, grantedContext())

	require.Equal(t, domain.ToolStatusSuccess, res.Status)
	assert.Equal(t, "Sheet1!A1:B2", res.Output["range"])
	assert.Equal(t, 2, res.Output["row_count"])
}

func TestExecuteSheetsUpdateCountsCells(t *testing.T) {
	a := New()
	res := a.Execute(context.Background(), domain.ToolCall{
		Tool: "google_sheets_update",
		Inputs: map[string]any{
			"spreadsheet_id": "abc",
			"range":          "Sheet1!A1:B2",
			"values":         []any{[]any{"a", "b"}, []any{"c"}},
		},
	}, grantedContext())

	require.Equal(t, domain.ToolStatusSuccess, res.Status)
	assert.Equal(t, "Sheet1!A1:B2", res.Output["updated_range"])
	assert.Equal(t, 3, res.Output["updated_cells"])
}

func TestExecuteDriveList(t *testing.T) {
	a := New()
	res := a.Execute(context.Background(), domain.ToolCall{Tool: "google_drive_list"}, grantedContext())

	require.Equal(t, domain.ToolStatusSuccess, res.Status)
	assert.Equal(t, 2, res.Output["count"])
	files, ok := res.Output["files"].([]any)
	require.True(t, ok)
	assert.Len(t, files, 2)
}

func TestExecuteUnknownTool(t *testing.T) {
	a := New()
	res := a.Execute(context.Background(), domain.ToolCall{Tool: "google_calendar_create"}, grantedContext())
	assert.Equal(t, domain.ToolStatusFailed, res.Status)
	assert.Equal(t, "UNKNOWN_TOOL", res.ErrorCode)
	assert.Equal(t, "Unknown tool: google_calendar_create", res.ErrorMessage)
}

func TestExecuteMapsAPIErrors(t *testing.T) {
	a := New()
	a.invoke = func(_ context.Context, _ string, _ map[string]any) (map[string]any, []domain.Artifact, error) {
		return nil, nil, &apiError{Status: 429, Reason: "Rate limit exceeded"}
	}
	res := a.Execute(context.Background(), domain.ToolCall{Tool: "google_sheets_read"}, grantedContext())
	assert.Equal(t, domain.ToolStatusFailed, res.Status)
	assert.Equal(t, "GOOGLE_API_429", res.ErrorCode)
	assert.Equal(t, "Google API error: Rate limit exceeded", res.ErrorMessage)
}

func TestExecuteMapsTransportErrors(t *testing.T) {
	a := New()
	a.invoke = func(_ context.Context, _ string, _ map[string]any) (map[string]any, []domain.Artifact, error) {
		return nil, nil, errors.New("connection reset")
	}
	res := a.Execute(context.Background(), domain.ToolCall{Tool: "google_sheets_read"}, grantedContext())
	assert.Equal(t, domain.ToolStatusFailed, res.Status)
	assert.Equal(t, domain.CodeExecutionError, res.ErrorCode)
	assert.Equal(t, "connection reset", res.ErrorMessage)
}

func TestDescriptors(t *testing.T) {
	descs := Descriptors()
	require.Len(t, descs, 8)

	byName := make(map[string]domain.ToolDescriptor, len(descs))
	for _, d := range descs {
		byName[d.Name] = d
		assert.Equal(t, "google", d.Vendor)
		assert.Equal(t, "object", d.InputSchema.Type)
		assert.Equal(t, 4, d.Retry.MaxAttempts)
		assert.Equal(t, domain.RetryExponential, d.Retry.Strategy)
		assert.Equal(t, 30, d.TimeoutSeconds)
	}

	read, ok := byName["google_sheets_read"]
	require.True(t, ok)
	assert.Equal(t, "google.sheets.read", read.RequiredScope())
	assert.ElementsMatch(t, []string{"spreadsheet_id", "range"}, read.InputSchema.Required)

	list, ok := byName["google_drive_list"]
	require.True(t, ok)
	assert.Empty(t, list.InputSchema.Required)
	assert.Equal(t, "integer", list.InputSchema.Properties["page_size"].Type)

	share, ok := byName["google_drive_share"]
	require.True(t, ok)
	assert.Equal(t, "google.drive.write", share.RequiredScope())
}
