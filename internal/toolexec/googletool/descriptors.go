package googletool

import "github.com/fairyhunter13/agent-orchestrator/internal/domain"

// workspaceRetry is shared by every Workspace tool: transient API
// failures get three retries with exponential backoff.
var workspaceRetry = domain.RetryPolicy{
	Strategy:     domain.RetryExponential,
	MaxAttempts:  4,
	DelaySeconds: 1,
}

// Descriptors lists the google vendor's tools for registration.
func Descriptors() []domain.ToolDescriptor {
	return []domain.ToolDescriptor{
		{
			Name:        "google_sheets_create",
			Description: "Create a new Google Spreadsheet",
			Vendor:      "google",
			Scope:       "google.sheets.write",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"title":  {Type: "string", Description: "Spreadsheet title"},
					"sheets": {Type: "array", Description: "Names of sheets to create"},
				},
				Required: []string{"title"},
			},
			Retry:          workspaceRetry,
			TimeoutSeconds: 30,
		},
		{
			Name:        "google_sheets_read",
			Description: "Read values from a spreadsheet range",
			Vendor:      "google",
			Scope:       "google.sheets.read",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"spreadsheet_id": {Type: "string", Description: "Spreadsheet to read"},
					"range":          {Type: "string", Description: "A1-notation range"},
				},
				Required: []string{"spreadsheet_id", "range"},
			},
			Retry:          workspaceRetry,
			TimeoutSeconds: 30,
		},
		{
			Name:        "google_sheets_append_row",
			Description: "Append a row of values to a sheet",
			Vendor:      "google",
			Scope:       "google.sheets.write",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"spreadsheet_id": {Type: "string", Description: "Spreadsheet to update"},
					"sheet":          {Type: "string", Description: "Sheet name"},
					"values":         {Type: "array", Description: "Cell values for the new row"},
				},
				Required: []string{"spreadsheet_id", "sheet", "values"},
			},
			Retry:          workspaceRetry,
			TimeoutSeconds: 30,
		},
		{
			Name:        "google_sheets_update",
			Description: "Overwrite values in a spreadsheet range",
			Vendor:      "google",
			Scope:       "google.sheets.write",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"spreadsheet_id": {Type: "string", Description: "Spreadsheet to update"},
					"range":          {Type: "string", Description: "A1-notation range"},
					"values":         {Type: "array", Description: "Grid of cell values"},
				},
				Required: []string{"spreadsheet_id", "range", "values"},
			},
			Retry:          workspaceRetry,
			TimeoutSeconds: 30,
		},
		{
			Name:        "google_slides_create",
			Description: "Create a new Google Slides presentation",
			Vendor:      "google",
			Scope:       "google.slides.write",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"title": {Type: "string", Description: "Presentation title"},
				},
				Required: []string{"title"},
			},
			Retry:          workspaceRetry,
			TimeoutSeconds: 30,
		},
		{
			Name:        "google_slides_add_slide",
			Description: "Add a slide to a presentation",
			Vendor:      "google",
			Scope:       "google.slides.write",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"presentation_id": {Type: "string", Description: "Presentation to extend"},
					"layout":          {Type: "string", Description: "Slide layout"},
					"title":           {Type: "string", Description: "Slide title"},
					"body":            {Type: "string", Description: "Slide body text"},
				},
				Required: []string{"presentation_id"},
			},
			Retry:          workspaceRetry,
			TimeoutSeconds: 30,
		},
		{
			Name:        "google_drive_share",
			Description: "Share a Drive file with a user",
			Vendor:      "google",
			Scope:       "google.drive.write",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"file_id": {Type: "string", Description: "File to share"},
					"email":   {Type: "string", Description: "Recipient address"},
					"role":    {Type: "string", Description: "Granted role", Enum: []string{"reader", "commenter", "writer"}},
				},
				Required: []string{"file_id", "email", "role"},
			},
			Retry:          workspaceRetry,
			TimeoutSeconds: 30,
		},
		{
			Name:        "google_drive_list",
			Description: "List Drive files matching a query",
			Vendor:      "google",
			Scope:       "google.drive.read",
			InputSchema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.SchemaProperty{
					"query":     {Type: "string", Description: "Drive search query"},
					"page_size": {Type: "integer", Description: "Maximum files to return"},
				},
			},
			Retry:          workspaceRetry,
			TimeoutSeconds: 30,
		},
	}
}
