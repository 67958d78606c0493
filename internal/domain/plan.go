// Package domain holds the core entities, errors and ports shared by
// every layer. It depends on nothing outside the standard library.
package domain

import (
	"context"
	"fmt"
	"time"
)

// RetryStrategy selects how a failed step is retried.
type RetryStrategy string

const (
	// RetryNone disables retries for the step.
	RetryNone RetryStrategy = "none"
	// RetryFixed waits DelaySeconds between every attempt.
	RetryFixed RetryStrategy = "fixed"
	// RetryExponential doubles the wait per attempt: delay * 2^(n-1).
	RetryExponential RetryStrategy = "exponential"
)

// RetryPolicy defines retry behavior for one plan step.
type RetryPolicy struct {
	Strategy     RetryStrategy `json:"strategy"`
	MaxAttempts  int           `json:"max_attempts"`
	DelaySeconds float64       `json:"delay_seconds"`
}

// Delay returns the wait before the given attempt (1-based). Attempt 1 never
// waits; RetryNone always returns zero.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 || p.Strategy == RetryNone || p.Strategy == "" {
		return 0
	}
	base := time.Duration(p.DelaySeconds * float64(time.Second))
	if p.Strategy == RetryFixed {
		return base
	}
	d := base
	for i := 2; i < attempt; i++ {
		d *= 2
	}
	return d
}

// Attempts returns the effective attempt budget (at least one).
func (p RetryPolicy) Attempts() int {
	if p.Strategy == RetryNone || p.Strategy == "" || p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// SchemaProperty is one property declaration in a tool input schema.
// Only the JSON-schema subset the validator understands is modeled.
type SchemaProperty struct {
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// ToolSchema declares the expected inputs of a tool.
type ToolSchema struct {
	Type       string                    `json:"type" yaml:"type"`
	Properties map[string]SchemaProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty" yaml:"required,omitempty"`
}

// ToolDescriptor registers a tool with the execution pipeline. Retry is
// the tool's default policy; a step-level policy overrides it.
type ToolDescriptor struct {
	Name           string      `json:"name" yaml:"name"`
	Description    string      `json:"description" yaml:"description"`
	Vendor         string      `json:"vendor" yaml:"vendor"`
	Scope          string      `json:"scope,omitempty" yaml:"scope,omitempty"`
	InputSchema    ToolSchema  `json:"input_schema" yaml:"input_schema"`
	Retry          RetryPolicy `json:"retry,omitempty" yaml:"retry,omitempty"`
	Async          bool        `json:"async,omitempty" yaml:"async,omitempty"`
	TimeoutSeconds int         `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// RequiredScope is the permission scope a caller must hold to run the tool.
// Defaults to tools.<vendor>.<name> when the descriptor does not override it.
func (d ToolDescriptor) RequiredScope() string {
	if d.Scope != "" {
		return d.Scope
	}
	return fmt.Sprintf("tools.%s.%s", d.Vendor, d.Name)
}

// Failure handling modes for a step. The zero value means stop.
// Retry is handled by the retry policy before failure handling applies,
// and fallback steps are a planner concern; at execution time both
// behave like continue.
const (
	FailStop     = "stop"
	FailContinue = "continue"
	FailRetry    = "retry"
	FailFallback = "fallback"
)

// ToolCall is one step of an action plan.
type ToolCall struct {
	StepID          string         `json:"step_id"`
	Tool            string         `json:"tool"`
	Inputs          map[string]any `json:"inputs"`
	DependsOn       []string       `json:"depends_on,omitempty"`
	Retry           *RetryPolicy   `json:"retry,omitempty"`
	OnFailure       string         `json:"failure_handling,omitempty"`
	TimeoutOverride int            `json:"timeout_override,omitempty"`
}

// StopsOnFailure reports whether a failure of this step aborts the rest
// of a sequential plan.
func (c ToolCall) StopsOnFailure() bool {
	return c.OnFailure == "" || c.OnFailure == FailStop
}

// ActionPlan is a small DAG of tool calls produced by an LLM or a caller.
// ExecutionID is assigned by the executor when absent.
type ActionPlan struct {
	ExecutionID string     `json:"execution_id,omitempty"`
	Goal        string     `json:"goal,omitempty"`
	Steps       []ToolCall `json:"steps"`
	Parallel    bool       `json:"parallel_execution,omitempty"`
}

// OAuthToken is a vendor credential carried inside a permission scope.
type OAuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// PermissionScope is the grant set a plan executes under.
type PermissionScope struct {
	UserID        string                `json:"user_id"`
	OfficeID      string                `json:"office_id"`
	GrantedScopes []string              `json:"granted_scopes"`
	OAuthTokens   map[string]OAuthToken `json:"oauth_tokens,omitempty"`
}

// ExecutionContext binds one plan run to an identity and deadline.
type ExecutionContext struct {
	ExecutionID string
	UserID      string
	OfficeID    string
	WorkflowID  string
	Permissions PermissionScope
	Deadline    time.Time
}

// Step result statuses.
const (
	ToolStatusSuccess = "success"
	ToolStatusFailed  = "failed"
	ToolStatusBlocked = "blocked"
	ToolStatusSkipped = "skipped"
)

// Shared tool error codes. Adapters add their own tool-specific codes.
const (
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeQuotaExceeded    = "QUOTA_EXCEEDED"
	CodeRetryExhausted   = "RETRY_EXHAUSTED"
	CodeDependencyFailed = "DEPENDENCY_FAILED"
	CodeSandboxError     = "SANDBOX_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeExecutionError   = "EXECUTION_ERROR"
)

// Artifact is a produced external object (document, spreadsheet, deck).
// Content carries raw data when the artifact has no URL.
type Artifact struct {
	Kind     string         `json:"type"`
	Name     string         `json:"name,omitempty"`
	URL      string         `json:"url,omitempty"`
	Content  any            `json:"content,omitempty"`
	MIMEType string         `json:"mime_type,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ToolResult is the outcome of one step.
type ToolResult struct {
	StepID       string         `json:"step_id"`
	Tool         string         `json:"tool"`
	Status       string         `json:"status"`
	Output       map[string]any `json:"output,omitempty"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Attempts     int            `json:"attempts"`
	LatencyMS    int64          `json:"latency_ms"`
	Artifacts    []Artifact     `json:"artifacts,omitempty"`
}

// Plan-level statuses.
const (
	PlanSuccess        = "SUCCESS"
	PlanPartialSuccess = "PARTIAL_SUCCESS"
	PlanFailure        = "FAILURE"
	PlanBlocked        = "BLOCKED"
)

// ExecutionResult is the normalized outcome of a whole plan.
// Invariant: StepsCompleted+StepsFailed equals len(plan.Steps) for plans
// that ran to completion; blocked or aborted plans report zero steps.
type ExecutionResult struct {
	ExecutionID    string       `json:"execution_id"`
	Status         string       `json:"status"`
	Message        string       `json:"message"`
	StepsCompleted int          `json:"steps_completed"`
	StepsFailed    int          `json:"steps_failed"`
	Results        []ToolResult `json:"results"`
	Artifacts      []Artifact   `json:"artifacts,omitempty"`
	Errors         []string     `json:"errors,omitempty"`
	TotalLatencyMS int64        `json:"total_latency_ms"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
}

// ToolAdapter executes calls for one vendor. Adapters carry no business
// logic, no permission decisions and no retries; the executor owns those.
type ToolAdapter interface {
	Vendor() string
	Execute(ctx context.Context, call ToolCall, ec ExecutionContext) ToolResult
}
