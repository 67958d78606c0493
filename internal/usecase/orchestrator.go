// Package usecase coordinates task execution: agent context assembly,
// model selection, credit enforcement, dispatch and persistence of the
// outcome. It speaks to adapters only through the domain ports and the
// small interfaces below.
package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/budget"
)

// ModelSelector scores candidate models for a task and dispatches the
// generation with breaker, throttle and fallback handling built in.
type ModelSelector interface {
	Select(ctx context.Context, input, agentRole string, contextHint int) (domain.SelectionResult, error)
	Execute(ctx context.Context, sel domain.SelectionResult, messages []domain.ChatMessage, opts domain.GenerationOptions) (domain.GenerationResult, []domain.ModelExecutionMetric, error)
}

// CreditEstimator prices a call before it runs and reconciles the real
// cost afterwards.
type CreditEstimator interface {
	Estimate(model domain.ModelDescriptor, input string, history []domain.Message) domain.CreditEstimate
	Actual(model domain.ModelDescriptor, inputTokens, outputTokens int) float64
}

// BudgetWindows enforces per-office hourly and daily spend windows.
type BudgetWindows interface {
	Check(officeID string, estimated, balance float64) budget.CheckResult
	Record(officeID string, credits float64)
	Usage(officeID string) (hourly, daily float64)
}

// AnomalyDetector flags runaway spend before and after a task runs.
type AnomalyDetector interface {
	CheckTaskCredits(officeID string, estimated float64) (bool, string)
	CheckSpike(officeID string, currentHourly float64) (bool, string)
	RecordHourlyUsage(officeID string, usage float64)
}

// PlanRunner executes a tool action plan as a dependency-ordered DAG.
type PlanRunner interface {
	ExecutePlan(ctx context.Context, plan domain.ActionPlan, ec domain.ExecutionContext) domain.ExecutionResult
}

// Deps wires the orchestrator's collaborators. Optional fields degrade
// gracefully: a nil Index falls back to relational memory recall, a nil
// Notifier skips the completion webhook, a nil Anomaly skips spend
// anomaly checks.
type Deps struct {
	Tasks     domain.TaskRepository
	Agents    domain.AgentRepository
	Messages  domain.MessageRepository
	Memories  domain.MemoryRepository
	Index     domain.MemoryIndex
	Metrics   domain.MetricsRepository
	Ledger    domain.LedgerClient
	Notifier  domain.Notifier
	Queue     domain.Queue
	Selector  ModelSelector
	Estimator CreditEstimator
	Windows   BudgetWindows
	Anomaly   AnomalyDetector
	Tools     PlanRunner
}

// Orchestrator runs tasks end to end on behalf of the HTTP server and
// the queue worker.
type Orchestrator struct {
	Deps
	validate *validator.Validate
}

// NewOrchestrator builds an Orchestrator from its dependencies.
func NewOrchestrator(d Deps) *Orchestrator {
	return &Orchestrator{Deps: d, validate: validator.New()}
}

// ExecuteRequest identifies one task run. Every field is required; the
// task row itself is created by the caller (sync) or by EnqueueExecute
// (async).
type ExecuteRequest struct {
	TaskID         string `json:"task_id" validate:"required"`
	AgentID        string `json:"agent_id" validate:"required"`
	OfficeID       string `json:"office_id" validate:"required"`
	ConversationID string `json:"conversation_id" validate:"required"`
	Input          string `json:"input" validate:"required"`
}

// ExecuteResponse reports the terminal state of a task run.
type ExecuteResponse struct {
	TaskID     string            `json:"task_id"`
	Status     domain.TaskStatus `json:"status"`
	Output     string            `json:"output,omitempty"`
	Error      string            `json:"error,omitempty"`
	TokenUsage map[string]int    `json:"token_usage,omitempty"`
}
