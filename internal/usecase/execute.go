package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	intobs "github.com/fairyhunter13/agent-orchestrator/internal/observability"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/budget"
)

const (
	modeSync  = "sync"
	modeAsync = "async"

	historyLimit        = 10
	memorySearchLimit   = 5
	memoryMinScore      = 0.4
	memoryFallbackLimit = 20
)

// Execute runs a task synchronously and returns its terminal state.
// Business failures (unknown agent, insufficient credits, upstream
// errors) land in the response with status failed; only malformed
// requests surface as an error.
func (o *Orchestrator) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResponse, error) {
	return o.run(ctx, req, modeSync)
}

// HandleExecute adapts a queue payload to the execute flow. A failed
// task is still a handled record; only request-level errors propagate
// so the consumer can log them.
func (o *Orchestrator) HandleExecute(ctx context.Context, p domain.ExecuteTaskPayload) error {
	req := ExecuteRequest{
		TaskID:         p.TaskID,
		AgentID:        p.AgentID,
		OfficeID:       p.OfficeID,
		ConversationID: p.ConversationID,
		Input:          p.Input,
	}
	resp, err := o.run(ctx, req, modeAsync)
	if err != nil {
		return fmt.Errorf("op=usecase.HandleExecute: %w", err)
	}
	if resp.Status == domain.TaskFailed {
		intobs.LoggerFromContext(ctx).Warn("task finished in failed state",
			slog.String("task_id", p.TaskID),
			slog.String("error", resp.Error))
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, req ExecuteRequest, mode string) (ExecuteResponse, error) {
	if err := o.validate.Struct(req); err != nil {
		return ExecuteResponse{}, fmt.Errorf("op=usecase.Execute: %w: %v", domain.ErrInvalidArgument, err)
	}
	ctx = intobs.ContextWithTaskID(ctx, req.TaskID)
	lg := intobs.LoggerFromContext(ctx)
	observability.StartProcessingTask(mode)

	if err := o.Tasks.UpdateStatus(ctx, req.TaskID, domain.TaskThinking, nil, nil); err != nil {
		lg.Error("failed to mark task thinking", slog.Any("error", err))
		return o.failTask(ctx, req.TaskID, mode, err.Error()), nil
	}

	agent, err := o.loadAgentContext(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			lg.Warn("agent not found", slog.String("agent_id", req.AgentID))
			return o.failTask(ctx, req.TaskID, mode, "Agent not found"), nil
		}
		lg.Error("failed to load agent context", slog.Any("error", err))
		return o.failTask(ctx, req.TaskID, mode, err.Error()), nil
	}

	if err := o.Tasks.UpdateStatus(ctx, req.TaskID, domain.TaskWorking, nil, nil); err != nil {
		lg.Error("failed to mark task working", slog.Any("error", err))
		return o.failTask(ctx, req.TaskID, mode, err.Error()), nil
	}

	sel, err := o.Selector.Select(ctx, req.Input, agent.AgentRole, 0)
	if err != nil {
		lg.Error("model selection failed", slog.Any("error", err))
		return o.failTask(ctx, req.TaskID, mode, err.Error()), nil
	}
	lg.Info("model selected",
		slog.String("model", sel.Selected.Name),
		slog.String("provider", sel.Selected.Provider),
		slog.Float64("score", sel.Score),
		slog.String("reason", sel.Reason))

	est := o.Estimator.Estimate(sel.Selected, req.Input, agent.ConversationHistory)

	if est.Free {
		lg.Info("using free local model", slog.String("model", sel.Selected.Name))
	} else if resp, blocked := o.guardCredits(ctx, req, est, mode); blocked {
		return resp, nil
	}

	messages := buildMessages(agent, req.Input)
	result, attempts, execErr := o.Selector.Execute(ctx, sel, messages, domain.GenerationOptions{})
	o.saveMetrics(ctx, req, attempts)
	if execErr != nil {
		lg.Error("model execution failed", slog.Any("error", execErr))
		return o.failTask(ctx, req.TaskID, mode, execErr.Error()), nil
	}

	o.settleCredits(ctx, req, sel, est, result)
	o.finishTask(ctx, req, result)

	observability.CompleteTask(mode)
	return ExecuteResponse{
		TaskID:     req.TaskID,
		Status:     domain.TaskDone,
		Output:     result.Content,
		TokenUsage: result.TokenUsage,
	}, nil
}

// guardCredits runs the paid-model gates: ledger balance, budget
// windows, per-task anomaly ceiling. It returns the failed response and
// true when the task must stop.
func (o *Orchestrator) guardCredits(ctx context.Context, req ExecuteRequest, est domain.CreditEstimate, mode string) (ExecuteResponse, bool) {
	lg := intobs.LoggerFromContext(ctx)

	check, err := o.Ledger.Check(ctx, req.OfficeID, est.Credits)
	if err != nil {
		// The ledger client already fails open on transport trouble,
		// so an error here is unexpected. Fail open the same way
		// rather than blocking every task on a broken ledger.
		lg.Warn("credit check errored, failing open", slog.Any("error", err))
		check = domain.CreditCheck{HasSufficient: true, Err: err.Error()}
	}
	if !check.HasSufficient && check.Err == "" {
		msg := fmt.Sprintf("Insufficient credits: %g available, %g required", check.Balance, est.Credits)
		lg.Warn("insufficient credits",
			slog.String("office_id", req.OfficeID),
			slog.Float64("balance", check.Balance),
			slog.Float64("required", est.Credits))
		observability.ObserveBudgetGuard("insufficient_credits", string(budget.ActionBlock))
		return o.failTask(ctx, req.TaskID, mode, msg), true
	}

	res := o.Windows.Check(req.OfficeID, est.Credits, check.Balance)
	switch res.Action {
	case budget.ActionBlock:
		lg.Warn("budget window blocked task",
			slog.String("office_id", req.OfficeID),
			slog.String("reason", res.Reason))
		observability.ObserveBudgetGuard("window", string(budget.ActionBlock))
		return o.failTask(ctx, req.TaskID, mode, "Rate limit exceeded: "+res.Reason), true
	case budget.ActionWarn:
		lg.Warn("budget window warning",
			slog.String("office_id", req.OfficeID),
			slog.String("reason", res.Reason))
		observability.ObserveBudgetGuard("window", string(budget.ActionWarn))
	}

	if o.Anomaly != nil {
		if ok, reason := o.Anomaly.CheckTaskCredits(req.OfficeID, est.Credits); !ok {
			return o.failTask(ctx, req.TaskID, mode, "Rate limit exceeded: "+reason), true
		}
	}
	return ExecuteResponse{}, false
}

// settleCredits reconciles the real cost after a successful run. Every
// step is best effort: a ledger hiccup must not fail a task whose
// output already exists.
func (o *Orchestrator) settleCredits(ctx context.Context, req ExecuteRequest, sel domain.SelectionResult, est domain.CreditEstimate, result domain.GenerationResult) {
	if est.Free {
		return
	}
	lg := intobs.LoggerFromContext(ctx)
	consumed := o.Estimator.Actual(sel.Selected, result.TokenUsage[domain.TokenPrompt], result.TokenUsage[domain.TokenCompletion])
	if consumed <= 0 {
		return
	}
	receipt, err := o.Ledger.Consume(ctx, req.OfficeID, req.TaskID, consumed, result.Model)
	if err != nil {
		lg.Warn("credit consumption failed", slog.Any("error", err))
		return
	}
	lg.Info("credits consumed",
		slog.Float64("credits", consumed),
		slog.Float64("balance", receipt.NewBalance))
	observability.AddCreditsConsumed(consumed)
	o.Windows.Record(req.OfficeID, consumed)

	if o.Anomaly != nil {
		hourly, _ := o.Windows.Usage(req.OfficeID)
		o.Anomaly.RecordHourlyUsage(req.OfficeID, hourly)
		if spike, reason := o.Anomaly.CheckSpike(req.OfficeID, hourly); spike {
			lg.Warn("hourly spend spike", slog.String("reason", reason))
		}
	}
}

// finishTask persists the terminal done state, the agent's reply and
// the completion webhook. Persistence of the output is the one step
// that gets an error log at error level; the rest degrade to warnings.
func (o *Orchestrator) finishTask(ctx context.Context, req ExecuteRequest, result domain.GenerationResult) {
	lg := intobs.LoggerFromContext(ctx)
	output := result.Content

	if err := o.Tasks.UpdateStatus(ctx, req.TaskID, domain.TaskDone, &output, nil); err != nil {
		lg.Error("failed to mark task done", slog.Any("error", err))
	}
	if err := o.Tasks.SetTokenUsage(ctx, req.TaskID, result.TokenUsage); err != nil {
		lg.Warn("failed to persist token usage", slog.Any("error", err))
	}
	if _, err := o.Messages.Create(ctx, domain.Message{
		OfficeID:       req.OfficeID,
		ConversationID: req.ConversationID,
		SenderType:     "agent",
		SenderID:       req.AgentID,
		Content:        output,
	}); err != nil {
		lg.Warn("failed to save agent message", slog.Any("error", err))
	}
	if o.Notifier != nil {
		t := domain.Task{
			ID:             req.TaskID,
			AgentID:        req.AgentID,
			OfficeID:       req.OfficeID,
			ConversationID: req.ConversationID,
			Input:          req.Input,
			Status:         domain.TaskDone,
			Output:         output,
			TokenUsage:     result.TokenUsage,
		}
		if err := o.Notifier.TaskComplete(ctx, t); err != nil {
			lg.Warn("completion webhook failed", slog.Any("error", err))
		}
	}
	lg.Info("task completed",
		slog.String("model", result.Model),
		slog.String("provider", result.Provider),
		slog.Int64("latency_ms", result.LatencyMS),
		slog.Bool("fallback_used", result.FallbackUsed),
		slog.Int("total_tokens", result.TokenUsage[domain.TokenTotal]))
}

// failTask records the failed state and builds the matching response.
func (o *Orchestrator) failTask(ctx context.Context, taskID, mode, msg string) ExecuteResponse {
	if err := o.Tasks.UpdateStatus(ctx, taskID, domain.TaskFailed, nil, &msg); err != nil {
		intobs.LoggerFromContext(ctx).Error("failed to record task failure", slog.Any("error", err))
	}
	observability.FailTask(mode)
	return ExecuteResponse{TaskID: taskID, Status: domain.TaskFailed, Error: msg}
}

// loadAgentContext assembles identity, recent history and remembered
// facts for the agent. Memory recall never fails the task; history
// does, because replying without it would silently drop the
// conversation.
func (o *Orchestrator) loadAgentContext(ctx context.Context, req ExecuteRequest) (domain.AgentContext, error) {
	agent, err := o.Agents.GetContext(ctx, req.AgentID)
	if err != nil {
		return domain.AgentContext{}, err
	}
	history, err := o.Messages.History(ctx, req.ConversationID, historyLimit)
	if err != nil {
		return domain.AgentContext{}, fmt.Errorf("load history: %w", err)
	}
	agent.ConversationHistory = history
	agent.Memories = o.relevantMemories(ctx, req.AgentID, req.Input)
	return agent, nil
}

// relevantMemories prefers semantic recall scoped to the task input and
// falls back to the latest relational memories when the index is down
// or empty. High-importance facts carry a star so the model treats
// them as load-bearing.
func (o *Orchestrator) relevantMemories(ctx context.Context, agentID, query string) []string {
	lg := intobs.LoggerFromContext(ctx)
	if o.Index != nil {
		hits, err := o.Index.SearchMemories(ctx, agentID, query, memorySearchLimit, memoryMinScore)
		if err != nil {
			lg.Warn("semantic memory search failed, using fallback", slog.Any("error", err))
		} else if len(hits) > 0 {
			out := make([]string, 0, len(hits))
			for _, h := range hits {
				line := h.Memory.Key + ": " + h.Memory.Value
				if h.Memory.Importance > 0.7 {
					line += " ⭐"
				}
				out = append(out, line)
			}
			return out
		}
	}
	mems, err := o.Memories.ListByAgent(ctx, agentID, memoryFallbackLimit)
	if err != nil {
		lg.Warn("failed to load agent memories", slog.Any("error", err))
		return nil
	}
	out := make([]string, 0, len(mems))
	for _, m := range mems {
		out = append(out, m.Key+": "+m.Value)
	}
	return out
}

// saveMetrics stamps task identity onto each dispatch attempt and
// persists them. Failed attempts are saved too; the failure stats feed
// the stats endpoints.
func (o *Orchestrator) saveMetrics(ctx context.Context, req ExecuteRequest, attempts []domain.ModelExecutionMetric) {
	for i := range attempts {
		attempts[i].TaskID = req.TaskID
		attempts[i].AgentID = req.AgentID
		if _, err := o.Metrics.Save(ctx, attempts[i]); err != nil {
			intobs.LoggerFromContext(ctx).Warn("failed to save execution metric", slog.Any("error", err))
		}
	}
}

// buildMessages lays out the chat transcript: system prompt first, then
// the recent history in order, then the new input.
func buildMessages(agent domain.AgentContext, input string) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(agent.ConversationHistory)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: systemPrompt(agent)})
	for _, msg := range agent.ConversationHistory {
		role := domain.RoleAssistant
		if msg.SenderType == "user" {
			role = domain.RoleUser
		}
		messages = append(messages, domain.ChatMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: input})
	return messages
}

func systemPrompt(agent domain.AgentContext) string {
	parts := []string{
		agent.SystemPrompt,
		"",
		"IMPORTANT GUIDELINES:",
		"- You are part of Synoffice, an AI-native digital office.",
		"- Respond professionally and helpfully.",
		"- Stay within your role and expertise.",
		"- If asked about something outside your expertise, acknowledge it and suggest the appropriate agent.",
		"",
	}
	if len(agent.Memories) > 0 {
		parts = append(parts, "RELEVANT MEMORIES:")
		for _, m := range agent.Memories {
			parts = append(parts, "- "+m)
		}
		parts = append(parts, "")
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
