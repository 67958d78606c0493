package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	intobs "github.com/fairyhunter13/agent-orchestrator/internal/observability"
)

// EnqueueExecute persists the task as pending and hands it to the
// queue. On enqueue failure the task is marked failed so no row stays
// pending forever with nothing coming to pick it up. Returns the task
// id, which the repository generates when the request omits it.
func (o *Orchestrator) EnqueueExecute(ctx context.Context, req ExecuteRequest) (string, error) {
	if req.AgentID == "" || req.OfficeID == "" || req.ConversationID == "" || req.Input == "" {
		return "", fmt.Errorf("op=usecase.EnqueueExecute: %w: agent_id, office_id, conversation_id and input are required", domain.ErrInvalidArgument)
	}
	if o.Queue == nil {
		return "", fmt.Errorf("op=usecase.EnqueueExecute: queue not configured: %w", domain.ErrInternal)
	}

	taskID, err := o.Tasks.Create(ctx, domain.Task{
		ID:             req.TaskID,
		AgentID:        req.AgentID,
		OfficeID:       req.OfficeID,
		ConversationID: req.ConversationID,
		Input:          req.Input,
		Status:         domain.TaskPending,
	})
	if err != nil {
		return "", fmt.Errorf("op=usecase.EnqueueExecute: %w", err)
	}

	payload := domain.ExecuteTaskPayload{
		TaskID:         taskID,
		AgentID:        req.AgentID,
		OfficeID:       req.OfficeID,
		ConversationID: req.ConversationID,
		Input:          req.Input,
		RequestID:      intobs.RequestIDFromContext(ctx),
	}
	if _, err := o.Queue.EnqueueExecute(ctx, payload); err != nil {
		msg := "failed to enqueue task"
		if uerr := o.Tasks.UpdateStatus(ctx, taskID, domain.TaskFailed, nil, &msg); uerr != nil {
			intobs.LoggerFromContext(ctx).Error("failed to mark unenqueued task failed",
				slog.String("task_id", taskID),
				slog.Any("error", uerr))
		}
		return "", fmt.Errorf("op=usecase.EnqueueExecute: %w", err)
	}
	return taskID, nil
}
