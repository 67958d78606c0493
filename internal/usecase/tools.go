package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	intobs "github.com/fairyhunter13/agent-orchestrator/internal/observability"
)

// ExecuteToolPlan runs an action plan under a grant-all permission
// scope. Callers that need real scoping resolve grants upstream and
// call the plan runner directly; this entry point exists for trusted
// internal traffic where the user already owns the office.
func (o *Orchestrator) ExecuteToolPlan(ctx context.Context, userID, officeID string, plan domain.ActionPlan) (domain.ExecutionResult, error) {
	if o.Tools == nil {
		return domain.ExecutionResult{}, fmt.Errorf("op=usecase.ExecuteToolPlan: tool executor not configured: %w", domain.ErrInternal)
	}
	if len(plan.Steps) == 0 {
		return domain.ExecutionResult{}, fmt.Errorf("op=usecase.ExecuteToolPlan: %w: plan has no steps", domain.ErrInvalidArgument)
	}

	ec := domain.ExecutionContext{
		ExecutionID: uuid.New().String(),
		UserID:      userID,
		OfficeID:    officeID,
		Permissions: domain.PermissionScope{
			UserID:        userID,
			OfficeID:      officeID,
			GrantedScopes: []string{"*"},
		},
	}
	intobs.LoggerFromContext(ctx).Info("executing tool plan",
		slog.String("execution_id", ec.ExecutionID),
		slog.String("goal", plan.Goal),
		slog.Int("steps", len(plan.Steps)),
		slog.Bool("parallel", plan.Parallel))
	return o.Tools.ExecutePlan(ctx, plan, ec), nil
}
