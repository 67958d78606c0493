package usecase

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// ListAgents returns every available agent template ordered by name.
func (o *Orchestrator) ListAgents(ctx context.Context) ([]domain.AgentTemplate, error) {
	templates, err := o.Agents.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ListAgents: %w", err)
	}
	return templates, nil
}
