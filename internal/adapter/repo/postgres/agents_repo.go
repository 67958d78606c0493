package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// AgentRepo loads agent identity and the template catalogue.
type AgentRepo struct{ Pool PgxPool }

// NewAgentRepo constructs an AgentRepo with the given pool.
func NewAgentRepo(p PgxPool) *AgentRepo { return &AgentRepo{Pool: p} }

// GetContext loads an active agent joined with its template. Instance
// overrides (custom_name, custom_system_prompt) win over template values
// when non-empty. Conversation history and memories are filled in by the
// caller; this only resolves identity and the system prompt.
func (r *AgentRepo) GetContext(ctx domain.Context, agentID string) (domain.AgentContext, error) {
	tracer := otel.Tracer("repo.agents")
	ctx, span := tracer.Start(ctx, "agents.GetContext")
	defer span.End()
	q := `SELECT a.id::text, a.custom_name, a.custom_system_prompt, t.name, t.role, t.system_prompt
	      FROM agents a
	      JOIN agent_templates t ON a.template_id = t.id
	      WHERE a.id = $1 AND a.is_active = true`
	var (
		id           string
		customName   *string
		customPrompt *string
		name         string
		role         string
		prompt       string
	)
	err := r.Pool.QueryRow(ctx, q, agentID).Scan(&id, &customName, &customPrompt, &name, &role, &prompt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.AgentContext{}, fmt.Errorf("op=agent.get_context: %w", domain.ErrNotFound)
		}
		return domain.AgentContext{}, fmt.Errorf("op=agent.get_context: %w", err)
	}
	if customName != nil && *customName != "" {
		name = *customName
	}
	if name == "" {
		name = "Agent"
	}
	if customPrompt != nil && *customPrompt != "" {
		prompt = *customPrompt
	}
	return domain.AgentContext{
		AgentID:      id,
		AgentName:    name,
		AgentRole:    role,
		SystemPrompt: prompt,
	}, nil
}

// ListTemplates returns all agent templates ordered by name.
func (r *AgentRepo) ListTemplates(ctx domain.Context) ([]domain.AgentTemplate, error) {
	tracer := otel.Tracer("repo.agents")
	ctx, span := tracer.Start(ctx, "agents.ListTemplates")
	defer span.End()
	q := `SELECT id::text, name, role, skill_tags FROM agent_templates ORDER BY name`
	rows, err := r.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("op=agent.list_templates: %w", err)
	}
	defer rows.Close()
	var templates []domain.AgentTemplate
	for rows.Next() {
		var t domain.AgentTemplate
		var tags []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.Role, &tags); err != nil {
			return nil, fmt.Errorf("op=agent.list_templates: %w", err)
		}
		// skill_tags is stored as JSON; null or malformed becomes empty.
		if len(tags) > 0 {
			_ = json.Unmarshal(tags, &t.SkillTags)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=agent.list_templates: %w", err)
	}
	return templates, nil
}
