package postgres

import (
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// MemoryRepo is the plain key/value side of agent memory. Kind and
// importance only live in the vector index; this table is the durable
// fallback when semantic search is unavailable.
type MemoryRepo struct{ Pool PgxPool }

// NewMemoryRepo constructs a MemoryRepo with the given pool.
func NewMemoryRepo(p PgxPool) *MemoryRepo { return &MemoryRepo{Pool: p} }

// Upsert saves a memory, replacing the value when the (agent_id, key)
// pair already exists.
func (r *MemoryRepo) Upsert(ctx domain.Context, m domain.Memory) error {
	tracer := otel.Tracer("repo.memories")
	ctx, span := tracer.Start(ctx, "memories.Upsert")
	defer span.End()
	q := `INSERT INTO agent_memories (id, office_id, agent_id, key, value, created_at, updated_at)
	      VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW(), NOW())
	      ON CONFLICT (agent_id, key) DO UPDATE SET value = $4, updated_at = NOW()`
	if _, err := r.Pool.Exec(ctx, q, m.OfficeID, m.AgentID, m.Key, m.Value); err != nil {
		return fmt.Errorf("op=memory.upsert: %w", err)
	}
	return nil
}

// ListByAgent returns an agent's memories, most recently updated first.
func (r *MemoryRepo) ListByAgent(ctx domain.Context, agentID string, limit int) ([]domain.Memory, error) {
	tracer := otel.Tracer("repo.memories")
	ctx, span := tracer.Start(ctx, "memories.ListByAgent")
	defer span.End()
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id::text, office_id::text, agent_id::text, key, value, updated_at
	      FROM agent_memories
	      WHERE agent_id = $1
	      ORDER BY updated_at DESC
	      LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("op=memory.list_by_agent: %w", err)
	}
	defer rows.Close()
	var memories []domain.Memory
	for rows.Next() {
		var m domain.Memory
		if err := rows.Scan(&m.ID, &m.OfficeID, &m.AgentID, &m.Key, &m.Value, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("op=memory.list_by_agent: %w", err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=memory.list_by_agent: %w", err)
	}
	return memories, nil
}
