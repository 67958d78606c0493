package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// TaskRepo persists and loads tasks using a minimal pgx pool.
type TaskRepo struct{ Pool PgxPool }

// NewTaskRepo constructs a TaskRepo with the given pool.
func NewTaskRepo(p PgxPool) *TaskRepo { return &TaskRepo{Pool: p} }

// Id columns are cast to text so the string scan targets work no matter
// whether the backend declared them uuid or varchar.
const taskColumns = `id::text, office_id::text, conversation_id::text, agent_id::text, status, input,
	COALESCE(output, ''), COALESCE(error, ''), token_usage, started_at, completed_at, created_at`

// Create inserts a new task and returns its id (generates one if empty).
func (r *TaskRepo) Create(ctx domain.Context, t domain.Task) (string, error) {
	tracer := otel.Tracer("repo.tasks")
	ctx, span := tracer.Start(ctx, "tasks.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", "tasks"),
	)
	id := t.ID
	if id == "" {
		id = uuid.New().String()
	}
	status := t.Status
	if status == "" {
		status = domain.TaskPending
	}
	usage, err := json.Marshal(t.TokenUsage)
	if err != nil || t.TokenUsage == nil {
		usage = []byte("{}")
	}
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	q := `INSERT INTO tasks (id, office_id, conversation_id, agent_id, status, input, output, error, token_usage, started_at, completed_at, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err = r.Pool.Exec(ctx, q, id, t.OfficeID, t.ConversationID, t.AgentID, status, t.Input,
		nullableString(t.Output), nullableString(t.Error), usage, t.StartedAt, t.CompletedAt, created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("op=task.create: %w: task %q", domain.ErrConflict, id)
		}
		return "", fmt.Errorf("op=task.create: %w", err)
	}
	return id, nil
}

// Get loads a task by id.
func (r *TaskRepo) Get(ctx domain.Context, id string) (domain.Task, error) {
	tracer := otel.Tracer("repo.tasks")
	ctx, span := tracer.Start(ctx, "tasks.Get")
	defer span.End()
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Task{}, fmt.Errorf("op=task.get: %w", domain.ErrNotFound)
		}
		return domain.Task{}, fmt.Errorf("op=task.get: %w", err)
	}
	return t, nil
}

// UpdateStatus moves a task through its lifecycle. Output and errMsg only
// overwrite stored values when non-nil; started_at keeps its first stamp and
// completed_at is set on the transition to a terminal status.
func (r *TaskRepo) UpdateStatus(ctx domain.Context, id string, status domain.TaskStatus, output, errMsg *string) error {
	tracer := otel.Tracer("repo.tasks")
	ctx, span := tracer.Start(ctx, "tasks.UpdateStatus")
	defer span.End()
	now := time.Now().UTC()
	var startedAt, completedAt *time.Time
	if status == domain.TaskThinking || status == domain.TaskWorking {
		startedAt = &now
	}
	if status == domain.TaskDone || status == domain.TaskFailed {
		completedAt = &now
	}
	q := `UPDATE tasks
	      SET status = $2,
	          output = COALESCE($3, output),
	          error = COALESCE($4, error),
	          started_at = COALESCE(started_at, $5),
	          completed_at = COALESCE($6, completed_at)
	      WHERE id = $1`
	_, err := r.Pool.Exec(ctx, q, id, status, output, errMsg, startedAt, completedAt)
	if err != nil {
		return fmt.Errorf("op=task.update_status: %w", err)
	}
	return nil
}

// SetTokenUsage stores the token accounting for a task.
func (r *TaskRepo) SetTokenUsage(ctx domain.Context, id string, usage map[string]int) error {
	tracer := otel.Tracer("repo.tasks")
	ctx, span := tracer.Start(ctx, "tasks.SetTokenUsage")
	defer span.End()
	b, err := json.Marshal(usage)
	if err != nil || usage == nil {
		b = []byte("{}")
	}
	q := `UPDATE tasks SET token_usage = $2 WHERE id = $1`
	if _, err := r.Pool.Exec(ctx, q, id, b); err != nil {
		return fmt.Errorf("op=task.set_token_usage: %w", err)
	}
	return nil
}

// ListStuck returns in-flight tasks whose execution started before olderThan,
// oldest first. The sweeper uses this to fail tasks past the max age.
func (r *TaskRepo) ListStuck(ctx domain.Context, olderThan time.Time, limit int) ([]domain.Task, error) {
	tracer := otel.Tracer("repo.tasks")
	ctx, span := tracer.Start(ctx, "tasks.ListStuck")
	defer span.End()
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + taskColumns + ` FROM tasks
	      WHERE status IN ('thinking', 'working') AND started_at < $1
	      ORDER BY started_at ASC LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("op=task.list_stuck: %w", err)
	}
	defer rows.Close()
	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("op=task.list_stuck: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=task.list_stuck: %w", err)
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var t domain.Task
	var usage []byte
	if err := row.Scan(&t.ID, &t.OfficeID, &t.ConversationID, &t.AgentID, &t.Status, &t.Input,
		&t.Output, &t.Error, &usage, &t.StartedAt, &t.CompletedAt, &t.CreatedAt); err != nil {
		return domain.Task{}, err
	}
	if len(usage) > 0 {
		_ = json.Unmarshal(usage, &t.TokenUsage)
	}
	return t, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
