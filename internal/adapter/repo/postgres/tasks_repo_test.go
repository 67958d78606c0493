package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func TestTaskRepoCreate(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewTaskRepo(pool)

	id, err := repo.Create(context.Background(), domain.Task{
		ID:             "task-1",
		AgentID:        "agent-1",
		OfficeID:       "office-1",
		ConversationID: "conv-1",
		Input:          "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)

	require.Len(t, pool.execArgs, 1)
	args := pool.execArgs[0]
	require.Len(t, args, 12)
	assert.Equal(t, "task-1", args[0])
	assert.Equal(t, "office-1", args[1])
	assert.Equal(t, domain.TaskPending, args[4])
	assert.Equal(t, []byte("{}"), args[8])
	assert.Contains(t, pool.execSQL[0], "INSERT INTO tasks")
}

func TestTaskRepoCreateGeneratesID(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewTaskRepo(pool)

	id, err := repo.Create(context.Background(), domain.Task{AgentID: "a", OfficeID: "o", ConversationID: "c", Input: "x"})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
}

func TestTaskRepoCreateError(t *testing.T) {
	pool := &poolStub{execErr: assert.AnError}
	repo := postgres.NewTaskRepo(pool)

	_, err := repo.Create(context.Background(), domain.Task{ID: "task-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=task.create")
}

func TestTaskRepoCreateDuplicate(t *testing.T) {
	pool := &poolStub{execErr: &pgconn.PgError{Code: "23505", ConstraintName: "tasks_pkey"}}
	repo := postgres.NewTaskRepo(pool)

	_, err := repo.Create(context.Background(), domain.Task{ID: "task-1"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), `task "task-1"`)
}

func TestTaskRepoGet(t *testing.T) {
	started := time.Now().UTC().Add(-time.Minute)
	completed := time.Now().UTC()
	created := time.Now().UTC().Add(-2 * time.Minute)
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		return assign(dest,
			"task-1", "office-1", "conv-1", "agent-1", "done", "hello",
			"world", "", []byte(`{"total_tokens":30}`), &started, &completed, created)
	}}}
	repo := postgres.NewTaskRepo(pool)

	task, err := repo.Get(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, domain.TaskDone, task.Status)
	assert.Equal(t, "world", task.Output)
	assert.Equal(t, map[string]int{"total_tokens": 30}, task.TokenUsage)
	require.NotNil(t, task.StartedAt)
	assert.Equal(t, started, *task.StartedAt)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, []any{"task-1"}, pool.rowArgs)
}

func TestTaskRepoGetNotFound(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(...any) error { return pgx.ErrNoRows }}}
	repo := postgres.NewTaskRepo(pool)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepoUpdateStatusStampsStartedAt(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewTaskRepo(pool)

	require.NoError(t, repo.UpdateStatus(context.Background(), "task-1", domain.TaskWorking, nil, nil))

	args := pool.execArgs[0]
	require.Len(t, args, 6)
	assert.Equal(t, domain.TaskWorking, args[1])
	assert.Nil(t, args[2])
	assert.Nil(t, args[3])
	require.NotNil(t, args[4])
	assert.Nil(t, args[5])
}

func TestTaskRepoUpdateStatusStampsCompletedAt(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewTaskRepo(pool)

	output := "answer"
	require.NoError(t, repo.UpdateStatus(context.Background(), "task-1", domain.TaskDone, &output, nil))

	args := pool.execArgs[0]
	assert.Equal(t, &output, args[2])
	assert.Nil(t, args[4])
	require.NotNil(t, args[5])
	assert.Contains(t, pool.execSQL[0], "COALESCE(started_at, $5)")
}

func TestTaskRepoSetTokenUsage(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewTaskRepo(pool)

	usage := map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	require.NoError(t, repo.SetTokenUsage(context.Background(), "task-1", usage))

	args := pool.execArgs[0]
	var stored map[string]int
	require.NoError(t, json.Unmarshal(args[1].([]byte), &stored))
	assert.Equal(t, usage, stored)
}

func TestTaskRepoListStuck(t *testing.T) {
	created := time.Now().UTC().Add(-time.Hour)
	started := created.Add(time.Second)
	rows := &rowsStub{scans: []func(dest ...any) error{
		func(dest ...any) error {
			return assign(dest, "old-1", "o", "c", "a", "working", "in", "", "", []byte(nil), &started, nil, created)
		},
		func(dest ...any) error {
			return assign(dest, "old-2", "o", "c", "a", "thinking", "in", "", "", []byte(nil), &started, nil, created)
		},
	}}
	pool := &poolStub{rows: rows}
	repo := postgres.NewTaskRepo(pool)

	cutoff := time.Now().UTC().Add(-30 * time.Minute)
	stuck, err := repo.ListStuck(context.Background(), cutoff, 0)
	require.NoError(t, err)
	require.Len(t, stuck, 2)
	assert.Equal(t, "old-1", stuck[0].ID)
	assert.Equal(t, domain.TaskThinking, stuck[1].Status)

	assert.Contains(t, pool.querySQL, "status IN ('thinking', 'working')")
	assert.Equal(t, []any{cutoff, 50}, pool.queryArgs)
}

func TestTaskRepoListStuckQueryError(t *testing.T) {
	pool := &poolStub{queryErr: assert.AnError}
	repo := postgres.NewTaskRepo(pool)

	_, err := repo.ListStuck(context.Background(), time.Now(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=task.list_stuck")
}
