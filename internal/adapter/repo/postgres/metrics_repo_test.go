package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func TestMetricsRepoEnsureSchema(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewMetricsRepo(pool)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.Len(t, pool.execSQL, 6)
	assert.Contains(t, pool.execSQL[0], "CREATE TABLE IF NOT EXISTS model_execution_metrics")
	assert.Contains(t, pool.execSQL[5], "CREATE TABLE IF NOT EXISTS rate_limit_buckets")
}

func TestMetricsRepoEnsureSchemaError(t *testing.T) {
	pool := &poolStub{execErr: assert.AnError}
	repo := postgres.NewMetricsRepo(pool)

	err := repo.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=metrics.ensure_schema")
}

func TestMetricsRepoSave(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		return assign(dest, "metric-1")
	}}}
	repo := postgres.NewMetricsRepo(pool)

	id, err := repo.Save(context.Background(), domain.ModelExecutionMetric{
		TaskID:                 "task-1",
		AgentID:                "agent-1",
		SelectedModel:          "gpt-4o-mini",
		Provider:               "openai",
		AlternativesConsidered: []string{"claude-3-haiku"},
		CapabilityMatchScore:   7.5,
		TotalScore:             8.2,
		LatencyMS:              420,
		PromptTokens:           100,
		CompletionTokens:       40,
		Tokens:                 140,
		EstimatedCost:          0.004,
		Success:                true,
	})
	require.NoError(t, err)
	assert.Equal(t, "metric-1", id)

	require.Len(t, pool.rowArgs, 17)
	assert.Equal(t, "task-1", pool.rowArgs[0])
	assert.Equal(t, []string{"claude-3-haiku"}, pool.rowArgs[4])
	assert.Equal(t, 100, pool.rowArgs[8])
	// Empty error and fallback model become NULL, not empty strings.
	assert.Nil(t, pool.rowArgs[13])
	assert.Nil(t, pool.rowArgs[15])
	assert.Contains(t, pool.rowSQL, "RETURNING id::text")
}

func TestMetricsRepoStatsAllModels(t *testing.T) {
	rows := &rowsStub{scans: []func(dest ...any) error{
		func(dest ...any) error {
			return assign(dest, "gpt-4o-mini", "openai", int64(10), int64(9), 350.0, int64(4200), 0.12, int64(2))
		},
		func(dest ...any) error {
			return assign(dest, "llama3", "ollama", int64(4), int64(4), 900.0, int64(1800), 0.0, int64(0))
		},
	}}
	pool := &poolStub{rows: rows}
	repo := postgres.NewMetricsRepo(pool)

	stats, err := repo.Stats(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "gpt-4o-mini", stats[0].Model)
	assert.InDelta(t, 0.9, stats[0].SuccessRate, 1e-9)
	assert.InDelta(t, 0.2, stats[0].FallbackRate, 1e-9)
	assert.InDelta(t, 1.0, stats[1].SuccessRate, 1e-9)

	assert.Contains(t, pool.querySQL, "ORDER BY total_calls DESC")
	require.Len(t, pool.queryArgs, 1)
	since, ok := pool.queryArgs[0].(time.Time)
	require.True(t, ok)
	// Default window is seven days.
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -7), since, time.Minute)
}

func TestMetricsRepoStatsFiltered(t *testing.T) {
	pool := &poolStub{rows: &rowsStub{}}
	repo := postgres.NewMetricsRepo(pool)

	stats, err := repo.Stats(context.Background(), "gpt-4o-mini", 30)
	require.NoError(t, err)
	assert.Empty(t, stats)

	assert.Contains(t, pool.querySQL, "selected_model = $2")
	require.Len(t, pool.queryArgs, 2)
	assert.Equal(t, "gpt-4o-mini", pool.queryArgs[1])
}

func TestMetricsRepoRecentFailures(t *testing.T) {
	created := time.Now().UTC()
	rows := &rowsStub{scans: []func(dest ...any) error{
		func(dest ...any) error {
			return assign(dest, "task-9", "agent-2", "gpt-4o-mini", "openai", "rate limited", created)
		},
	}}
	pool := &poolStub{rows: rows}
	repo := postgres.NewMetricsRepo(pool)

	failures, err := repo.RecentFailures(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "task-9", failures[0].TaskID)
	assert.Equal(t, "rate limited", failures[0].Error)
	assert.False(t, failures[0].Success)

	assert.Contains(t, pool.querySQL, "WHERE success = FALSE")
	assert.Equal(t, []any{10}, pool.queryArgs)
}

func TestMetricsRepoSaveError(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(...any) error { return assert.AnError }}}
	repo := postgres.NewMetricsRepo(pool)

	_, err := repo.Save(context.Background(), domain.ModelExecutionMetric{TaskID: "task-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=metrics.save")
}
