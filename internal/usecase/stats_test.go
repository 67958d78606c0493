package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func TestListAgents(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.agents.templates = []domain.AgentTemplate{
		{ID: "tpl-1", Name: "Analyst", Role: "analyst", SkillTags: []string{"analysis"}},
		{ID: "tpl-2", Name: "Developer", Role: "developer", SkillTags: []string{"code_generation"}},
	}
	o := f.orchestrator()

	templates, err := o.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Analyst", templates[0].Name)
}

func TestListAgents_Error(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.agents.tplErr = errors.New("pg down")
	o := f.orchestrator()

	_, err := o.ListAgents(context.Background())
	require.ErrorContains(t, err, "op=usecase.ListAgents")
}

func TestModelStats(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.metrics.stats = []domain.ModelStat{{Model: "gpt-4-turbo", Provider: "openai", Executions: 12, SuccessRate: 0.92}}
	o := f.orchestrator()

	stats, err := o.ModelStats(context.Background(), "gpt-4-turbo", 7)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(12), stats[0].Executions)
}

func TestRecentFailures(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.metrics.failures = []domain.ModelExecutionMetric{{SelectedModel: "gpt-4-turbo", Success: false, Error: "timeout"}}
	o := f.orchestrator()

	failures, err := o.RecentFailures(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "timeout", failures[0].Error)
}

func TestModelStats_Error(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.metrics.statsErr = errors.New("pg down")
	o := f.orchestrator()

	_, err := o.ModelStats(context.Background(), "", 7)
	require.ErrorContains(t, err, "op=usecase.ModelStats")
}
