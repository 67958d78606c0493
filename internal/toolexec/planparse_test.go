package toolexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func TestParsePlanFencedBlock(t *testing.T) {
	text := "Here is the plan:\n```json\n" + `{
  "goal": "Report quarterly numbers",
  "execution_id": "e-42",
  "parallel_execution": true,
  "steps": [
    {
      "step_id": "s1",
      "tool": "google_sheets_read",
      "inputs": {"spreadsheet_id": "abc", "range": "A1:B2"}
    },
    {
      "step_id": "s2",
      "tool": "text_processing",
      "inputs": {"input": "$steps.s1.values"},
      "depends_on": ["s1"],
      "failure_handling": "continue",
      "timeout_override": 5,
      "retry": {"strategy": "fixed", "max_attempts": 2, "delay_seconds": 0.5}
    }
  ]
}` + "\n```\nLet me know how it goes."

	plan, ok := ParsePlan(text)
	require.True(t, ok)
	assert.Equal(t, "Report quarterly numbers", plan.Goal)
	assert.Equal(t, "e-42", plan.ExecutionID)
	assert.True(t, plan.Parallel)
	require.Len(t, plan.Steps, 2)

	s2 := plan.Steps[1]
	assert.Equal(t, "s2", s2.StepID)
	assert.Equal(t, []string{"s1"}, s2.DependsOn)
	assert.Equal(t, "continue", s2.OnFailure)
	assert.Equal(t, 5, s2.TimeoutOverride)
	require.NotNil(t, s2.Retry)
	assert.Equal(t, domain.RetryFixed, s2.Retry.Strategy)
	assert.Equal(t, 2, s2.Retry.MaxAttempts)
	assert.Equal(t, 0.5, s2.Retry.DelaySeconds)
}

func TestParsePlanBareBraces(t *testing.T) {
	text := `Sure, executing now: {"goal": "g", "steps": [{"step_id": "s1", "tool": "echo", "inputs": {}}]} done.`
	plan, ok := ParsePlan(text)
	require.True(t, ok)
	assert.Equal(t, "g", plan.Goal)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "echo", plan.Steps[0].Tool)
}

func TestParsePlanWholeText(t *testing.T) {
	// No fences, no prose: the raw body is the candidate. The brace
	// extractor happens to grab the same thing.
	plan, ok := ParsePlan(`{"steps": [{"step_id": "s1", "tool": "echo"}]}`)
	require.True(t, ok)
	require.Len(t, plan.Steps, 1)
}

func TestParsePlanPlainText(t *testing.T) {
	plan, ok := ParsePlan("I could not find any spreadsheets matching that name.")
	assert.False(t, ok)
	assert.Nil(t, plan)
}

func TestParsePlanEmptySteps(t *testing.T) {
	plan, ok := ParsePlan(`{"goal": "nothing to do", "steps": []}`)
	assert.False(t, ok)
	assert.Nil(t, plan)

	plan, ok = ParsePlan(`{"goal": "no steps key"}`)
	assert.False(t, ok)
	assert.Nil(t, plan)
}

func TestParsePlanGarbledBlock(t *testing.T) {
	// An extracted block that fails to decode is discarded, not
	// retried against the surrounding text.
	plan, ok := ParsePlan("```json\n{\"steps\": [broken\n```")
	assert.False(t, ok)
	assert.Nil(t, plan)
}
