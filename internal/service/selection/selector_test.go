package selection

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/policy"
)

type fakeCatalogue struct {
	models      []domain.ModelDescriptor
	defaultName string
}

func (f fakeCatalogue) Get(name string) (domain.ModelDescriptor, bool) {
	for _, m := range f.models {
		if m.Name == name {
			return m, true
		}
	}
	return domain.ModelDescriptor{}, false
}

func (f fakeCatalogue) Available() []domain.ModelDescriptor { return f.models }

func (f fakeCatalogue) DefaultFor(string) (domain.ModelDescriptor, bool) {
	return f.Get(f.defaultName)
}

type fakeProvider struct {
	name        string
	unavailable bool
	healthErr   error
	generateErr error
	content     string
	calls       int
}

func (f *fakeProvider) Name() string                         { return f.name }
func (f *fakeProvider) Available() bool                      { return !f.unavailable }
func (f *fakeProvider) HealthCheck(domain.Context) error     { return f.healthErr }
func (f *fakeProvider) Generate(_ domain.Context, _ []domain.ChatMessage, opts domain.GenerationOptions) (domain.GenerationResult, error) {
	f.calls++
	if f.generateErr != nil {
		return domain.GenerationResult{}, f.generateErr
	}
	return domain.GenerationResult{
		Content: f.content,
		TokenUsage: map[string]int{
			domain.TokenPrompt:     10,
			domain.TokenCompletion: 20,
			domain.TokenTotal:      30,
		},
		Model: opts.Model,
	}, nil
}

type fakeDirectory map[string]domain.ModelProvider

func (f fakeDirectory) Get(name string) (domain.ModelProvider, bool) {
	p, ok := f[name]
	return p, ok
}

type fakeBreaker struct {
	open      map[string]bool
	successes []string
	failures  []string
}

func (f *fakeBreaker) Allow(provider string) bool { return !f.open[provider] }
func (f *fakeBreaker) RecordSuccess(provider string) {
	f.successes = append(f.successes, provider)
}
func (f *fakeBreaker) RecordFailure(provider string) {
	f.failures = append(f.failures, provider)
}

type fakeThrottle struct{ denied map[string]bool }

func (f fakeThrottle) Acquire(_ context.Context, provider string) (bool, error) {
	return !f.denied[provider], nil
}

// defaultPolicies loads the built-in policy defaults (empty path falls
// back without touching disk).
func defaultPolicies() *policy.Engine { return policy.New("", true) }

func newTestSelector(cat fakeCatalogue, dir fakeDirectory, br *fakeBreaker) *Selector {
	return NewSelector(
		NewExtractor(nil),
		NewScorer(policy.DefaultWeights()),
		defaultPolicies(),
		cat,
		dir,
		br,
		nil,
		"gpt-4-turbo",
	)
}

func engineerFleet() fakeCatalogue {
	return fakeCatalogue{
		defaultName: "gpt-4-turbo",
		models: []domain.ModelDescriptor{
			descriptor("gpt-4-turbo", "openai", domain.CostTierHigh, domain.SpeedMedium, 128000,
				map[string]int{"reasoning": 9, "coding": 9}),
			descriptor("llama3", "ollama", domain.CostTierFree, domain.SpeedFast, 8000,
				map[string]int{"coding": 6}),
		},
	}
}

func TestSelect_PicksQualifiedModelWithReason(t *testing.T) {
	t.Parallel()
	sel := newTestSelector(engineerFleet(), nil, nil)

	res, err := sel.Select(context.Background(), "Write a Python function to sort a list", "Engineer", 0)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4-turbo", res.Selected.Name)
	assert.True(t, strings.HasPrefix(res.Reason, "Score: "))
	assert.Contains(t, res.Reason, "coding")
	assert.Contains(t, res.Reason, "Provider: openai")
	assert.Greater(t, res.Score, 0.0)
	// The unqualified local model still rides along as an alternative.
	require.Len(t, res.Alternatives, 1)
	assert.Equal(t, "llama3", res.Alternatives[0].Name)
}

func TestSelect_FallsBackToDefaultWhenNothingQualifies(t *testing.T) {
	t.Parallel()
	cat := fakeCatalogue{
		defaultName: "gpt-4-turbo",
		models: []domain.ModelDescriptor{
			descriptor("gpt-4-turbo", "openai", domain.CostTierHigh, domain.SpeedMedium, 128000,
				map[string]int{"coding": 3}),
		},
	}
	sel := newTestSelector(cat, nil, nil)

	// Engineer requires capability >= 7; the only model scores 3.
	res, err := sel.Select(context.Background(), "fix this bug", "Engineer", 0)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo", res.Selected.Name)
	assert.Equal(t, "Fallback to default model (no suitable match)", res.Reason)
	assert.Zero(t, res.Score)
	assert.Empty(t, res.Alternatives)
}

func TestSelect_NoModelsAtAllErrors(t *testing.T) {
	t.Parallel()
	sel := newTestSelector(fakeCatalogue{}, nil, nil)

	_, err := sel.Select(context.Background(), "hello", "", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestExecute_FirstCandidateSucceeds(t *testing.T) {
	t.Parallel()
	openai := &fakeProvider{name: "openai", content: "done"}
	br := &fakeBreaker{}
	sel := newTestSelector(engineerFleet(), fakeDirectory{"openai": openai}, br)

	selRes := domain.SelectionResult{
		Selected: engineerFleet().models[0],
		Score:    8.2,
	}
	res, metrics, err := sel.Execute(context.Background(), selRes, nil, domain.GenerationOptions{MaxTokens: 100})
	require.NoError(t, err)

	assert.Equal(t, "done", res.Content)
	assert.Equal(t, "gpt-4-turbo", res.Model)
	assert.Equal(t, "openai", res.Provider)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, 30, res.TokenUsage[domain.TokenTotal])

	require.Len(t, metrics, 1)
	assert.True(t, metrics[0].Success)
	assert.False(t, metrics[0].FallbackUsed)
	assert.Equal(t, 30, metrics[0].Tokens)
	assert.Equal(t, []string{"openai"}, br.successes)
	assert.Empty(t, br.failures)
}

func TestExecute_FallsBackToAlternative(t *testing.T) {
	t.Parallel()
	fleet := engineerFleet()
	broken := &fakeProvider{name: "openai", generateErr: errors.New("boom")}
	local := &fakeProvider{name: "ollama", content: "local says hi"}
	br := &fakeBreaker{}
	sel := newTestSelector(fleet, fakeDirectory{"openai": broken, "ollama": local}, br)

	selRes := domain.SelectionResult{
		Selected:     fleet.models[0],
		Alternatives: []domain.ModelDescriptor{fleet.models[1]},
	}
	res, metrics, err := sel.Execute(context.Background(), selRes, nil, domain.GenerationOptions{})
	require.NoError(t, err)

	assert.Equal(t, "local says hi", res.Content)
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, "llama3", res.Model)

	require.Len(t, metrics, 2)
	assert.False(t, metrics[0].Success)
	assert.Equal(t, "boom", metrics[0].Error)
	assert.True(t, metrics[1].Success)
	assert.True(t, metrics[1].FallbackUsed)
	assert.Equal(t, "llama3", metrics[1].FallbackModel)

	assert.Equal(t, []string{"openai"}, br.failures)
	assert.Equal(t, []string{"ollama"}, br.successes)
}

func TestExecute_OpenBreakerSkipsWithoutCountingFailure(t *testing.T) {
	t.Parallel()
	fleet := engineerFleet()
	blocked := &fakeProvider{name: "openai", content: "never called"}
	local := &fakeProvider{name: "ollama", content: "ok"}
	br := &fakeBreaker{open: map[string]bool{"openai": true}}
	sel := newTestSelector(fleet, fakeDirectory{"openai": blocked, "ollama": local}, br)

	selRes := domain.SelectionResult{
		Selected:     fleet.models[0],
		Alternatives: []domain.ModelDescriptor{fleet.models[1]},
	}
	res, metrics, err := sel.Execute(context.Background(), selRes, nil, domain.GenerationOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, blocked.calls)
	assert.Equal(t, "ok", res.Content)
	require.Len(t, metrics, 1)
	assert.Empty(t, br.failures, "breaker skip is not a provider failure")
}

func TestExecute_HealthCheckFailureSkips(t *testing.T) {
	t.Parallel()
	fleet := engineerFleet()
	sick := &fakeProvider{name: "openai", healthErr: errors.New("down")}
	local := &fakeProvider{name: "ollama", content: "ok"}
	sel := newTestSelector(fleet, fakeDirectory{"openai": sick, "ollama": local}, &fakeBreaker{})

	selRes := domain.SelectionResult{
		Selected:     fleet.models[0],
		Alternatives: []domain.ModelDescriptor{fleet.models[1]},
	}
	res, metrics, err := sel.Execute(context.Background(), selRes, nil, domain.GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, sick.calls)
	assert.Equal(t, "ok", res.Content)
	assert.Len(t, metrics, 1)
}

func TestExecute_ThrottleDenialSkips(t *testing.T) {
	t.Parallel()
	fleet := engineerFleet()
	busy := &fakeProvider{name: "openai", content: "nope"}
	local := &fakeProvider{name: "ollama", content: "ok"}
	sel := NewSelector(
		NewExtractor(nil),
		NewScorer(policy.DefaultWeights()),
		defaultPolicies(),
		fleet,
		fakeDirectory{"openai": busy, "ollama": local},
		nil,
		fakeThrottle{denied: map[string]bool{"openai": true}},
		"gpt-4-turbo",
	)

	selRes := domain.SelectionResult{
		Selected:     fleet.models[0],
		Alternatives: []domain.ModelDescriptor{fleet.models[1]},
	}
	res, _, err := sel.Execute(context.Background(), selRes, nil, domain.GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, busy.calls)
	assert.Equal(t, "ok", res.Content)
}

func TestExecute_AllFailuresReportTriedModels(t *testing.T) {
	t.Parallel()
	fleet := engineerFleet()
	p1 := &fakeProvider{name: "openai", generateErr: errors.New("one")}
	p2 := &fakeProvider{name: "ollama", generateErr: errors.New("two")}
	sel := newTestSelector(fleet, fakeDirectory{"openai": p1, "ollama": p2}, &fakeBreaker{})

	selRes := domain.SelectionResult{
		Selected:     fleet.models[0],
		Alternatives: []domain.ModelDescriptor{fleet.models[1]},
	}
	_, metrics, err := sel.Execute(context.Background(), selRes, nil, domain.GenerationOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpt-4-turbo")
	assert.Contains(t, err.Error(), "llama3")
	assert.Len(t, metrics, 2)
}

func TestExecute_AttemptBudgetCapsFallbackChain(t *testing.T) {
	t.Parallel()
	models := []domain.ModelDescriptor{
		descriptor("a", "p1", domain.CostTierLow, domain.SpeedFast, 16000, nil),
		descriptor("b", "p2", domain.CostTierLow, domain.SpeedFast, 16000, nil),
		descriptor("c", "p3", domain.CostTierLow, domain.SpeedFast, 16000, nil),
		descriptor("d", "p4", domain.CostTierLow, domain.SpeedFast, 16000, nil),
	}
	dir := fakeDirectory{}
	providers := make([]*fakeProvider, len(models))
	for i, m := range models {
		providers[i] = &fakeProvider{name: m.Provider, generateErr: errors.New("fail")}
		dir[m.Provider] = providers[i]
	}
	sel := newTestSelector(fakeCatalogue{models: models}, dir, &fakeBreaker{})

	selRes := domain.SelectionResult{Selected: models[0], Alternatives: models[1:]}
	_, metrics, err := sel.Execute(context.Background(), selRes, nil, domain.GenerationOptions{})
	require.Error(t, err)

	// Default policy allows max_retries=2, so three attempts total.
	assert.Len(t, metrics, 3)
	assert.Equal(t, 0, providers[3].calls)
}

func TestExecute_NothingAdmittedIsBreakerError(t *testing.T) {
	t.Parallel()
	fleet := engineerFleet()
	br := &fakeBreaker{open: map[string]bool{"openai": true, "ollama": true}}
	dir := fakeDirectory{
		"openai": &fakeProvider{name: "openai"},
		"ollama": &fakeProvider{name: "ollama"},
	}
	sel := newTestSelector(fleet, dir, br)

	selRes := domain.SelectionResult{
		Selected:     fleet.models[0],
		Alternatives: []domain.ModelDescriptor{fleet.models[1]},
	}
	_, _, err := sel.Execute(context.Background(), selRes, nil, domain.GenerationOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBreakerOpen)
}
