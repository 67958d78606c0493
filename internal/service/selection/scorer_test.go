package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/policy"
)

func descriptor(name, provider, tier, speed string, window int, caps map[string]int) domain.ModelDescriptor {
	return domain.ModelDescriptor{
		Name:          name,
		Provider:      provider,
		CostTier:      tier,
		Speed:         speed,
		ContextWindow: window,
		Available:     true,
		Capabilities:  caps,
	}
}

func TestScore_OrderingAndSubscores(t *testing.T) {
	t.Parallel()
	s := NewScorer(policy.DefaultWeights())

	strong := descriptor("strong", "openai", domain.CostTierHigh, domain.SpeedMedium, 128000,
		map[string]int{"reasoning": 9, "coding": 9})
	weak := descriptor("weak", "ollama", domain.CostTierFree, domain.SpeedFast, 8000,
		map[string]int{"coding": 6})

	req := domain.TaskRequirements{
		RequiredCapabilities: map[string]float64{"coding": 0.9, "reasoning": 0.7},
		MinCapabilityScore:   7,
		MaxCostTier:          domain.CostTierHigh,
		ContextNeeded:        4000,
	}
	scored := s.Score([]domain.ModelDescriptor{weak, strong}, req)
	require.Len(t, scored, 2)

	// The qualified model ranks first regardless of input order.
	assert.Equal(t, "strong", scored[0].Model.Name)
	assert.True(t, scored[0].MeetsRequirements)
	assert.InDelta(t, 9.0, scored[0].CapabilityScore, 1e-9)

	// weak: coding 6*0.9 + reasoning missing→5*0.7 over 1.6 weight.
	assert.False(t, scored[1].MeetsRequirements)
	assert.InDelta(t, (6*0.9+5*0.7)/1.6, scored[1].CapabilityScore, 1e-9)

	// Subscore tables.
	assert.Equal(t, 2.0, scored[0].CostScore)
	assert.Equal(t, 6.0, scored[0].SpeedScore)
	assert.Equal(t, 9.0, scored[0].ReliabilityScore)
	assert.Equal(t, 10.0, scored[1].CostScore)
	assert.Equal(t, 10.0, scored[1].SpeedScore)
	assert.Equal(t, 6.0, scored[1].ReliabilityScore)
}

func TestScore_NoRequirementsUsesCoreAverage(t *testing.T) {
	t.Parallel()
	s := NewScorer(policy.DefaultWeights())

	m := descriptor("m", "openai", domain.CostTierLow, domain.SpeedFast, 16000,
		map[string]int{"reasoning": 8, "coding": 6})

	scored := s.Score([]domain.ModelDescriptor{m}, domain.TaskRequirements{
		MinCapabilityScore: 5,
		MaxCostTier:        domain.CostTierHigh,
		ContextNeeded:      4000,
	})
	require.Len(t, scored, 1)
	// (8 + 6 + 5 + 5 + 5) / 5: missing core capabilities count as 5.
	assert.InDelta(t, 5.8, scored[0].CapabilityScore, 1e-9)
	assert.True(t, scored[0].MeetsRequirements)
}

func TestScore_Disqualifications(t *testing.T) {
	t.Parallel()
	s := NewScorer(policy.DefaultWeights())

	base := domain.TaskRequirements{
		MinCapabilityScore: 5,
		MaxCostTier:        domain.CostTierHigh,
		ContextNeeded:      4000,
	}

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()
		m := descriptor("m", "openai", domain.CostTierLow, domain.SpeedFast, 16000, nil)
		m.Available = false
		out := s.Score([]domain.ModelDescriptor{m}, base)
		assert.True(t, out[0].Disqualified)
		assert.Equal(t, "Model is not available", out[0].Reason)
		assert.Zero(t, out[0].Total)
	})

	t.Run("requires local", func(t *testing.T) {
		t.Parallel()
		req := base
		req.RequiresLocal = true
		remote := descriptor("remote", "openai", domain.CostTierLow, domain.SpeedFast, 16000, nil)
		local := descriptor("local", "ollama", domain.CostTierFree, domain.SpeedFast, 16000, nil)
		out := s.Score([]domain.ModelDescriptor{remote, local}, req)
		byName := map[string]domain.ScoredModel{}
		for _, sm := range out {
			byName[sm.Model.Name] = sm
		}
		assert.True(t, byName["remote"].Disqualified)
		assert.Equal(t, "Task requires local model for sensitive content", byName["remote"].Reason)
		assert.False(t, byName["local"].Disqualified)
	})

	t.Run("context too small", func(t *testing.T) {
		t.Parallel()
		req := base
		req.ContextNeeded = 32000
		m := descriptor("m", "openai", domain.CostTierLow, domain.SpeedFast, 16000, nil)
		out := s.Score([]domain.ModelDescriptor{m}, req)
		assert.True(t, out[0].Disqualified)
		assert.Equal(t, "Insufficient context length (16000 < 32000)", out[0].Reason)
	})

	t.Run("cost ceiling", func(t *testing.T) {
		t.Parallel()
		req := base
		req.MaxCostTier = domain.CostTierLow
		m := descriptor("m", "openai", domain.CostTierHigh, domain.SpeedFast, 16000, nil)
		out := s.Score([]domain.ModelDescriptor{m}, req)
		assert.True(t, out[0].Disqualified)
		assert.Equal(t, "Cost level high exceeds maximum low", out[0].Reason)
	})
}

func TestScore_RelaxingNeverShrinksCandidates(t *testing.T) {
	t.Parallel()
	s := NewScorer(policy.DefaultWeights())

	fleet := []domain.ModelDescriptor{
		descriptor("frontier", "openai", domain.CostTierHigh, domain.SpeedMedium, 128000,
			map[string]int{"coding": 9}),
		descriptor("mid", "groq", domain.CostTierLow, domain.SpeedFast, 32000,
			map[string]int{"coding": 7}),
		descriptor("local", "ollama", domain.CostTierFree, domain.SpeedFast, 8000,
			map[string]int{"coding": 5}),
	}

	qualified := func(req domain.TaskRequirements) map[string]bool {
		out := map[string]bool{}
		for _, sm := range s.Score(fleet, req) {
			if !sm.Disqualified {
				out[sm.Model.Name] = true
			}
		}
		return out
	}

	// Each step relaxes exactly one dimension of the previous one.
	chain := []domain.TaskRequirements{
		{RequiresLocal: true, ContextNeeded: 16000, MaxCostTier: domain.CostTierFree, MinCapabilityScore: 5},
		{RequiresLocal: true, ContextNeeded: 4000, MaxCostTier: domain.CostTierFree, MinCapabilityScore: 5},
		{RequiresLocal: false, ContextNeeded: 4000, MaxCostTier: domain.CostTierFree, MinCapabilityScore: 5},
		{RequiresLocal: false, ContextNeeded: 4000, MaxCostTier: domain.CostTierLow, MinCapabilityScore: 5},
		{RequiresLocal: false, ContextNeeded: 4000, MaxCostTier: domain.CostTierHigh, MinCapabilityScore: 5},
	}

	prev := qualified(chain[0])
	for i, req := range chain[1:] {
		next := qualified(req)
		for name := range prev {
			assert.True(t, next[name], "step %d: %s dropped out after relaxing", i+1, name)
		}
		prev = next
	}
	assert.Len(t, prev, len(fleet), "fully relaxed requirements should admit every model")
}

func TestScore_LowerMinCapabilityNeverUnmeets(t *testing.T) {
	t.Parallel()
	s := NewScorer(policy.DefaultWeights())

	fleet := []domain.ModelDescriptor{
		descriptor("frontier", "openai", domain.CostTierHigh, domain.SpeedMedium, 128000,
			map[string]int{"coding": 9}),
		descriptor("mid", "groq", domain.CostTierLow, domain.SpeedFast, 32000,
			map[string]int{"coding": 7}),
	}
	req := domain.TaskRequirements{
		RequiredCapabilities: map[string]float64{"coding": 1.0},
		MaxCostTier:          domain.CostTierHigh,
		ContextNeeded:        4000,
	}

	meets := func(min float64) map[string]bool {
		r := req
		r.MinCapabilityScore = min
		out := map[string]bool{}
		for _, sm := range s.Score(fleet, r) {
			out[sm.Model.Name] = sm.MeetsRequirements
		}
		return out
	}

	strict, relaxed := meets(8), meets(5)
	for name, met := range strict {
		if met {
			assert.True(t, relaxed[name], "%s met the stricter floor but not the lower one", name)
		}
	}
	assert.False(t, strict["mid"])
	assert.True(t, relaxed["mid"])
}

func TestScore_WeightedTotal(t *testing.T) {
	t.Parallel()
	s := NewScorer(policy.DefaultWeights())

	m := descriptor("m", "groq", domain.CostTierLow, domain.SpeedFast, 32000,
		map[string]int{"coding": 8})
	req := domain.TaskRequirements{
		RequiredCapabilities: map[string]float64{"coding": 1.0},
		MinCapabilityScore:   5,
		MaxCostTier:          domain.CostTierHigh,
		ContextNeeded:        4000,
	}
	out := s.Score([]domain.ModelDescriptor{m}, req)
	require.Len(t, out, 1)
	want := 8.0*0.40 + 8.0*0.30 + 10.0*0.20 + 7.0*0.10
	assert.InDelta(t, want, out[0].Total, 1e-9)
}
