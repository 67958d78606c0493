package selection

import (
	"fmt"
	"sort"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/policy"
)

// Sub-score tables, all on a 0-10 scale.
var (
	costScores = map[string]float64{
		domain.CostTierFree:   10.0,
		domain.CostTierLow:    8.0,
		domain.CostTierMedium: 5.0,
		domain.CostTierHigh:   2.0,
	}
	speedScores = map[string]float64{
		domain.SpeedFast:   10.0,
		domain.SpeedMedium: 6.0,
		domain.SpeedSlow:   3.0,
	}
	reliabilityScores = map[string]float64{
		"openai":    9.0,
		"anthropic": 9.0,
		"groq":      7.0,
		"ollama":    6.0,
	}
)

// coreCapabilities is averaged when a task declares no requirements.
var coreCapabilities = []string{"reasoning", "coding", "summarization", "planning", "structured_output"}

// missingCapabilityScore is assumed when a model does not declare a
// capability the task asks for. Midpoint, forgiving.
const missingCapabilityScore = 5.0

// Scorer computes weighted suitability scores for models against a task
// profile.
type Scorer struct {
	weights policy.Weights
}

// NewScorer builds a scorer with the given weight table.
func NewScorer(weights policy.Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score evaluates every model against the requirements and returns them
// ordered by (MeetsRequirements, Total) descending. Disqualified models
// stay in the list with zeroed scores so callers can report why they
// were excluded.
func (s *Scorer) Score(models []domain.ModelDescriptor, req domain.TaskRequirements) []domain.ScoredModel {
	scored := make([]domain.ScoredModel, 0, len(models))
	for _, m := range models {
		scored = append(scored, s.scoreOne(m, req))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.MeetsRequirements != b.MeetsRequirements {
			return a.MeetsRequirements
		}
		return a.Total > b.Total
	})
	return scored
}

func (s *Scorer) scoreOne(m domain.ModelDescriptor, req domain.TaskRequirements) domain.ScoredModel {
	if reason := disqualify(m, req); reason != "" {
		return domain.ScoredModel{Model: m, Disqualified: true, Reason: reason}
	}

	capability := capabilityScore(m, req)
	speed := lookupScore(speedScores, m.Speed)
	cost := lookupScore(costScores, m.CostTier)
	reliability := lookupScore(reliabilityScores, m.Provider)

	total := capability*s.weights.Capability +
		speed*s.weights.Speed +
		cost*s.weights.Cost +
		reliability*s.weights.Reliability

	return domain.ScoredModel{
		Model:             m,
		Total:             total,
		CapabilityScore:   capability,
		SpeedScore:        speed,
		CostScore:         cost,
		ReliabilityScore:  reliability,
		MeetsRequirements: capability >= req.MinCapabilityScore,
	}
}

// disqualify returns a human-readable exclusion reason, or "" when the
// model stays in the running. The predicate is monotone: relaxing a
// requirement never disqualifies more models.
func disqualify(m domain.ModelDescriptor, req domain.TaskRequirements) string {
	if !m.Available {
		return "Model is not available"
	}
	if req.RequiresLocal && m.Provider != "ollama" {
		return "Task requires local model for sensitive content"
	}
	if m.ContextWindow < req.ContextNeeded {
		return fmt.Sprintf("Insufficient context length (%d < %d)", m.ContextWindow, req.ContextNeeded)
	}
	if domain.CostTierRank(m.CostTier) > domain.CostTierRank(req.MaxCostTier) {
		return fmt.Sprintf("Cost level %s exceeds maximum %s", m.CostTier, req.MaxCostTier)
	}
	return ""
}

func capabilityScore(m domain.ModelDescriptor, req domain.TaskRequirements) float64 {
	if len(req.RequiredCapabilities) == 0 && len(req.PreferredCapabilities) == 0 {
		sum := 0.0
		for _, name := range coreCapabilities {
			sum += modelCapability(m, name)
		}
		return sum / float64(len(coreCapabilities))
	}

	weighted, weightSum := 0.0, 0.0
	for cap, weight := range req.RequiredCapabilities {
		weighted += modelCapability(m, cap) * weight
		weightSum += weight
	}
	for cap, weight := range req.PreferredCapabilities {
		weighted += modelCapability(m, cap) * weight
		weightSum += weight
	}
	if weightSum == 0 {
		return missingCapabilityScore
	}
	return weighted / weightSum
}

func modelCapability(m domain.ModelDescriptor, name string) float64 {
	if score, ok := m.Capability(name); ok {
		return float64(score)
	}
	return missingCapabilityScore
}

func lookupScore(table map[string]float64, key string) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return 5.0
}
