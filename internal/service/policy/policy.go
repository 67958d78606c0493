// Package policy applies organizational constraints to ranked model
// candidates: restricted-content routing, local-model preference, and
// provider priority tie-breaking. It also carries the scoring weight and
// cost tables the rest of the selection pipeline reads.
package policy

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// Weights is the scoring weight table. The four fields should sum to 1.
type Weights struct {
	Capability  float64 `yaml:"capability_match"`
	Cost        float64 `yaml:"cost_efficiency"`
	Speed       float64 `yaml:"speed"`
	Reliability float64 `yaml:"reliability"`
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{Capability: 0.40, Cost: 0.30, Speed: 0.20, Reliability: 0.10}
}

// CreditRate is the per-1K-token credit pricing for one cost tier.
type CreditRate struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// RoleProfile maps an agent role to its capability requirements.
type RoleProfile struct {
	Required  map[string]float64
	Preferred map[string]float64
	MinScore  float64
}

type restriction struct {
	re       *regexp.Regexp
	allowed  map[string]bool
	reason   string
	original string
}

type policiesFile struct {
	Policies struct {
		PreferLocal              *bool    `yaml:"prefer_local"`
		LocalCapabilityThreshold *float64 `yaml:"local_capability_threshold"`
		FallbackEnabled          *bool    `yaml:"fallback_enabled"`
		MaxRetries               *int     `yaml:"max_retries"`
		Weights                  *Weights `yaml:"weights"`
	} `yaml:"policies"`
	RestrictedPatterns []struct {
		Pattern          string   `yaml:"pattern"`
		AllowedProviders []string `yaml:"allowed_providers"`
		Reason           string   `yaml:"reason"`
	} `yaml:"restricted_patterns"`
	ProviderPriority []string               `yaml:"provider_priority"`
	CostLevels       map[string]float64     `yaml:"cost_levels"`
	CreditLevels     map[string]CreditRate  `yaml:"credit_levels"`
	RoleCapabilities map[string]roleEntries `yaml:"role_capabilities"`
}

type roleEntries struct {
	Required  []string `yaml:"required"`
	Preferred []string `yaml:"preferred"`
	MinScore  float64  `yaml:"min_score"`
}

// Engine holds the loaded policy tables. Read-only after New.
type Engine struct {
	preferLocal     bool
	localThreshold  float64
	fallbackEnabled bool
	maxRetries      int
	weights         Weights
	restrictions    []restriction
	priority        map[string]int
	usdPer1K        map[string]float64
	creditRates     map[string]CreditRate
	roles           map[string]RoleProfile
}

// New loads policies.yaml from path. preferLocal seeds the local-routing
// default and holds unless the file sets policies.prefer_local. A missing
// or malformed file is absorbed with built-in defaults and a warning,
// mirroring the registry's never-fatal config handling.
func New(path string, preferLocal bool) *Engine {
	e := defaultEngine()
	e.preferLocal = preferLocal
	if err := e.loadFile(path); err != nil {
		slog.Warn("policies config unusable, using defaults",
			slog.String("path", path),
			slog.Any("error", err))
		e = defaultEngine()
		e.preferLocal = preferLocal
		return e
	}
	slog.Info("policy engine loaded",
		slog.Bool("prefer_local", e.preferLocal),
		slog.Int("restricted_patterns", len(e.restrictions)),
		slog.Int("roles", len(e.roles)))
	return e
}

func defaultEngine() *Engine {
	return &Engine{
		preferLocal:     true,
		localThreshold:  6.0,
		fallbackEnabled: true,
		maxRetries:      2,
		weights:         DefaultWeights(),
		priority:        priorityIndex([]string{"ollama", "groq", "openai", "anthropic"}),
		usdPer1K: map[string]float64{
			domain.CostTierFree:   0.0,
			domain.CostTierLow:    0.001,
			domain.CostTierMedium: 0.01,
			domain.CostTierHigh:   0.03,
		},
		creditRates: map[string]CreditRate{
			domain.CostTierFree:   {Input: 0, Output: 0},
			domain.CostTierLow:    {Input: 1, Output: 2},
			domain.CostTierMedium: {Input: 5, Output: 10},
			domain.CostTierHigh:   {Input: 25, Output: 50},
		},
		roles: map[string]RoleProfile{},
	}
}

func (e *Engine) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("op=policy.loadFile: %w", err)
	}
	var f policiesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("op=policy.loadFile: %w", err)
	}

	if f.Policies.PreferLocal != nil {
		e.preferLocal = *f.Policies.PreferLocal
	}
	if f.Policies.LocalCapabilityThreshold != nil {
		e.localThreshold = *f.Policies.LocalCapabilityThreshold
	}
	if f.Policies.FallbackEnabled != nil {
		e.fallbackEnabled = *f.Policies.FallbackEnabled
	}
	if f.Policies.MaxRetries != nil {
		e.maxRetries = *f.Policies.MaxRetries
	}
	if f.Policies.Weights != nil {
		e.weights = *f.Policies.Weights
	}
	for _, rp := range f.RestrictedPatterns {
		re, err := regexp.Compile("(?i)" + rp.Pattern)
		if err != nil {
			return fmt.Errorf("op=policy.loadFile: pattern %q: %w", rp.Pattern, err)
		}
		allowed := make(map[string]bool, len(rp.AllowedProviders))
		for _, p := range rp.AllowedProviders {
			allowed[p] = true
		}
		e.restrictions = append(e.restrictions, restriction{
			re:       re,
			allowed:  allowed,
			reason:   rp.Reason,
			original: rp.Pattern,
		})
	}
	if len(f.ProviderPriority) > 0 {
		e.priority = priorityIndex(f.ProviderPriority)
	}
	for tier, usd := range f.CostLevels {
		e.usdPer1K[tier] = usd
	}
	for tier, rate := range f.CreditLevels {
		e.creditRates[tier] = rate
	}
	for role, entry := range f.RoleCapabilities {
		profile := RoleProfile{
			Required:  make(map[string]float64, len(entry.Required)),
			Preferred: make(map[string]float64, len(entry.Preferred)),
			MinScore:  entry.MinScore,
		}
		for _, cap := range entry.Required {
			profile.Required[cap] = 0.8
		}
		for _, cap := range entry.Preferred {
			profile.Preferred[cap] = 0.5
		}
		if profile.MinScore == 0 {
			profile.MinScore = 5
		}
		e.roles[role] = profile
	}
	return nil
}

func priorityIndex(order []string) map[string]int {
	idx := make(map[string]int, len(order))
	for i, p := range order {
		idx[p] = i
	}
	return idx
}

// Filter applies restriction routing, the local-preference boost, and
// provider-priority tie-breaking to an already ranked candidate list. The
// output is always a permutation of a subset of the input.
func (e *Engine) Filter(scored []domain.ScoredModel, input string) []domain.ScoredModel {
	out := make([]domain.ScoredModel, len(scored))
	copy(out, scored)

	if allowed, reason, matched := e.Restriction(input); matched {
		filtered := out[:0]
		for _, s := range out {
			if allowed[s.Model.Provider] {
				filtered = append(filtered, s)
			}
		}
		out = filtered
		slog.Info("restricted content routing applied",
			slog.String("reason", reason),
			slog.Int("remaining", len(out)))
	}

	if e.preferLocal {
		boosted := false
		for i := range out {
			if out[i].Model.Provider == "ollama" && out[i].CapabilityScore >= e.localThreshold {
				out[i].Total += 0.5
				boosted = true
			}
		}
		if boosted {
			sortByRank(out, nil)
		}
	}

	if len(e.priority) > 0 {
		sortByRank(out, e.priority)
	}
	return out
}

// Restriction reports the first restricted-data pattern matching input,
// with the provider allowlist it imposes.
func (e *Engine) Restriction(input string) (allowed map[string]bool, reason string, matched bool) {
	lower := strings.ToLower(input)
	for _, r := range e.restrictions {
		if r.re.MatchString(lower) {
			reason = r.reason
			if reason == "" {
				reason = "Policy restriction"
			}
			return r.allowed, reason, true
		}
	}
	return nil, "", false
}

// sortByRank orders by (MeetsRequirements, Total) descending; when a
// priority index is supplied, equal keys break toward the earlier
// provider. Stable so equal candidates keep their incoming order.
func sortByRank(scored []domain.ScoredModel, priority map[string]int) {
	rank := func(provider string) int {
		if priority == nil {
			return 0
		}
		if p, ok := priority[provider]; ok {
			return p
		}
		return 999
	}
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.MeetsRequirements != b.MeetsRequirements {
			return a.MeetsRequirements
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return rank(a.Model.Provider) < rank(b.Model.Provider)
	})
}

// FallbackEnabled reports whether dispatch may try alternatives.
func (e *Engine) FallbackEnabled() bool { return e.fallbackEnabled }

// MaxRetries is the fallback attempt budget beyond the first candidate.
func (e *Engine) MaxRetries() int { return e.maxRetries }

// Weights returns the scoring weight table.
func (e *Engine) Weights() Weights { return e.weights }

// USDPer1K returns the reporting USD price per 1K tokens for a tier.
// Unknown tiers price at 0.01, matching the estimator's fallback.
func (e *Engine) USDPer1K(tier string) float64 {
	if usd, ok := e.usdPer1K[tier]; ok {
		return usd
	}
	return 0.01
}

// CreditRate returns the per-1K credit pricing for a tier.
func (e *Engine) CreditRate(tier string) CreditRate {
	if rate, ok := e.creditRates[tier]; ok {
		return rate
	}
	return e.creditRates[domain.CostTierMedium]
}

// RoleProfiles returns role capability overrides from configuration.
func (e *Engine) RoleProfiles() map[string]RoleProfile { return e.roles }
