// Package budget guards credit spend around model execution: pre-dispatch
// cost estimation, hourly and daily rate windows, and anomaly detection
// for runaway consumption.
package budget

import (
	"math"
	"strings"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/policy"
)

// Token assumptions used when a request carries nothing to count.
const (
	DefaultInputTokens  = 1000
	DefaultOutputTokens = 500
)

type usdRate struct {
	input  float64
	output float64
}

// Per-1K USD pricing by tier, used when a descriptor carries no explicit
// prices. Reporting only; credits are the billing unit.
var fallbackUSDPer1K = map[string]usdRate{
	domain.CostTierFree:   {input: 0, output: 0},
	domain.CostTierLow:    {input: 0.00006, output: 0.00024},
	domain.CostTierMedium: {input: 0.0005, output: 0.0015},
	domain.CostTierHigh:   {input: 0.005, output: 0.015},
}

// TierRates resolves per-tier credit pricing, normally *policy.Engine.
type TierRates interface {
	CreditRate(tier string) policy.CreditRate
}

type promptCounter interface {
	CountPrompt(model, input string, history []string) int
}

// Estimator projects credit cost before dispatch and reconciles it from
// reported token usage afterwards.
type Estimator struct {
	counter promptCounter
	rates   TierRates
}

// NewEstimator builds an estimator backed by a tiktoken counter.
func NewEstimator(rates TierRates) *Estimator {
	return &Estimator{counter: NewCounter(), rates: rates}
}

// Estimate projects the credit cost of a request. Input tokens are counted
// from the prompt and prior turns; the output side uses the default
// assumption. Estimates round up, and non-free models carry a floor of one
// credit.
func (e *Estimator) Estimate(model domain.ModelDescriptor, input string, history []domain.Message) domain.CreditEstimate {
	inTokens := DefaultInputTokens
	if input != "" || len(history) > 0 {
		contents := make([]string, 0, len(history))
		for _, m := range history {
			contents = append(contents, m.Content)
		}
		inTokens = e.counter.CountPrompt(model.Name, input, contents)
	}
	outTokens := DefaultOutputTokens

	rate := e.creditRate(model)
	raw := float64(inTokens)/1000*rate.Input + float64(outTokens)/1000*rate.Output
	credits := math.Ceil(raw)

	free := e.tierOf(model) == domain.CostTierFree
	if !free && credits < 1 {
		credits = 1
	}
	return domain.CreditEstimate{
		InputTokens:     inTokens,
		EstOutputTokens: outTokens,
		Credits:         credits,
		Free:            free,
	}
}

// Actual reconciles consumed credits from reported token usage. Rounds to
// the nearest credit with a floor of one for non-free models; an execution
// that used no tokens at all costs nothing.
func (e *Estimator) Actual(model domain.ModelDescriptor, inputTokens, outputTokens int) float64 {
	if inputTokens == 0 && outputTokens == 0 {
		return 0
	}
	rate := e.creditRate(model)
	raw := float64(inputTokens)/1000*rate.Input + float64(outputTokens)/1000*rate.Output
	credits := math.Round(raw)
	if e.tierOf(model) != domain.CostTierFree && credits < 1 {
		credits = 1
	}
	return credits
}

// ActualUSD reports the dollar cost of an execution for metrics.
func (e *Estimator) ActualUSD(model domain.ModelDescriptor, inputTokens, outputTokens int) float64 {
	in, out := e.usdRates(model)
	cost := float64(inputTokens)/1000*in + float64(outputTokens)/1000*out
	return math.Round(cost*1e6) / 1e6
}

func (e *Estimator) creditRate(model domain.ModelDescriptor) policy.CreditRate {
	if model.CreditsPer1KInput > 0 || model.CreditsPer1KOutput > 0 {
		return policy.CreditRate{Input: model.CreditsPer1KInput, Output: model.CreditsPer1KOutput}
	}
	return e.rates.CreditRate(e.tierOf(model))
}

func (e *Estimator) usdRates(model domain.ModelDescriptor) (float64, float64) {
	if model.PricePer1KInput > 0 || model.PricePer1KOutput > 0 {
		return model.PricePer1KInput, model.PricePer1KOutput
	}
	rate, ok := fallbackUSDPer1K[e.tierOf(model)]
	if !ok {
		rate = fallbackUSDPer1K[domain.CostTierMedium]
	}
	return rate.input, rate.output
}

func (e *Estimator) tierOf(model domain.ModelDescriptor) string {
	if model.CostTier != "" {
		return model.CostTier
	}
	return TierFor(model.Name, model.Provider)
}

// TierFor infers a cost tier for models whose catalogue entry does not
// declare one. Local models are free, Groq-hosted ones cheap, and frontier
// models expensive.
func TierFor(modelName, provider string) string {
	switch provider {
	case "ollama":
		return domain.CostTierFree
	case "groq":
		return domain.CostTierLow
	}

	name := strings.ToLower(modelName)
	switch {
	case strings.Contains(name, "gpt-4"),
		strings.Contains(name, "claude-3-opus"),
		strings.Contains(name, "claude-3-5-sonnet"):
		return domain.CostTierHigh
	}
	return domain.CostTierMedium
}
