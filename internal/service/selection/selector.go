package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// ModelCatalogue is the registry surface the selector needs.
type ModelCatalogue interface {
	Get(name string) (domain.ModelDescriptor, bool)
	Available() []domain.ModelDescriptor
	DefaultFor(provider string) (domain.ModelDescriptor, bool)
}

// PolicyFilter applies organizational constraints to ranked candidates.
type PolicyFilter interface {
	Filter(scored []domain.ScoredModel, input string) []domain.ScoredModel
	FallbackEnabled() bool
	MaxRetries() int
}

// ProviderDirectory resolves provider adapters by name.
type ProviderDirectory interface {
	Get(name string) (domain.ModelProvider, bool)
}

// Breaker gates dispatch per provider.
type Breaker interface {
	Allow(provider string) bool
	RecordSuccess(provider string)
	RecordFailure(provider string)
}

// Throttle limits the provider call rate. Acquire consumes one token and
// reports admission; implementations fail open on infrastructure errors.
type Throttle interface {
	Acquire(ctx context.Context, provider string) (bool, error)
}

// Selector picks the best model for a task and dispatches generation
// with ordered fallback across the ranked alternatives.
type Selector struct {
	extractor    *Extractor
	scorer       *Scorer
	policies     PolicyFilter
	catalogue    ModelCatalogue
	providers    ProviderDirectory
	breaker      Breaker
	throttle     Throttle
	defaultModel string
}

// NewSelector wires the selection pipeline. breaker and throttle may be
// nil; dispatch then skips those gates.
func NewSelector(
	extractor *Extractor,
	scorer *Scorer,
	policies PolicyFilter,
	catalogue ModelCatalogue,
	providers ProviderDirectory,
	breaker Breaker,
	throttle Throttle,
	defaultModel string,
) *Selector {
	return &Selector{
		extractor:    extractor,
		scorer:       scorer,
		policies:     policies,
		catalogue:    catalogue,
		providers:    providers,
		breaker:      breaker,
		throttle:     throttle,
		defaultModel: defaultModel,
	}
}

// fallbackReason is the fixed selection reason when no candidate
// qualifies and the configured default model is used instead.
const fallbackReason = "Fallback to default model (no suitable match)"

// Select runs extract, score, and policy filtering, then picks the top
// candidate. When nothing qualifies it falls back to the configured
// default model.
func (s *Selector) Select(ctx context.Context, input, agentRole string, contextHint int) (domain.SelectionResult, error) {
	req := s.extractor.Extract(input, agentRole, contextHint)

	models := s.catalogue.Available()
	if len(models) == 0 {
		return domain.SelectionResult{}, fmt.Errorf("op=selection.Select: no models available: %w", domain.ErrInternal)
	}

	scored := s.scorer.Score(models, req)
	filtered := s.policies.Filter(scored, input)

	if len(filtered) == 0 || !filtered[0].MeetsRequirements {
		fallback, ok := s.defaultDescriptor()
		if !ok {
			return domain.SelectionResult{}, fmt.Errorf("op=selection.Select: no suitable model and no default available: %w", domain.ErrInternal)
		}
		slog.Info("model selection fell back to default",
			slog.String("model", fallback.Name),
			slog.Int("candidates", len(filtered)))
		observability.ObserveSelection(fallback.Name, fallback.Provider, true)
		return domain.SelectionResult{
			Selected:     fallback,
			Score:        0,
			Reason:       fallbackReason,
			Requirements: req,
		}, nil
	}

	best := filtered[0]
	alternatives := make([]domain.ModelDescriptor, 0, 4)
	for _, alt := range filtered[1:] {
		if len(alternatives) == 4 {
			break
		}
		alternatives = append(alternatives, alt.Model)
	}

	result := domain.SelectionResult{
		Selected:     best.Model,
		Score:        best.Total,
		Reason:       selectionReason(best, req),
		Alternatives: alternatives,
		Requirements: req,
	}
	slog.Debug("model selected",
		slog.String("model", best.Model.Name),
		slog.String("provider", best.Model.Provider),
		slog.Float64("score", best.Total),
		slog.Int("alternatives", len(alternatives)))
	observability.ObserveSelection(best.Model.Name, best.Model.Provider, false)
	return result, nil
}

func (s *Selector) defaultDescriptor() (domain.ModelDescriptor, bool) {
	if s.defaultModel != "" {
		if d, ok := s.catalogue.Get(s.defaultModel); ok {
			return d, true
		}
	}
	return s.catalogue.DefaultFor("openai")
}

func selectionReason(best domain.ScoredModel, req domain.TaskRequirements) string {
	parts := []string{fmt.Sprintf("Score: %.2f", best.Total)}
	if len(req.RequiredCapabilities) > 0 {
		caps := make([]string, 0, len(req.RequiredCapabilities))
		for cap := range req.RequiredCapabilities {
			caps = append(caps, cap)
		}
		sort.Strings(caps)
		if len(caps) > 3 {
			caps = caps[:3]
		}
		parts = append(parts, "Matched: "+strings.Join(caps, ", "))
	}
	parts = append(parts, "Provider: "+best.Model.Provider)
	return strings.Join(parts, " | ")
}

// Execute dispatches generation against the selected model, falling back
// through the alternatives in rank order. It returns the successful
// result plus one execution metric per attempt (task and agent ids are
// left for the caller to fill).
func (s *Selector) Execute(ctx context.Context, sel domain.SelectionResult, messages []domain.ChatMessage, opts domain.GenerationOptions) (domain.GenerationResult, []domain.ModelExecutionMetric, error) {
	candidates := append([]domain.ModelDescriptor{sel.Selected}, sel.Alternatives...)
	altNames := make([]string, 0, len(sel.Alternatives))
	for _, a := range sel.Alternatives {
		altNames = append(altNames, a.Name)
	}

	fallbackEnabled := s.policies.FallbackEnabled()
	maxRetries := s.policies.MaxRetries()

	var metrics []domain.ModelExecutionMetric
	var tried []string

	for attempt, model := range candidates {
		if attempt > 0 && !fallbackEnabled {
			break
		}

		provider, ok := s.providers.Get(model.Provider)
		if !ok || !provider.Available() {
			slog.Warn("provider adapter unavailable, skipping candidate",
				slog.String("model", model.Name),
				slog.String("provider", model.Provider))
			continue
		}
		if s.breaker != nil && !s.breaker.Allow(model.Provider) {
			// Open breaker is a routing decision, not a provider failure.
			slog.Warn("circuit breaker open, skipping candidate",
				slog.String("provider", model.Provider),
				slog.String("model", model.Name))
			continue
		}
		if err := provider.HealthCheck(ctx); err != nil {
			slog.Warn("provider health check failed, skipping candidate",
				slog.String("provider", model.Provider),
				slog.Any("error", err))
			continue
		}
		if s.throttle != nil {
			allowed, err := s.throttle.Acquire(ctx, model.Provider)
			if err != nil {
				slog.Warn("provider throttle errored, allowing",
					slog.String("provider", model.Provider),
					slog.Any("error", err))
			} else if !allowed {
				slog.Warn("provider throttled, skipping candidate",
					slog.String("provider", model.Provider))
				continue
			}
		}

		tried = append(tried, model.Name)
		callOpts := opts
		callOpts.Model = model.Name

		start := time.Now()
		result, err := provider.Generate(ctx, messages, callOpts)
		latency := time.Since(start)
		observability.ObserveProviderCall(model.Provider, latency, err)

		metric := domain.ModelExecutionMetric{
			SelectedModel:          model.Name,
			Provider:               model.Provider,
			AlternativesConsidered: altNames,
			CapabilityMatchScore:   sel.Score,
			TotalScore:             sel.Score,
			LatencyMS:              int(latency.Milliseconds()),
			Success:                err == nil,
			FallbackUsed:           attempt > 0,
			CreatedAt:              time.Now().UTC(),
		}
		if attempt > 0 {
			metric.FallbackModel = model.Name
		}

		if err != nil {
			metric.Error = err.Error()
			metrics = append(metrics, metric)
			if s.breaker != nil {
				s.breaker.RecordFailure(model.Provider)
			}
			slog.Error("model execution failed",
				slog.String("model", model.Name),
				slog.String("provider", model.Provider),
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			if attempt >= maxRetries {
				return domain.GenerationResult{}, metrics, fmt.Errorf("op=selection.Execute: all models failed, tried %v: %w", tried, err)
			}
			continue
		}

		metric.PromptTokens = result.TokenUsage[domain.TokenPrompt]
		metric.CompletionTokens = result.TokenUsage[domain.TokenCompletion]
		metric.Tokens = result.TokenUsage[domain.TokenTotal]
		metrics = append(metrics, metric)
		if s.breaker != nil {
			s.breaker.RecordSuccess(model.Provider)
		}

		result.Model = model.Name
		result.Provider = model.Provider
		result.LatencyMS = latency.Milliseconds()
		result.FallbackUsed = attempt > 0
		slog.Info("model executed",
			slog.String("model", model.Name),
			slog.String("provider", model.Provider),
			slog.Int64("latency_ms", result.LatencyMS),
			slog.Bool("fallback_used", result.FallbackUsed))
		return result, metrics, nil
	}

	if len(tried) == 0 {
		return domain.GenerationResult{}, metrics, fmt.Errorf("op=selection.Execute: no candidate could accept the request: %w", domain.ErrBreakerOpen)
	}
	return domain.GenerationResult{}, metrics, fmt.Errorf("op=selection.Execute: all models failed, tried %v", tried)
}
