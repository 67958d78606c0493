// Package registry loads model descriptors from YAML configuration and
// serves them to the selection pipeline. Descriptors are immutable after
// load; only the locally-installed Ollama model set is refreshed at
// runtime.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// AdapterDirectory reports live availability of a provider adapter.
// Implemented by the provider directory in the composition root.
type AdapterDirectory interface {
	Available(provider string) bool
}

type modelEntry struct {
	Name               string         `yaml:"name"`
	Provider           string         `yaml:"provider"`
	CostTier           string         `yaml:"cost_tier"`
	Latency            string         `yaml:"latency"`
	MaxTokens          int            `yaml:"max_tokens"`
	ContextWindow      int            `yaml:"context_window"`
	Available          *bool          `yaml:"available"`
	Capabilities       map[string]int `yaml:"capabilities"`
	PricePer1KInput    float64        `yaml:"price_per_1k_input"`
	PricePer1KOutput   float64        `yaml:"price_per_1k_output"`
	CreditsPer1KInput  float64        `yaml:"credits_per_1k_input"`
	CreditsPer1KOutput float64        `yaml:"credits_per_1k_output"`
}

type modelsFile struct {
	Models   []modelEntry      `yaml:"models"`
	Defaults map[string]string `yaml:"defaults"`
}

// Registry is the read-only model catalogue. Descriptor maps are never
// mutated after New returns; the RWMutex guards only the cached set of
// models the local Ollama daemon reports as installed.
type Registry struct {
	models   map[string]domain.ModelDescriptor
	order    []string
	defaults map[string]string
	adapters AdapterDirectory

	mu        sync.RWMutex
	installed map[string]bool
}

// New builds a registry from the YAML file at path. A missing or
// malformed file is absorbed: the built-in descriptor set is used and a
// warning logged, so a bad config never takes the service down.
func New(path string, adapters AdapterDirectory) *Registry {
	r := &Registry{
		models:   make(map[string]domain.ModelDescriptor),
		defaults: make(map[string]string),
		adapters: adapters,
	}
	if err := r.loadFile(path); err != nil {
		slog.Warn("model config unusable, using built-in descriptors",
			slog.String("path", path),
			slog.Any("error", err))
		r.loadBuiltin()
	}
	slog.Info("model registry loaded", slog.Int("models", len(r.models)))
	return r
}

func (r *Registry) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("op=registry.loadFile: %w", err)
	}
	var f modelsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("op=registry.loadFile: %w", err)
	}
	if len(f.Models) == 0 {
		return fmt.Errorf("op=registry.loadFile: no models defined")
	}
	for _, e := range f.Models {
		if e.Name == "" || e.Provider == "" {
			slog.Warn("skipping model entry without name or provider",
				slog.String("name", e.Name),
				slog.String("provider", e.Provider))
			continue
		}
		r.add(descriptorFromEntry(e))
	}
	if len(r.models) == 0 {
		return fmt.Errorf("op=registry.loadFile: no usable models")
	}
	for provider, name := range f.Defaults {
		r.defaults[provider] = name
	}
	return nil
}

func descriptorFromEntry(e modelEntry) domain.ModelDescriptor {
	available := true
	if e.Available != nil {
		available = *e.Available
	}
	contextWindow := e.ContextWindow
	if contextWindow == 0 {
		contextWindow = e.MaxTokens
	}
	maxTokens := e.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	caps := make(map[string]int, len(e.Capabilities))
	for name, score := range e.Capabilities {
		caps[name] = score
	}
	return domain.ModelDescriptor{
		Name:               e.Name,
		Provider:           e.Provider,
		Capabilities:       caps,
		CostTier:           e.CostTier,
		MaxTokens:          maxTokens,
		ContextWindow:      contextWindow,
		Speed:              e.Latency,
		Available:          available,
		PricePer1KInput:    e.PricePer1KInput,
		PricePer1KOutput:   e.PricePer1KOutput,
		CreditsPer1KInput:  e.CreditsPer1KInput,
		CreditsPer1KOutput: e.CreditsPer1KOutput,
	}
}

// loadBuiltin installs the minimal fallback set: one high-tier model and
// one fast low-tier model, so selection still works without config.
func (r *Registry) loadBuiltin() {
	r.models = make(map[string]domain.ModelDescriptor)
	r.order = nil
	r.add(domain.ModelDescriptor{
		Name:          "gpt-4-turbo",
		Provider:      "openai",
		CostTier:      domain.CostTierHigh,
		Speed:         domain.SpeedMedium,
		MaxTokens:     4096,
		ContextWindow: 128000,
		Available:     true,
		Capabilities:  map[string]int{"reasoning": 9, "coding": 9},
	})
	r.add(domain.ModelDescriptor{
		Name:          "gpt-3.5-turbo",
		Provider:      "openai",
		CostTier:      domain.CostTierLow,
		Speed:         domain.SpeedFast,
		MaxTokens:     4096,
		ContextWindow: 16000,
		Available:     true,
		Capabilities:  map[string]int{"reasoning": 6, "coding": 6, "speed": 9},
	})
	r.defaults = map[string]string{"openai": "gpt-4-turbo"}
}

func (r *Registry) add(d domain.ModelDescriptor) {
	if _, dup := r.models[d.Name]; !dup {
		r.order = append(r.order, d.Name)
	}
	r.models[d.Name] = d
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (domain.ModelDescriptor, bool) {
	d, ok := r.models[name]
	return d, ok
}

// All returns every descriptor in load order.
func (r *Registry) All() []domain.ModelDescriptor {
	out := make([]domain.ModelDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.models[name])
	}
	return out
}

// Available returns descriptors that are enabled, whose provider adapter
// reports available, and (for Ollama models) that the local daemon has
// installed. When no Ollama refresh has completed yet, local models are
// assumed present.
func (r *Registry) Available() []domain.ModelDescriptor {
	var out []domain.ModelDescriptor
	for _, name := range r.order {
		d := r.models[name]
		if !d.Available {
			continue
		}
		if r.adapters != nil && !r.adapters.Available(d.Provider) {
			continue
		}
		if d.Provider == "ollama" && !r.ollamaInstalled(d.Name) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ByProvider returns all descriptors for one provider in load order.
func (r *Registry) ByProvider(provider string) []domain.ModelDescriptor {
	var out []domain.ModelDescriptor
	for _, name := range r.order {
		if d := r.models[name]; d.Provider == provider {
			out = append(out, d)
		}
	}
	return out
}

// DefaultFor returns the configured default model for a provider.
func (r *Registry) DefaultFor(provider string) (domain.ModelDescriptor, bool) {
	name, ok := r.defaults[provider]
	if !ok {
		return domain.ModelDescriptor{}, false
	}
	return r.Get(name)
}

// WithCapability returns available descriptors claiming at least minScore
// on the named capability.
func (r *Registry) WithCapability(capability string, minScore int) []domain.ModelDescriptor {
	var out []domain.ModelDescriptor
	for _, d := range r.Available() {
		if score, ok := d.Capability(capability); ok && score >= minScore {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) ollamaInstalled(model string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.installed == nil {
		return true
	}
	if r.installed[model] {
		return true
	}
	// Tags report "llama3:latest" style names; match on the bare name too.
	base, _, _ := strings.Cut(model, ":")
	return r.installed[base]
}

// setInstalled swaps the cached Ollama model set.
func (r *Registry) setInstalled(models []string) {
	set := make(map[string]bool, len(models)*2)
	for _, m := range models {
		set[m] = true
		base, _, _ := strings.Cut(m, ":")
		set[base] = true
	}
	r.mu.Lock()
	r.installed = set
	r.mu.Unlock()
}

type ollamaTags struct {
	Models []struct {
		Name string `yaml:"-" json:"name"`
	} `json:"models"`
}

// StartOllamaRefresher polls the Ollama tags endpoint until ctx is done,
// keeping Available in step with what the local daemon can actually
// serve. Intended to run as a goroutine from the composition root.
func (r *Registry) StartOllamaRefresher(ctx context.Context, baseURL string, interval time.Duration) {
	if baseURL == "" {
		return
	}
	client := &http.Client{Timeout: 10 * time.Second}
	r.refreshOllama(ctx, client, baseURL)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshOllama(ctx, client, baseURL)
		}
	}
}

func (r *Registry) refreshOllama(ctx context.Context, client *http.Client, baseURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/tags", nil)
	if err != nil {
		slog.Warn("ollama refresh request build failed", slog.Any("error", err))
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		// Daemon down: keep the last known set rather than flapping.
		slog.Debug("ollama tags unreachable", slog.Any("error", err))
		return
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		slog.Warn("ollama tags returned non-200", slog.Int("status", resp.StatusCode))
		return
	}
	var tags ollamaTags
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		slog.Warn("ollama tags decode failed", slog.Any("error", err))
		return
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	r.setInstalled(names)
	slog.Debug("ollama installed models refreshed", slog.Int("count", len(names)))
}
