// Command modelcheck validates the model and policy configuration files and
// prints the effective model catalogue. Unlike the server, which absorbs a
// bad config with built-in defaults, modelcheck is strict: malformed YAML,
// unknown fields, invalid restriction patterns, or weight tables that do not
// sum to 1 all exit non-zero, so CI can gate config changes before deploy.
//
// With -ping it additionally health-checks every registered provider.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/agent-orchestrator/internal/app"
	"github.com/fairyhunter13/agent-orchestrator/internal/config"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/registry"
)

// modelsDoc mirrors the registry's file schema. Kept local so the decoder
// can run with KnownFields and reject typoed keys.
type modelsDoc struct {
	Models []struct {
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
	} `yaml:"models"`
	Defaults map[string]string `yaml:"defaults"`
}

// policiesDoc mirrors the policy engine's file schema.
type policiesDoc struct {
	Policies struct {
		PreferLocal              *bool    `yaml:"prefer_local"`
		LocalCapabilityThreshold *float64 `yaml:"local_capability_threshold"`
		FallbackEnabled          *bool    `yaml:"fallback_enabled"`
		MaxRetries               *int     `yaml:"max_retries"`
		Weights                  *struct {
			Capability  float64 `yaml:"capability_match"`
			Cost        float64 `yaml:"cost_efficiency"`
			Speed       float64 `yaml:"speed"`
			Reliability float64 `yaml:"reliability"`
		} `yaml:"weights"`
	} `yaml:"policies"`
	RestrictedPatterns []struct {
		Pattern          string   `yaml:"pattern"`
		AllowedProviders []string `yaml:"allowed_providers"`
		Reason           string   `yaml:"reason"`
	} `yaml:"restricted_patterns"`
	ProviderPriority []string           `yaml:"provider_priority"`
	CostLevels       map[string]float64 `yaml:"cost_levels"`
	CreditLevels     map[string]struct {
		Input  float64 `yaml:"input"`
		Output float64 `yaml:"output"`
	} `yaml:"credit_levels"`
	RoleCapabilities map[string]struct {
		Required  []string `yaml:"required"`
		Preferred []string `yaml:"preferred"`
		MinScore  float64  `yaml:"min_score"`
	} `yaml:"role_capabilities"`
}

func main() {
	ping := flag.Bool("ping", false, "health-check each registered provider")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	problems := checkModelsFile(cfg.ModelsConfigPath)
	problems = append(problems, checkPoliciesFile(cfg.PoliciesConfigPath)...)

	directory := app.BuildProviders(cfg)
	reg := registry.New(cfg.ModelsConfigPath, directory)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROVIDER\tTIER\tCONTEXT\tAVAILABLE")
	for _, d := range reg.All() {
		avail := "no"
		if d.Available && directory.Available(d.Provider) {
			avail = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", d.Name, d.Provider, d.CostTier, d.ContextWindow, avail)
	}
	_ = w.Flush()

	for _, name := range directory.Names() {
		if d, ok := reg.DefaultFor(name); ok {
			fmt.Printf("default for %s: %s\n", name, d.Name)
		}
	}

	if *ping {
		fmt.Println()
		fmt.Println("provider health:")
		for _, name := range directory.Names() {
			p, _ := directory.Get(name)
			fmt.Printf("  %-12s %s\n", name, pingProvider(p))
		}
	}

	if len(problems) > 0 {
		fmt.Fprintln(os.Stderr)
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "FAIL: %s\n", p)
		}
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println("configuration OK")
}

func pingProvider(p domain.ModelProvider) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.HealthCheck(ctx); err != nil {
		return fmt.Sprintf("FAIL  %v", err)
	}
	return "OK"
}

// decodeStrict parses YAML with unknown fields rejected. An empty file is
// reported as such rather than as a bare EOF.
func decodeStrict(raw []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("file is empty")
		}
		return err
	}
	return nil
}

func checkModelsFile(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("models config %s: %v (the server would fall back to built-in descriptors)", path, err)}
	}
	var doc modelsDoc
	if err := decodeStrict(raw, &doc); err != nil {
		return []string{fmt.Sprintf("models config %s: %v", path, err)}
	}

	var problems []string
	if len(doc.Models) == 0 {
		problems = append(problems, fmt.Sprintf("models config %s: no models defined", path))
	}
	seen := map[string]bool{}
	for i, m := range doc.Models {
		if m.Name == "" {
			problems = append(problems, fmt.Sprintf("models config %s: entry %d has no name", path, i))
			continue
		}
		if m.Provider == "" {
			problems = append(problems, fmt.Sprintf("models config %s: model %q has no provider", path, m.Name))
		}
		if seen[m.Name] {
			problems = append(problems, fmt.Sprintf("models config %s: duplicate model %q", path, m.Name))
		}
		seen[m.Name] = true
		if m.CostTier != "" && !validTier(m.CostTier) {
			problems = append(problems, fmt.Sprintf("models config %s: model %q has unknown cost_tier %q", path, m.Name, m.CostTier))
		}
		for cap, score := range m.Capabilities {
			if score < 0 || score > 10 {
				problems = append(problems, fmt.Sprintf("models config %s: model %q capability %q score %d outside 0-10", path, m.Name, cap, score))
			}
		}
	}
	for provider, name := range doc.Defaults {
		if !seen[name] {
			problems = append(problems, fmt.Sprintf("models config %s: default for %s references unknown model %q", path, provider, name))
		}
	}
	return problems
}

func checkPoliciesFile(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("policies config %s: %v (the server would fall back to built-in defaults)", path, err)}
	}
	var doc policiesDoc
	if err := decodeStrict(raw, &doc); err != nil {
		return []string{fmt.Sprintf("policies config %s: %v", path, err)}
	}

	var problems []string
	for _, rp := range doc.RestrictedPatterns {
		if _, err := regexp.Compile("(?i)" + rp.Pattern); err != nil {
			problems = append(problems, fmt.Sprintf("policies config %s: pattern %q: %v", path, rp.Pattern, err))
		}
		if len(rp.AllowedProviders) == 0 {
			problems = append(problems, fmt.Sprintf("policies config %s: pattern %q allows no providers, every match would fail", path, rp.Pattern))
		}
	}
	if w := doc.Policies.Weights; w != nil {
		sum := w.Capability + w.Cost + w.Speed + w.Reliability
		if sum < 0.99 || sum > 1.01 {
			problems = append(problems, fmt.Sprintf("policies config %s: scoring weights sum to %.2f, want 1.0", path, sum))
		}
	}
	for tier := range doc.CostLevels {
		if !validTier(tier) {
			problems = append(problems, fmt.Sprintf("policies config %s: cost_levels has unknown tier %q", path, tier))
		}
	}
	for tier := range doc.CreditLevels {
		if !validTier(tier) {
			problems = append(problems, fmt.Sprintf("policies config %s: credit_levels has unknown tier %q", path, tier))
		}
	}
	return problems
}

func validTier(tier string) bool {
	switch tier {
	case domain.CostTierFree, domain.CostTierLow, domain.CostTierMedium, domain.CostTierHigh:
		return true
	}
	return false
}
