// Package selection derives capability requirements from task text,
// scores registered models against them, and dispatches generation with
// ordered fallback across alternatives.
package selection

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/policy"
)

// capabilityPatterns drives keyword detection. Treated as configuration:
// the patterns gate policy decisions but are not authoritative about what
// a task truly needs.
var capabilityPatterns = map[string][]*regexp.Regexp{
	"coding": {
		regexp.MustCompile(`\b(code|coding|program|function|class|debug|implement|refactor)\b`),
		regexp.MustCompile(`\b(python|javascript|java|go|rust|typescript|sql|api)\b`),
		regexp.MustCompile(`\b(bug|error|fix|compile|syntax|algorithm)\b`),
	},
	"reasoning": {
		regexp.MustCompile(`\b(analyze|think|reason|explain|understand|evaluate)\b`),
		regexp.MustCompile(`\b(why|how|compare|contrast|assess|deduce)\b`),
		regexp.MustCompile(`\b(logic|inference|conclusion|hypothesis)\b`),
	},
	"summarization": {
		regexp.MustCompile(`\b(summarize|summary|brief|overview|tldr|recap)\b`),
		regexp.MustCompile(`\b(condense|shorten|highlight|key.?points)\b`),
	},
	"planning": {
		regexp.MustCompile(`\b(plan|schedule|organize|coordinate|roadmap|timeline)\b`),
		regexp.MustCompile(`\b(project|milestone|task|deadline|priority)\b`),
		regexp.MustCompile(`\b(strategy|approach|steps|phases)\b`),
	},
	"long_context": {
		regexp.MustCompile(`\b(document|report|article|paper|book|chapter)\b`),
		regexp.MustCompile(`\b(entire|full|complete|whole|all.?of)\b`),
		regexp.MustCompile(`\b(review|read|analyze).+(long|large|extensive)\b`),
	},
	"structured_output": {
		regexp.MustCompile(`\b(json|yaml|xml|csv|table|list|format)\b`),
		regexp.MustCompile(`\b(structured|formatted|organized|template)\b`),
		regexp.MustCompile(`\b(schema|fields|columns|rows)\b`),
	},
	"multimodal": {
		regexp.MustCompile(`\b(image|photo|picture|diagram|chart|graph)\b`),
		regexp.MustCompile(`\b(visual|see|look|show|display)\b`),
	},
	"web_search": {
		regexp.MustCompile(`\b(search|find|lookup|latest|current|recent)\b`),
		regexp.MustCompile(`\b(news|today|now|updated)\b`),
	},
}

// sensitivePatterns flag content that must not leave the premises.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(confidential|secret|private|password|credential)\b`),
	regexp.MustCompile(`\b(internal|proprietary|trade.?secret)\b`),
	regexp.MustCompile(`\b(api.?key|access.?token|bearer)\b`),
}

type roleEntry struct {
	name    string
	profile policy.RoleProfile
}

func builtinRoles() []roleEntry {
	return []roleEntry{
		{name: "Engineer", profile: policy.RoleProfile{
			Required:  map[string]float64{"coding": 0.9, "reasoning": 0.7},
			Preferred: map[string]float64{"structured_output": 0.5},
			MinScore:  7,
		}},
		{name: "Analyst", profile: policy.RoleProfile{
			Required:  map[string]float64{"reasoning": 0.8, "summarization": 0.7},
			Preferred: map[string]float64{"long_context": 0.5},
			MinScore:  6,
		}},
		{name: "Writer", profile: policy.RoleProfile{
			Required:  map[string]float64{"summarization": 0.8},
			Preferred: map[string]float64{"long_context": 0.4},
			MinScore:  5,
		}},
		{name: "Planner", profile: policy.RoleProfile{
			Required:  map[string]float64{"planning": 0.8, "reasoning": 0.6},
			Preferred: map[string]float64{"structured_output": 0.5},
			MinScore:  6,
		}},
	}
}

// Extractor turns free text plus an agent role into a capability profile.
// Extraction never fails; an empty profile is a valid outcome.
type Extractor struct {
	roles []roleEntry
}

// NewExtractor builds an extractor with the built-in role table merged
// with overrides from the policy config (overrides win by role name;
// new roles append in sorted order for determinism).
func NewExtractor(overrides map[string]policy.RoleProfile) *Extractor {
	roles := builtinRoles()
	seen := make(map[string]int, len(roles))
	for i, r := range roles {
		seen[r.name] = i
	}
	extra := make([]string, 0, len(overrides))
	for name, profile := range overrides {
		if i, ok := seen[name]; ok {
			roles[i].profile = profile
			continue
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		roles = append(roles, roleEntry{name: name, profile: overrides[name]})
	}
	return &Extractor{roles: roles}
}

// Extract derives requirements from the task text, the agent role, and a
// context-length hint (tokens the conversation already occupies).
func (e *Extractor) Extract(input, agentRole string, contextHint int) domain.TaskRequirements {
	lower := strings.ToLower(input)

	required := detectCapabilities(lower)
	preferred := map[string]float64{}
	minScore := 5.0
	detectedRole := ""

	if agentRole != "" {
		if entry, ok := e.matchRole(agentRole); ok {
			detectedRole = entry.name
			for cap, weight := range entry.profile.Required {
				if weight > required[cap] {
					required[cap] = weight
				}
			}
			for cap, weight := range entry.profile.Preferred {
				if _, have := required[cap]; !have {
					preferred[cap] = weight
				}
			}
			minScore = entry.profile.MinScore
		}
	}

	requiresLocal := detectSensitive(lower)
	if requiresLocal {
		slog.Info("sensitive content detected, requiring local model")
	}

	contextNeeded := contextHint
	if contextNeeded < 4000 {
		contextNeeded = 4000
	}

	return domain.TaskRequirements{
		RequiredCapabilities:  required,
		PreferredCapabilities: preferred,
		MinCapabilityScore:    minScore,
		ContextNeeded:         contextNeeded,
		RequiresLongContext:   contextHint > 8000 || required["long_context"] > 0.5 || preferred["long_context"] > 0.5,
		RequiresLocal:         requiresLocal,
		MaxCostTier:           domain.CostTierHigh,
		DetectedRole:          detectedRole,
	}
}

// matchRole finds the first role whose name appears in the agent role,
// case-insensitively, so "Senior Software Engineer" still maps to
// Engineer.
func (e *Extractor) matchRole(agentRole string) (roleEntry, bool) {
	lower := strings.ToLower(agentRole)
	for _, entry := range e.roles {
		if strings.Contains(lower, strings.ToLower(entry.name)) {
			return entry, true
		}
	}
	return roleEntry{}, false
}

func detectCapabilities(lower string) map[string]float64 {
	caps := map[string]float64{}
	for capability, patterns := range capabilityPatterns {
		matches := 0
		for _, re := range patterns {
			matches += len(re.FindAllString(lower, -1))
		}
		if matches > 0 {
			weight := 0.3 + 0.2*float64(matches)
			if weight > 1.0 {
				weight = 1.0
			}
			caps[capability] = weight
		}
	}
	return caps
}

func detectSensitive(lower string) bool {
	for _, re := range sensitivePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
