package toolexec

import (
	"encoding/json"
	"log/slog"
	"regexp"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	bracesRe     = regexp.MustCompile(`(?s)(\{.*\})`)
)

// ParsePlan extracts an action plan from LLM response text. It tries a
// fenced ```json block first, then the outermost brace pair, then the
// whole text. The second return is false when no plan is present, which
// callers treat as a plain text response rather than an error.
func ParsePlan(text string) (*domain.ActionPlan, bool) {
	candidate, extracted := extractJSONBlock(text)
	if !extracted {
		candidate = text
	}
	var plan domain.ActionPlan
	if err := json.Unmarshal([]byte(candidate), &plan); err != nil {
		if extracted {
			slog.Warn("discarding unparseable plan block", slog.Any("error", err))
		}
		return nil, false
	}
	if len(plan.Steps) == 0 {
		return nil, false
	}
	return &plan, true
}

func extractJSONBlock(text string) (string, bool) {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := bracesRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}
