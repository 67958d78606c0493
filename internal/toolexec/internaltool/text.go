package internaltool

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/pkg/textx"
)

var (
	emailRe    = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)
	urlRe      = regexp.MustCompile(`https?://\S+`)
	numberRe   = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	templateRe = regexp.MustCompile(`\{(\w+)\}`)
)

// textProcessing covers the count, extract, format and summarize
// operations over a single input string.
func textProcessing(inputs map[string]any) domain.ToolResult {
	text, _ := inputs["input"].(string)
	if text == "" {
		return failure("MISSING_INPUT", "No text provided")
	}
	op, _ := inputs["operation"].(string)
	if op == "" {
		op = "count"
	}

	switch op {
	case "count":
		return success(map[string]any{
			"words":      len(strings.Fields(text)),
			"characters": utf8.RuneCountInString(text),
			"sentences":  len(textx.SplitSentences(text)),
		})
	case "extract":
		return success(map[string]any{
			"emails":  matches(emailRe, text),
			"urls":    matches(urlRe, text),
			"numbers": matches(numberRe, text),
		})
	case "format":
		return formatText(text, inputs)
	case "summarize":
		return summarize(text, inputs)
	default:
		return failure("UNKNOWN_OPERATION", fmt.Sprintf("Unknown operation: %s", op))
	}
}

func matches(re *regexp.Regexp, text string) []string {
	found := re.FindAllString(text, -1)
	if found == nil {
		return []string{}
	}
	return found
}

// formatText substitutes {name} placeholders from the step inputs. The
// raw text is reachable as {input}.
func formatText(text string, inputs map[string]any) domain.ToolResult {
	template, _ := inputs["template"].(string)
	if template == "" {
		template = "{input}"
	}

	vars := make(map[string]string, len(inputs)+1)
	for k, v := range inputs {
		vars[k] = fmt.Sprint(v)
	}
	vars["input"] = text

	for _, m := range templateRe.FindAllStringSubmatch(template, -1) {
		if _, ok := vars[m[1]]; !ok {
			return failure("TEMPLATE_ERROR", fmt.Sprintf("Missing template variable: '%s'", m[1]))
		}
	}
	formatted := templateRe.ReplaceAllStringFunc(template, func(m string) string {
		return vars[m[1:len(m)-1]]
	})
	return success(map[string]any{"formatted": formatted})
}

// summarize keeps the leading sentences, rejoined with a uniform
// terminator.
func summarize(text string, inputs map[string]any) domain.ToolResult {
	max := 3
	if v, ok := toInt(inputs["max_sentences"]); ok && v > 0 {
		max = v
	}

	sentences := textx.SplitSentences(text)
	kept := sentences
	if len(kept) > max {
		kept = kept[:max]
	}
	parts := make([]string, 0, len(kept))
	for _, s := range kept {
		parts = append(parts, strings.TrimRight(s, ".!? "))
	}
	summary := strings.Join(parts, ". ")
	if summary != "" {
		summary += "."
	}
	return success(map[string]any{
		"summary":            summary,
		"original_sentences": len(sentences),
		"summary_sentences":  len(kept),
	})
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
