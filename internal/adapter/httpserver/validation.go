package httpserver

import (
	"regexp"
	"strconv"
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult carries the outcome of an input validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

const (
	defaultStatsDays = 7
	maxStatsDays     = 90
	defaultFailLimit = 20
	maxFailLimit     = 100
)

// ParseDays parses the days query parameter for the stats endpoints.
func ParseDays(s string) (int, ValidationResult) {
	if s == "" {
		return defaultStatsDays, ValidationResult{Valid: true}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxStatsDays {
		return 0, ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "days",
				Code:    "INVALID_FORMAT",
				Message: "Days must be an integer between 1 and 90",
			}},
		}
	}
	return n, ValidationResult{Valid: true}
}

// ParseLimit parses the limit query parameter for the failures endpoint.
func ParseLimit(s string) (int, ValidationResult) {
	if s == "" {
		return defaultFailLimit, ValidationResult{Valid: true}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxFailLimit {
		return 0, ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "limit",
				Code:    "INVALID_FORMAT",
				Message: "Limit must be between 1 and 100",
			}},
		}
	}
	return n, ValidationResult{Valid: true}
}

// modelNameRe keeps the characters that appear in real model names,
// including ollama tags like llama3.2:3b.
var modelNameRe = regexp.MustCompile(`[^a-zA-Z0-9._:-]`)

// SanitizeModelName strips anything that cannot be part of a model name
// so the filter reaches the repository clean.
func SanitizeModelName(s string) string {
	s = modelNameRe.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
