package toolexec

import (
	"fmt"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/pkg/textx"
)

// Normalizer folds raw step results into a plan-level ExecutionResult
// with aggregate status, artifacts, errors and latency. Step outputs
// pass through with string values sanitized; artifacts are untouched.
type Normalizer struct{}

// NewNormalizer returns a result normalizer.
func NewNormalizer() *Normalizer { return &Normalizer{} }

// Normalize aggregates completed step results.
func (n *Normalizer) Normalize(executionID string, results []domain.ToolResult, startedAt, finishedAt time.Time) domain.ExecutionResult {
	completed, failed := 0, 0
	var artifacts []domain.Artifact
	var errs []string
	var totalLatency int64
	for i := range results {
		results[i].Output = sanitizeMap(results[i].Output)
		switch results[i].Status {
		case domain.ToolStatusSuccess:
			completed++
		case domain.ToolStatusFailed:
			failed++
		}
		artifacts = append(artifacts, results[i].Artifacts...)
		if results[i].ErrorMessage != "" {
			errs = append(errs, results[i].ErrorMessage)
		}
		totalLatency += results[i].LatencyMS
	}

	status := domain.PlanSuccess
	switch {
	case failed == 0:
	case completed == 0:
		status = domain.PlanFailure
	default:
		status = domain.PlanPartialSuccess
	}

	return domain.ExecutionResult{
		ExecutionID:    executionID,
		Status:         status,
		Message:        summaryMessage(status, len(results), completed, failed),
		StepsCompleted: completed,
		StepsFailed:    failed,
		Results:        results,
		Artifacts:      artifacts,
		Errors:         errs,
		TotalLatencyMS: totalLatency,
		StartedAt:      startedAt,
		FinishedAt:     finishedAt,
	}
}

// Failed builds the result for a plan that aborted before any step ran,
// typically on validation errors.
func (n *Normalizer) Failed(executionID, errMsg string, startedAt, finishedAt time.Time) domain.ExecutionResult {
	return domain.ExecutionResult{
		ExecutionID: executionID,
		Status:      domain.PlanFailure,
		Message:     fmt.Sprintf("Execution failed: %s", errMsg),
		Errors:      []string{errMsg},
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
	}
}

// Blocked builds the result for a plan rejected by permissions or
// quotas. Blocked plans carry zero step results.
func (n *Normalizer) Blocked(executionID, reason string, startedAt, finishedAt time.Time) domain.ExecutionResult {
	return domain.ExecutionResult{
		ExecutionID: executionID,
		Status:      domain.PlanBlocked,
		Message:     fmt.Sprintf("Execution blocked: %s", reason),
		Errors:      []string{reason},
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
	}
}

func summaryMessage(status string, total, completed, failed int) string {
	switch status {
	case domain.PlanSuccess:
		if total == 1 {
			return "Task completed successfully."
		}
		return fmt.Sprintf("All %d steps completed successfully.", total)
	case domain.PlanPartialSuccess:
		return fmt.Sprintf("Partial success: %d/%d steps completed, %d failed.", completed, total, failed)
	case domain.PlanFailure:
		if total == 1 {
			return "Task failed."
		}
		return fmt.Sprintf("Execution failed: %d/%d steps failed.", failed, total)
	default:
		return fmt.Sprintf("Execution %s: %d/%d steps completed.", status, completed, total)
	}
}

func sanitizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = sanitizeValue(v)
	}
	return m
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return textx.SanitizeText(t)
	case map[string]any:
		return sanitizeMap(t)
	case []any:
		for i := range t {
			t[i] = sanitizeValue(t[i])
		}
		return t
	default:
		return v
	}
}
