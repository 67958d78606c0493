package budget

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
)

// Anomaly guard thresholds.
const (
	// MaxCreditsPerTask is the hard ceiling for a single task estimate.
	MaxCreditsPerTask = 1000
	// SpikeThreshold flags an hour that outspends the trailing average by
	// this factor.
	SpikeThreshold = 5.0
	// MinSamplesForSpike is the history size required before spike
	// detection activates.
	MinSamplesForSpike = 5
	// MaxWorkflowRecursion bounds re-entrant workflow executions.
	MaxWorkflowRecursion = 10

	hourlyHistorySize = 24
)

// Detector flags anomalous consumption: oversized single tasks, hourly
// spend spikes, and runaway workflow recursion. Only the per-task ceiling
// blocks; the other checks alert and allow.
type Detector struct {
	mu      sync.Mutex
	history map[string][]float64
	depth   map[string]int
}

// NewDetector builds a detector with empty history.
func NewDetector() *Detector {
	return &Detector{
		history: make(map[string][]float64),
		depth:   make(map[string]int),
	}
}

// CheckTaskCredits rejects tasks whose estimate exceeds the per-task
// ceiling.
func (d *Detector) CheckTaskCredits(officeID string, estimated float64) (bool, string) {
	if estimated > MaxCreditsPerTask {
		reason := fmt.Sprintf("Task credits (%.0f) exceed max (%d)", estimated, MaxCreditsPerTask)
		slog.Warn("task credit ceiling exceeded",
			slog.String("office_id", officeID),
			slog.String("reason", reason))
		observability.ObserveAnomaly("task_ceiling")
		return false, reason
	}
	return true, ""
}

// CheckSpike compares the current hourly spend against the trailing
// average. Advisory only; reports true when the current hour is a spike.
func (d *Detector) CheckSpike(officeID string, currentHourly float64) (bool, string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	history := d.history[officeID]
	if len(history) < MinSamplesForSpike {
		return false, ""
	}

	var sum float64
	for _, h := range history {
		sum += h
	}
	avg := sum / float64(len(history))
	if avg == 0 {
		return false, ""
	}

	ratio := currentHourly / avg
	if ratio > SpikeThreshold {
		reason := fmt.Sprintf("Consumption spike detected: %.0f is %.1fx average (%.0f)",
			currentHourly, ratio, avg)
		slog.Warn("consumption spike",
			slog.String("office_id", officeID),
			slog.String("reason", reason))
		observability.ObserveAnomaly("consumption_spike")
		return true, reason
	}
	return false, ""
}

// RecordHourlyUsage appends an hourly spend sample, keeping one day of
// history.
func (d *Detector) RecordHourlyUsage(officeID string, usage float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	history := append(d.history[officeID], usage)
	if len(history) > hourlyHistorySize {
		history = history[len(history)-hourlyHistorySize:]
	}
	d.history[officeID] = history
}

// CheckWorkflowDepth reports whether a workflow has re-entered too many
// times. Advisory; callers log and continue.
func (d *Detector) CheckWorkflowDepth(officeID, workflowID string) (bool, string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.depth[depthKey(officeID, workflowID)] >= MaxWorkflowRecursion {
		reason := fmt.Sprintf("Workflow recursion limit (%d) exceeded", MaxWorkflowRecursion)
		slog.Warn("workflow recursion limit reached",
			slog.String("office_id", officeID),
			slog.String("workflow_id", workflowID))
		observability.ObserveAnomaly("workflow_recursion")
		return false, reason
	}
	return true, ""
}

// EnterWorkflow counts one workflow execution.
func (d *Detector) EnterWorkflow(officeID, workflowID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depth[depthKey(officeID, workflowID)]++
}

// ResetWorkflow clears the recursion counter, normally when a workflow
// completes.
func (d *Detector) ResetWorkflow(officeID, workflowID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.depth, depthKey(officeID, workflowID))
}

func depthKey(officeID, workflowID string) string {
	return officeID + ":" + workflowID
}
