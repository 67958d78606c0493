package toolexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// stepRefPrefix marks an input value that references a prior step's
// output: $steps.<step_id>.<field>.
const stepRefPrefix = "$steps."

// stepBinding pairs a plan step with its resolved descriptor and
// adapter after validation.
type stepBinding struct {
	step    domain.ToolCall
	desc    domain.ToolDescriptor
	adapter domain.ToolAdapter
}

// Executor runs action plans against vendor adapters. Every plan goes
// through three pre-flight phases before anything executes: registry +
// schema validation, permission checks, then quota reservation. A
// failure in any phase aborts the whole plan with zero side effects on
// later phases.
type Executor struct {
	registry   *Registry
	gateway    *Gateway
	quotas     *Quotas
	normalizer *Normalizer
	adapters   map[string]domain.ToolAdapter

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	mu     sync.Mutex
	active map[string]domain.ActionPlan
}

// NewExecutor wires the execution pipeline. Adapters are keyed by their
// vendor; a later adapter with the same vendor replaces the earlier one.
func NewExecutor(registry *Registry, gateway *Gateway, quotas *Quotas, adapters ...domain.ToolAdapter) *Executor {
	byVendor := make(map[string]domain.ToolAdapter, len(adapters))
	for _, a := range adapters {
		byVendor[a.Vendor()] = a
	}
	return &Executor{
		registry:   registry,
		gateway:    gateway,
		quotas:     quotas,
		normalizer: NewNormalizer(),
		adapters:   byVendor,
		now:        time.Now,
		sleep:      ctxSleep,
		active:     make(map[string]domain.ActionPlan),
	}
}

// Active returns the ids of plans currently executing, sorted.
func (e *Executor) Active() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.active))
	for id := range e.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExecutePlan validates, authorizes and runs a plan, returning the
// normalized result. Failures are carried in the result status and
// message; the method never returns a partial or nil result.
func (e *Executor) ExecutePlan(ctx context.Context, plan domain.ActionPlan, ec domain.ExecutionContext) domain.ExecutionResult {
	started := e.now()
	if plan.ExecutionID == "" {
		plan.ExecutionID = uuid.NewString()
	}
	if ec.ExecutionID == "" {
		ec.ExecutionID = plan.ExecutionID
	}
	log := slog.With(
		slog.String("execution_id", plan.ExecutionID),
		slog.String("office_id", ec.OfficeID))
	log.Info("starting plan execution",
		slog.Int("steps", len(plan.Steps)),
		slog.Bool("parallel", plan.Parallel))

	e.mu.Lock()
	e.active[plan.ExecutionID] = plan
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.active, plan.ExecutionID)
		e.mu.Unlock()
	}()

	bindings, verr := e.bindSteps(plan)
	if verr != "" {
		result := e.normalizer.Failed(plan.ExecutionID, verr, started, e.now())
		observability.ObservePlan(result.Status)
		return result
	}

	for _, b := range bindings {
		if err := e.gateway.Authorize(b.desc, ec); err != nil {
			result := e.normalizer.Blocked(plan.ExecutionID,
				fmt.Sprintf("Permission denied for %s: %s", b.step.Tool, err.Error()),
				started, e.now())
			observability.ObservePlan(result.Status)
			return result
		}
	}

	reserved := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if err := e.quotas.Reserve(ec.OfficeID, b.desc.Vendor); err != nil {
			for _, vendor := range reserved {
				e.quotas.Release(ec.OfficeID, vendor)
			}
			reason := err.Error()
			var denial *QuotaDenial
			if errors.As(err, &denial) {
				reason = fmt.Sprintf("Quota exceeded for %s: %s", denial.Vendor, denial.Reason)
			}
			result := e.normalizer.Blocked(plan.ExecutionID, reason, started, e.now())
			observability.ObservePlan(result.Status)
			return result
		}
		reserved = append(reserved, b.desc.Vendor)
	}
	defer func() {
		for _, vendor := range reserved {
			e.quotas.Release(ec.OfficeID, vendor)
		}
	}()

	var results []domain.ToolResult
	if plan.Parallel {
		results = e.runParallel(ctx, bindings, ec)
	} else {
		results = e.runSequential(ctx, bindings, ec)
	}

	vendorOf := make(map[string]string, len(bindings))
	for _, b := range bindings {
		vendorOf[b.step.StepID] = b.desc.Vendor
	}
	for _, r := range results {
		if r.Attempts > 0 {
			e.quotas.RecordUsage(ec.OfficeID, vendorOf[r.StepID])
		}
	}

	result := e.normalizer.Normalize(plan.ExecutionID, results, started, e.now())
	observability.ObservePlan(result.Status)
	log.Info("plan execution finished",
		slog.String("status", result.Status),
		slog.Int("completed", result.StepsCompleted),
		slog.Int("failed", result.StepsFailed))
	return result
}

// bindSteps resolves every step against the registry and validates
// inputs, step ids and dependency references. The returned reason is
// empty when the plan is valid.
func (e *Executor) bindSteps(plan domain.ActionPlan) ([]stepBinding, string) {
	bindings := make([]stepBinding, 0, len(plan.Steps))
	seen := make(map[string]bool, len(plan.Steps))
	for _, step := range plan.Steps {
		if step.StepID == "" {
			step.StepID = uuid.NewString()[:8]
		}
		if seen[step.StepID] {
			return nil, fmt.Sprintf("Duplicate step id: %s", step.StepID)
		}
		desc, err := e.registry.Get(step.Tool)
		if err != nil {
			return nil, fmt.Sprintf("Unknown tool: %s", step.Tool)
		}
		if err := ValidateInputs(desc.InputSchema, step.Inputs); err != nil {
			return nil, fmt.Sprintf("Invalid inputs for %s: %s", step.Tool, err.Error())
		}
		adapter, ok := e.adapters[desc.Vendor]
		if !ok {
			return nil, fmt.Sprintf("No adapter for vendor: %s", desc.Vendor)
		}
		for _, dep := range step.DependsOn {
			if !seen[dep] {
				return nil, fmt.Sprintf("Unknown dependency for step %s: %s", step.StepID, dep)
			}
		}
		seen[step.StepID] = true
		bindings = append(bindings, stepBinding{step: step, desc: desc, adapter: adapter})
	}
	return bindings, ""
}

// runSequential walks steps in declared order, feeding successful
// outputs into later steps and honoring per-step failure handling.
func (e *Executor) runSequential(ctx context.Context, bindings []stepBinding, ec domain.ExecutionContext) []domain.ToolResult {
	results := make([]domain.ToolResult, 0, len(bindings))
	outputs := make(map[string]map[string]any)
	succeeded := make(map[string]bool)
	for _, b := range bindings {
		if ctx.Err() != nil {
			slog.Warn("plan cancelled between steps",
				slog.String("execution_id", ec.ExecutionID),
				slog.String("step_id", b.step.StepID))
			break
		}
		if !depsMet(b.step.DependsOn, succeeded) {
			results = append(results, dependencyFailure(b.step))
			if b.step.StopsOnFailure() {
				break
			}
			continue
		}
		res := e.runStep(ctx, b, ec, outputs)
		results = append(results, res)
		if len(res.Output) > 0 {
			outputs[b.step.StepID] = res.Output
		}
		if res.Status == domain.ToolStatusSuccess {
			succeeded[b.step.StepID] = true
			continue
		}
		if b.step.StopsOnFailure() {
			slog.Warn("stopping plan on step failure",
				slog.String("execution_id", ec.ExecutionID),
				slog.String("step_id", b.step.StepID))
			break
		}
	}
	return results
}

// runParallel executes root steps concurrently, then dependents in
// declared order. Dependents with a failed dependency synthesize a
// dependency failure; parallel mode never stops early.
func (e *Executor) runParallel(ctx context.Context, bindings []stepBinding, ec domain.ExecutionContext) []domain.ToolResult {
	var roots, dependents []stepBinding
	for _, b := range bindings {
		if len(b.step.DependsOn) == 0 {
			roots = append(roots, b)
		} else {
			dependents = append(dependents, b)
		}
	}

	rootResults := make([]domain.ToolResult, len(roots))
	var wg sync.WaitGroup
	for i, b := range roots {
		wg.Add(1)
		go func(i int, b stepBinding) {
			defer wg.Done()
			rootResults[i] = e.runStep(ctx, b, ec, nil)
		}(i, b)
	}
	wg.Wait()

	results := make([]domain.ToolResult, 0, len(bindings))
	outputs := make(map[string]map[string]any)
	succeeded := make(map[string]bool)
	for i, res := range rootResults {
		results = append(results, res)
		if len(res.Output) > 0 {
			outputs[roots[i].step.StepID] = res.Output
		}
		if res.Status == domain.ToolStatusSuccess {
			succeeded[roots[i].step.StepID] = true
		}
	}

	for _, b := range dependents {
		if ctx.Err() != nil {
			slog.Warn("plan cancelled between steps",
				slog.String("execution_id", ec.ExecutionID),
				slog.String("step_id", b.step.StepID))
			break
		}
		if !depsMet(b.step.DependsOn, succeeded) {
			results = append(results, dependencyFailure(b.step))
			continue
		}
		res := e.runStep(ctx, b, ec, outputs)
		results = append(results, res)
		if len(res.Output) > 0 {
			outputs[b.step.StepID] = res.Output
		}
		if res.Status == domain.ToolStatusSuccess {
			succeeded[b.step.StepID] = true
		}
	}
	return results
}

// runStep dispatches one step with its retry policy. The step-level
// policy overrides the tool default.
func (e *Executor) runStep(ctx context.Context, b stepBinding, ec domain.ExecutionContext, outputs map[string]map[string]any) domain.ToolResult {
	call := b.step
	if len(outputs) > 0 {
		call.Inputs = resolveReferences(call.Inputs, outputs)
	}
	log := slog.With(
		slog.String("execution_id", ec.ExecutionID),
		slog.String("step_id", call.StepID),
		slog.String("tool", call.Tool))
	log.Info("executing step")

	policy := b.desc.Retry
	if call.Retry != nil {
		policy = *call.Retry
	}
	attempts := policy.Attempts()
	timeout := stepTimeout(call, b.desc)

	started := e.now()
	var last domain.ToolResult
	exhausted := true
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := policy.Delay(attempt)
			log.Info("retrying step",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			if !e.sleep(ctx, delay) {
				exhausted = false
				break
			}
		}
		last = e.dispatch(ctx, b.adapter, call, ec, timeout)
		last.Attempts = attempt
		if last.Status == domain.ToolStatusSuccess || nonRetryable(last.ErrorCode) {
			exhausted = false
			break
		}
		log.Warn("step attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", last.ErrorMessage))
	}
	if exhausted && attempts > 1 && last.Status != domain.ToolStatusSuccess {
		last.ErrorMessage = fmt.Sprintf("All %d attempts failed. Last error: %s", attempts, last.ErrorMessage)
		last.ErrorCode = domain.CodeRetryExhausted
	}
	observability.ObserveToolStep(call.Tool, last.Status, e.now().Sub(started))
	return last
}

// dispatch runs the adapter once, applying the effective timeout and
// backfilling identity fields the adapter may omit.
func (e *Executor) dispatch(ctx context.Context, adapter domain.ToolAdapter, call domain.ToolCall, ec domain.ExecutionContext, timeout time.Duration) domain.ToolResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	t0 := e.now()
	res := adapter.Execute(ctx, call, ec)
	if res.StepID == "" {
		res.StepID = call.StepID
	}
	if res.Tool == "" {
		res.Tool = call.Tool
	}
	if res.LatencyMS == 0 {
		res.LatencyMS = e.now().Sub(t0).Milliseconds()
	}
	return res
}

func stepTimeout(call domain.ToolCall, desc domain.ToolDescriptor) time.Duration {
	if call.TimeoutOverride > 0 {
		return time.Duration(call.TimeoutOverride) * time.Second
	}
	if desc.TimeoutSeconds > 0 {
		return time.Duration(desc.TimeoutSeconds) * time.Second
	}
	return 0
}

func depsMet(deps []string, succeeded map[string]bool) bool {
	for _, dep := range deps {
		if !succeeded[dep] {
			return false
		}
	}
	return true
}

func dependencyFailure(step domain.ToolCall) domain.ToolResult {
	return domain.ToolResult{
		StepID:       step.StepID,
		Tool:         step.Tool,
		Status:       domain.ToolStatusFailed,
		ErrorCode:    domain.CodeDependencyFailed,
		ErrorMessage: "Dependencies not met",
	}
}

func nonRetryable(code string) bool {
	switch code {
	case domain.CodePermissionDenied, domain.CodeNotFound, domain.CodeInvalidInput:
		return true
	}
	return false
}

// resolveReferences substitutes $steps.<id>.<field> input values with
// the referenced step output. Unresolvable references pass through
// unchanged. The input map is copied, never mutated.
func resolveReferences(inputs map[string]any, outputs map[string]map[string]any) map[string]any {
	if len(inputs) == 0 {
		return inputs
	}
	resolved := make(map[string]any, len(inputs))
	for k, v := range inputs {
		resolved[k] = resolveValue(v, outputs)
	}
	return resolved
}

func resolveValue(v any, outputs map[string]map[string]any) any {
	switch t := v.(type) {
	case string:
		if !strings.HasPrefix(t, stepRefPrefix) {
			return t
		}
		stepID, field, ok := strings.Cut(strings.TrimPrefix(t, stepRefPrefix), ".")
		if !ok {
			return t
		}
		out, ok := outputs[stepID]
		if !ok {
			return t
		}
		val, ok := out[field]
		if !ok {
			return t
		}
		return val
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[k] = resolveValue(v, outputs)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = resolveValue(t[i], outputs)
		}
		return s
	default:
		return v
	}
}

// ctxSleep waits for d unless the context ends first. A false return
// means the wait was cancelled.
func ctxSleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
