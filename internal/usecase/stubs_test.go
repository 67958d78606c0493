package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/budget"
)

// Hand-rolled stubs for the orchestrator's ports. Each records what it
// saw and returns canned values; error hooks flip individual calls.

type taskRepoStub struct {
	mu          sync.Mutex
	transitions []domain.TaskStatus
	lastOutput  *string
	lastErrMsg  *string
	usage       map[string]int
	created     []domain.Task

	createID  string
	createErr error
	updateErr func(status domain.TaskStatus) error
	getFn     func(id string) (domain.Task, error)
}

func (s *taskRepoStub) Create(_ context.Context, t domain.Task) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, t)
	if s.createID != "" {
		return s.createID, nil
	}
	if t.ID != "" {
		return t.ID, nil
	}
	return "generated-task-id", nil
}

func (s *taskRepoStub) Get(_ context.Context, id string) (domain.Task, error) {
	if s.getFn != nil {
		return s.getFn(id)
	}
	return domain.Task{ID: id}, nil
}

func (s *taskRepoStub) UpdateStatus(_ context.Context, _ string, status domain.TaskStatus, output, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		if err := s.updateErr(status); err != nil {
			return err
		}
	}
	s.transitions = append(s.transitions, status)
	if output != nil {
		s.lastOutput = output
	}
	if errMsg != nil {
		s.lastErrMsg = errMsg
	}
	return nil
}

func (s *taskRepoStub) SetTokenUsage(_ context.Context, _ string, usage map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage = usage
	return nil
}

func (s *taskRepoStub) ListStuck(_ context.Context, _ time.Time, _ int) ([]domain.Task, error) {
	return nil, nil
}

type agentRepoStub struct {
	agent     domain.AgentContext
	agentErr  error
	templates []domain.AgentTemplate
	tplErr    error
}

func (s *agentRepoStub) GetContext(_ context.Context, _ string) (domain.AgentContext, error) {
	return s.agent, s.agentErr
}

func (s *agentRepoStub) ListTemplates(_ context.Context) ([]domain.AgentTemplate, error) {
	return s.templates, s.tplErr
}

type messageRepoStub struct {
	history    []domain.Message
	historyErr error
	created    []domain.Message
	createErr  error
}

func (s *messageRepoStub) Create(_ context.Context, m domain.Message) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, m)
	return "msg-1", nil
}

func (s *messageRepoStub) History(_ context.Context, _ string, _ int) ([]domain.Message, error) {
	return s.history, s.historyErr
}

type memoryRepoStub struct {
	list    []domain.Memory
	listErr error
}

func (s *memoryRepoStub) Upsert(_ context.Context, _ domain.Memory) error { return nil }

func (s *memoryRepoStub) ListByAgent(_ context.Context, _ string, _ int) ([]domain.Memory, error) {
	return s.list, s.listErr
}

type memoryIndexStub struct {
	hits      []domain.MemoryHit
	searchErr error

	gotQuery    string
	gotLimit    int
	gotMinScore float64
}

func (s *memoryIndexStub) StoreMemory(_ context.Context, _ domain.Memory) error { return nil }

func (s *memoryIndexStub) SearchMemories(_ context.Context, _ string, query string, limit int, minScore float64) ([]domain.MemoryHit, error) {
	s.gotQuery = query
	s.gotLimit = limit
	s.gotMinScore = minScore
	return s.hits, s.searchErr
}

func (s *memoryIndexStub) DeleteMemory(_ context.Context, _, _ string) error { return nil }

func (s *memoryIndexStub) CountMemories(_ context.Context, _ string) (int, error) { return 0, nil }

type metricsRepoStub struct {
	mu       sync.Mutex
	saved    []domain.ModelExecutionMetric
	saveErr  error
	stats    []domain.ModelStat
	statsErr error
	failures []domain.ModelExecutionMetric
	failErr  error
}

func (s *metricsRepoStub) Save(_ context.Context, m domain.ModelExecutionMetric) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved = append(s.saved, m)
	return "metric-1", nil
}

func (s *metricsRepoStub) Stats(_ context.Context, _ string, _ int) ([]domain.ModelStat, error) {
	return s.stats, s.statsErr
}

func (s *metricsRepoStub) RecentFailures(_ context.Context, _ int) ([]domain.ModelExecutionMetric, error) {
	return s.failures, s.failErr
}

type consumeCall struct {
	officeID string
	taskID   string
	credits  float64
	model    string
}

type ledgerStub struct {
	check      domain.CreditCheck
	checkErr   error
	checkCalls int
	receipt    domain.ConsumeReceipt
	consumeErr error
	consumed   []consumeCall
}

func (s *ledgerStub) Check(_ context.Context, _ string, _ float64) (domain.CreditCheck, error) {
	s.checkCalls++
	return s.check, s.checkErr
}

func (s *ledgerStub) Consume(_ context.Context, officeID, taskID string, credits float64, modelName string) (domain.ConsumeReceipt, error) {
	if s.consumeErr != nil {
		return domain.ConsumeReceipt{}, s.consumeErr
	}
	s.consumed = append(s.consumed, consumeCall{officeID: officeID, taskID: taskID, credits: credits, model: modelName})
	return s.receipt, nil
}

func (s *ledgerStub) Balance(_ context.Context, _ string) (float64, error) {
	return s.check.Balance, nil
}

type notifierStub struct {
	notified []domain.Task
	err      error
}

func (s *notifierStub) TaskComplete(_ context.Context, t domain.Task) error {
	if s.err != nil {
		return s.err
	}
	s.notified = append(s.notified, t)
	return nil
}

type queueStub struct {
	payloads []domain.ExecuteTaskPayload
	err      error
}

func (s *queueStub) EnqueueExecute(_ context.Context, p domain.ExecuteTaskPayload) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.payloads = append(s.payloads, p)
	return p.TaskID, nil
}

type selectorStub struct {
	sel     domain.SelectionResult
	selErr  error
	result  domain.GenerationResult
	metrics []domain.ModelExecutionMetric
	execErr error

	gotInput    string
	gotRole     string
	gotMessages []domain.ChatMessage
	gotOpts     domain.GenerationOptions
}

func (s *selectorStub) Select(_ context.Context, input, agentRole string, _ int) (domain.SelectionResult, error) {
	s.gotInput = input
	s.gotRole = agentRole
	return s.sel, s.selErr
}

func (s *selectorStub) Execute(_ context.Context, _ domain.SelectionResult, messages []domain.ChatMessage, opts domain.GenerationOptions) (domain.GenerationResult, []domain.ModelExecutionMetric, error) {
	s.gotMessages = messages
	s.gotOpts = opts
	if s.execErr != nil {
		return domain.GenerationResult{}, s.metrics, s.execErr
	}
	return s.result, s.metrics, nil
}

type estimatorStub struct {
	est    domain.CreditEstimate
	actual float64

	gotPromptTokens     int
	gotCompletionTokens int
}

func (s *estimatorStub) Estimate(_ domain.ModelDescriptor, _ string, _ []domain.Message) domain.CreditEstimate {
	return s.est
}

func (s *estimatorStub) Actual(_ domain.ModelDescriptor, inputTokens, outputTokens int) float64 {
	s.gotPromptTokens = inputTokens
	s.gotCompletionTokens = outputTokens
	return s.actual
}

type windowsStub struct {
	res      budget.CheckResult
	recorded []float64
	hourly   float64
	daily    float64
}

func (s *windowsStub) Check(_ string, _, _ float64) budget.CheckResult { return s.res }

func (s *windowsStub) Record(_ string, credits float64) {
	s.recorded = append(s.recorded, credits)
	s.hourly += credits
}

func (s *windowsStub) Usage(_ string) (float64, float64) { return s.hourly, s.daily }

type anomalyStub struct {
	taskOK     bool
	taskReason string
	spike      bool
	samples    []float64
}

func (s *anomalyStub) CheckTaskCredits(_ string, _ float64) (bool, string) {
	return s.taskOK, s.taskReason
}

func (s *anomalyStub) CheckSpike(_ string, _ float64) (bool, string) {
	if s.spike {
		return true, "hourly spend spike"
	}
	return false, ""
}

func (s *anomalyStub) RecordHourlyUsage(_ string, usage float64) {
	s.samples = append(s.samples, usage)
}

type planRunnerStub struct {
	result  domain.ExecutionResult
	gotPlan domain.ActionPlan
	gotEC   domain.ExecutionContext
}

func (s *planRunnerStub) ExecutePlan(_ context.Context, plan domain.ActionPlan, ec domain.ExecutionContext) domain.ExecutionResult {
	s.gotPlan = plan
	s.gotEC = ec
	return s.result
}

// fixture wires every stub into an orchestrator configured for the
// happy path: known agent, sufficient credits, one-shot dispatch.
type fixture struct {
	tasks    *taskRepoStub
	agents   *agentRepoStub
	messages *messageRepoStub
	memories *memoryRepoStub
	index    *memoryIndexStub
	metrics  *metricsRepoStub
	ledger   *ledgerStub
	notifier *notifierStub
	queue    *queueStub
	selector *selectorStub
	estim    *estimatorStub
	windows  *windowsStub
	anomaly  *anomalyStub
	tools    *planRunnerStub
}

func newFixture() *fixture {
	return &fixture{
		tasks: &taskRepoStub{},
		agents: &agentRepoStub{
			agent: domain.AgentContext{
				AgentID:      "agent-1",
				AgentName:    "Dana",
				AgentRole:    "developer",
				SystemPrompt: "You are Dana, a senior developer.",
			},
		},
		messages: &messageRepoStub{},
		memories: &memoryRepoStub{},
		index:    &memoryIndexStub{},
		metrics:  &metricsRepoStub{},
		ledger: &ledgerStub{
			check:   domain.CreditCheck{HasSufficient: true, Balance: 500},
			receipt: domain.ConsumeReceipt{NewBalance: 495, TransactionID: "tx-1"},
		},
		notifier: &notifierStub{},
		queue:    &queueStub{},
		selector: &selectorStub{
			sel: domain.SelectionResult{
				Selected: domain.ModelDescriptor{Name: "gpt-4-turbo", Provider: "openai"},
				Score:    0.91,
				Reason:   "capability match",
			},
			result: domain.GenerationResult{
				Content: "Here is the fix.",
				TokenUsage: map[string]int{
					domain.TokenPrompt:     120,
					domain.TokenCompletion: 40,
					domain.TokenTotal:      160,
				},
				Model:     "gpt-4-turbo",
				Provider:  "openai",
				LatencyMS: 850,
			},
			metrics: []domain.ModelExecutionMetric{{
				SelectedModel: "gpt-4-turbo",
				Provider:      "openai",
				Success:       true,
			}},
		},
		estim: &estimatorStub{
			est:    domain.CreditEstimate{InputTokens: 120, EstOutputTokens: 500, Credits: 5},
			actual: 3.2,
		},
		windows: &windowsStub{res: budget.CheckResult{Allowed: true, Action: budget.ActionAllow}},
		anomaly: &anomalyStub{taskOK: true},
		tools:   &planRunnerStub{},
	}
}

func (f *fixture) orchestrator() *Orchestrator {
	return NewOrchestrator(Deps{
		Tasks:     f.tasks,
		Agents:    f.agents,
		Messages:  f.messages,
		Memories:  f.memories,
		Index:     f.index,
		Metrics:   f.metrics,
		Ledger:    f.ledger,
		Notifier:  f.notifier,
		Queue:     f.queue,
		Selector:  f.selector,
		Estimator: f.estim,
		Windows:   f.windows,
		Anomaly:   f.anomaly,
		Tools:     f.tools,
	})
}

func validRequest() ExecuteRequest {
	return ExecuteRequest{
		TaskID:         "task-1",
		AgentID:        "agent-1",
		OfficeID:       "office-1",
		ConversationID: "conv-1",
		Input:          "Please review the deploy script.",
	}
}
