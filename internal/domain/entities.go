package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrRateLimited         = errors.New("rate limited")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrBreakerOpen         = errors.New("circuit breaker open")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamRateLimit   = errors.New("upstream rate limit")
	ErrConfig              = errors.New("config invalid")
	ErrSandbox             = errors.New("sandbox rejected")
	ErrInternal            = errors.New("internal error")
)

//go:generate mockery --name=TaskRepository --with-expecter --filename=task_repository_mock.go
//go:generate mockery --name=AgentRepository --with-expecter --filename=agent_repository_mock.go
//go:generate mockery --name=MessageRepository --with-expecter --filename=message_repository_mock.go
//go:generate mockery --name=MemoryRepository --with-expecter --filename=memory_repository_mock.go
//go:generate mockery --name=MetricsRepository --with-expecter --filename=metrics_repository_mock.go
//go:generate mockery --name=Queue --with-expecter --filename=queue_mock.go
//go:generate mockery --name=ModelProvider --with-expecter --filename=model_provider_mock.go
//go:generate mockery --name=LedgerClient --with-expecter --filename=ledger_client_mock.go
//go:generate mockery --name=Embedder --with-expecter --filename=embedder_mock.go
//go:generate mockery --name=MemoryIndex --with-expecter --filename=memory_index_mock.go
//go:generate mockery --name=Notifier --with-expecter --filename=notifier_mock.go

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskPending  TaskStatus = "pending"
	TaskThinking TaskStatus = "thinking"
	TaskWorking  TaskStatus = "working"
	TaskDone     TaskStatus = "done"
	TaskFailed   TaskStatus = "failed"
)

// Task is a unit of agent work routed through the orchestrator.
// Invariants: ID, AgentID, OfficeID, ConversationID and Input are non-empty
// before execution; terminal states (done, failed) set CompletedAt.
type Task struct {
	ID             string
	AgentID        string
	OfficeID       string
	ConversationID string
	Input          string
	Status         TaskStatus
	Output         string
	Error          string
	TokenUsage     map[string]int
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// Message is one turn of a conversation. SenderType is user or agent.
type Message struct {
	ID             string
	OfficeID       string
	ConversationID string
	SenderType     string
	SenderID       string
	Content        string
	CreatedAt      time.Time
}

// AgentTemplate is a reusable agent definition.
type AgentTemplate struct {
	ID        string
	Name      string
	Role      string
	SkillTags []string
}

// AgentContext is everything the orchestrator needs to speak as an agent:
// identity, system prompt, recent history, remembered facts.
type AgentContext struct {
	AgentID             string
	AgentName           string
	AgentRole           string
	SystemPrompt        string
	ConversationHistory []Message
	Memories            []string
}

// Memory is a persisted key/value fact about an agent's world.
type Memory struct {
	ID         string
	AgentID    string
	OfficeID   string
	Key        string
	Value      string
	Kind       string
	Importance float64
	UpdatedAt  time.Time
}

// MemoryHit is a semantic search result with its similarity score.
type MemoryHit struct {
	Memory Memory
	Score  float64
}

// Cost tiers, cheapest first. Tier ordering matters for policy ceilings.
const (
	CostTierFree   = "free"
	CostTierLow    = "low"
	CostTierMedium = "medium"
	CostTierHigh   = "high"
)

// CostTierRank maps a tier to its position in the cheap-to-expensive order.
// Unknown tiers rank above high so a typo never slips past a ceiling.
func CostTierRank(tier string) int {
	switch tier {
	case CostTierFree:
		return 0
	case CostTierLow:
		return 1
	case CostTierMedium:
		return 2
	case CostTierHigh:
		return 3
	default:
		return 4
	}
}

// Model speed classes.
const (
	SpeedFast   = "fast"
	SpeedMedium = "medium"
	SpeedSlow   = "slow"
)

// ModelDescriptor describes a registered model. Descriptors are immutable
// after registry load; live availability is tracked by the registry.
// Capabilities holds claimed 0-10 scores keyed by capability name
// (reasoning, coding, long_context, summarization, planning,
// structured_output, multimodal, speed, web_search, real_time_data).
type ModelDescriptor struct {
	Name          string
	Provider      string
	Capabilities  map[string]int
	CostTier      string
	MaxTokens     int
	ContextWindow int
	Speed         string
	Available     bool
	// Optional per-model pricing. Zero means fall back to tier pricing.
	PricePer1KInput    float64
	PricePer1KOutput   float64
	CreditsPer1KInput  float64
	CreditsPer1KOutput float64
}

// Capability returns the claimed score for a capability and whether the
// model declares it at all.
func (m ModelDescriptor) Capability(name string) (int, bool) {
	score, ok := m.Capabilities[name]
	return score, ok
}

// IsFree reports whether executions of this model never consume credits.
func (m ModelDescriptor) IsFree() bool { return m.CostTier == CostTierFree }

// TaskRequirements is what the capability extractor derives from task text.
type TaskRequirements struct {
	RequiredCapabilities  map[string]float64
	PreferredCapabilities map[string]float64
	MinCapabilityScore    float64
	ContextNeeded         int
	RequiresLongContext   bool
	RequiresLocal         bool
	MaxCostTier           string
	DetectedRole          string
}

// ScoredModel carries a descriptor with its scoring breakdown.
// Ranking key is (MeetsRequirements, Total) descending.
type ScoredModel struct {
	Model             ModelDescriptor
	Total             float64
	CapabilityScore   float64
	CostScore         float64
	SpeedScore        float64
	ReliabilityScore  float64
	MeetsRequirements bool
	Disqualified      bool
	Reason            string
}

// SelectionResult is the outcome of model selection for one task.
type SelectionResult struct {
	Selected     ModelDescriptor
	Score        float64
	Reason       string
	Alternatives []ModelDescriptor
	Requirements TaskRequirements
}

// Chat roles on the provider wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one provider-bound conversation turn.
type ChatMessage struct {
	Role    string
	Content string
}

// GenerationOptions tune one provider call.
type GenerationOptions struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// Token usage map keys (wire-compatible with the task token_usage field).
const (
	TokenPrompt     = "prompt_tokens"
	TokenCompletion = "completion_tokens"
	TokenTotal      = "total_tokens"
)

// GenerationResult is a completed provider call.
type GenerationResult struct {
	Content      string
	TokenUsage   map[string]int
	Model        string
	Provider     string
	LatencyMS    int64
	FallbackUsed bool
}

// CreditEstimate is a pre-dispatch cost projection. Non-free estimates
// carry a floor of one credit.
type CreditEstimate struct {
	InputTokens     int
	EstOutputTokens int
	Credits         float64
	Free            bool
}

// CreditCheck is the ledger's answer to a balance probe. Err carries the
// transport failure message when the check degraded to fail-open.
type CreditCheck struct {
	HasSufficient bool
	Balance       float64
	Err           string
}

// ConsumeReceipt acknowledges a ledger debit.
type ConsumeReceipt struct {
	NewBalance    float64
	TransactionID string
}

// ModelExecutionMetric records one dispatch attempt for analysis.
type ModelExecutionMetric struct {
	ID                     string
	TaskID                 string
	AgentID                string
	SelectedModel          string
	Provider               string
	AlternativesConsidered []string
	CapabilityMatchScore   float64
	TotalScore             float64
	LatencyMS              int
	PromptTokens           int
	CompletionTokens       int
	Tokens                 int
	EstimatedCost          float64
	Success                bool
	Error                  string
	FallbackUsed           bool
	FallbackModel          string
	CreatedAt              time.Time
}

// ModelStat is a per-model aggregate over a trailing window.
type ModelStat struct {
	Model        string
	Provider     string
	Executions   int64
	SuccessRate  float64
	AvgLatencyMS float64
	TotalTokens  int64
	TotalCost    float64
	FallbackRate float64
}

// ExecuteTaskPayload rides the queue for asynchronous execution. RequestID
// carries the originating HTTP request id so worker logs stay correlated.
type ExecuteTaskPayload struct {
	TaskID         string
	AgentID        string
	OfficeID       string
	ConversationID string
	Input          string
	RequestID      string
}

// Repositories (ports)

type TaskRepository interface {
	Create(ctx Context, t Task) (string, error)
	Get(ctx Context, id string) (Task, error)
	UpdateStatus(ctx Context, id string, status TaskStatus, output, errMsg *string) error
	SetTokenUsage(ctx Context, id string, usage map[string]int) error
	ListStuck(ctx Context, olderThan time.Time, limit int) ([]Task, error)
}

type AgentRepository interface {
	GetContext(ctx Context, agentID string) (AgentContext, error)
	ListTemplates(ctx Context) ([]AgentTemplate, error)
}

type MessageRepository interface {
	Create(ctx Context, m Message) (string, error)
	History(ctx Context, conversationID string, limit int) ([]Message, error)
}

type MemoryRepository interface {
	Upsert(ctx Context, m Memory) error
	ListByAgent(ctx Context, agentID string, limit int) ([]Memory, error)
}

type MetricsRepository interface {
	Save(ctx Context, m ModelExecutionMetric) (string, error)
	Stats(ctx Context, model string, days int) ([]ModelStat, error)
	RecentFailures(ctx Context, limit int) ([]ModelExecutionMetric, error)
}

// Queue (port)

type Queue interface {
	EnqueueExecute(ctx Context, payload ExecuteTaskPayload) (string, error)
}

// ModelProvider (port)
// Generate performs one completion; implementations map upstream 429s to
// ErrUpstreamRateLimit and deadline expiry to ErrUpstreamTimeout.
type ModelProvider interface {
	Name() string
	Available() bool
	HealthCheck(ctx Context) error
	Generate(ctx Context, messages []ChatMessage, opts GenerationOptions) (GenerationResult, error)
}

// LedgerClient (port)
// Check degrades fail-open on transport errors and fail-closed on HTTP
// errors; see CreditCheck.Err.
type LedgerClient interface {
	Check(ctx Context, officeID string, credits float64) (CreditCheck, error)
	Consume(ctx Context, officeID, taskID string, credits float64, modelName string) (ConsumeReceipt, error)
	Balance(ctx Context, officeID string) (float64, error)
}

// Embedder (port)

type Embedder interface {
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// MemoryIndex (port) is the semantic memory store.

type MemoryIndex interface {
	StoreMemory(ctx Context, m Memory) error
	SearchMemories(ctx Context, agentID, query string, limit int, minScore float64) ([]MemoryHit, error)
	DeleteMemory(ctx Context, agentID, key string) error
	CountMemories(ctx Context, agentID string) (int, error)
}

// Notifier (port) delivers best-effort task completion callbacks.

type Notifier interface {
	TaskComplete(ctx Context, t Task) error
}

// Context is an alias to allow decoupling from std context in domain.
// Adapters and usecases should pass context.Context through.

type Context = context.Context
