package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/embedding"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/ledger"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/notify"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/provider"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/provider/anthropic"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/provider/groq"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/provider/ollama"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/provider/openai"
	providerstub "github.com/fairyhunter13/agent-orchestrator/internal/adapter/provider/stub"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/repo/postgres"
	qdrantcli "github.com/fairyhunter13/agent-orchestrator/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/agent-orchestrator/internal/config"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/breaker"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/budget"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/policy"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/ratelimiter"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/registry"
	"github.com/fairyhunter13/agent-orchestrator/internal/service/selection"
	"github.com/fairyhunter13/agent-orchestrator/internal/toolexec"
	"github.com/fairyhunter13/agent-orchestrator/internal/toolexec/googletool"
	"github.com/fairyhunter13/agent-orchestrator/internal/toolexec/internaltool"
	"github.com/fairyhunter13/agent-orchestrator/internal/toolexec/sandbox"
	"github.com/fairyhunter13/agent-orchestrator/internal/usecase"
)

// BuildProviders constructs the model provider adapters from configured
// credentials. Adapters with missing keys register as unavailable so the
// catalogue reflects what can actually serve.
func BuildProviders(cfg config.Config) *provider.Directory {
	providers := []domain.ModelProvider{
		openai.NewCompatible("openai", cfg.OpenAIAPIKey, cfg.OpenAIBaseURL).WithDefaultModel(cfg.OpenAIModel),
		anthropic.New(cfg.AnthropicAPIKey),
		groq.New(cfg.GroqAPIKey, cfg.GroqBaseURL),
		ollama.New(cfg.OllamaURL, cfg.OllamaEnabled),
	}
	if cfg.StubProvider {
		providers = append(providers, providerstub.New())
	}
	dir := provider.NewDirectory(providers...)
	slog.Info("providers registered", slog.Any("names", dir.Names()))
	return dir
}

// BuildOrchestrator assembles the full task pipeline: repositories,
// provider directory, model selection, budget guard, memory index,
// ledger, webhook notifier and the tool executor. Both binaries call
// this; queue may be nil for processes that never enqueue, rdb may be
// nil to run without the provider throttle.
func BuildOrchestrator(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, queue domain.Queue, rdb *redis.Client) *usecase.Orchestrator {
	tasks := postgres.NewTaskRepo(pool)
	agents := postgres.NewAgentRepo(pool)
	messages := postgres.NewMessageRepo(pool)
	memories := postgres.NewMemoryRepo(pool)
	metrics := postgres.NewMetricsRepo(pool)
	if err := metrics.EnsureSchema(ctx); err != nil {
		slog.Warn("metrics schema bootstrap failed", slog.Any("error", err))
	}

	directory := BuildProviders(cfg)

	reg := registry.New(cfg.ModelsConfigPath, directory)
	if cfg.OllamaEnabled {
		reg.StartOllamaRefresher(ctx, cfg.OllamaURL, cfg.AvailabilityRefresh)
	}

	eng := policy.New(cfg.PoliciesConfigPath, cfg.PreferLocalModels)
	extractor := selection.NewExtractor(eng.RoleProfiles())
	scorer := selection.NewScorer(eng.Weights())
	brk := breaker.New(breaker.DefaultConfig())

	buckets := make(map[string]ratelimiter.BucketConfig)
	for _, name := range directory.Names() {
		buckets[ratelimiter.ProviderKey(name)] = ratelimiter.PerMinute(cfg.ProviderRatePerMin)
	}
	limiter := ratelimiter.NewRedisLuaLimiter(rdb, pool, buckets)
	if limiter != nil {
		if err := limiter.WarmFromPostgres(ctx); err != nil {
			slog.Warn("rate limit warm-up failed", slog.Any("error", err))
		}
	}
	throttle := ratelimiter.NewProviderThrottle(limiter)

	selector := selection.NewSelector(extractor, scorer, eng, reg, directory, brk, throttle, cfg.DefaultModel)

	limits := budget.DefaultLimits()
	limits.Hourly = cfg.HourlyCreditLimit
	limits.Daily = cfg.DailyCreditLimit
	limits.PauseEnabled = cfg.PauseOnLimit
	windows := budget.NewWindows(limits)
	estimator := budget.NewEstimator(eng)
	anomaly := budget.NewDetector()

	var index domain.MemoryIndex
	if cfg.QdrantURL != "" {
		ix := qdrantcli.NewIndex(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.EmbeddingsDimensions, embedding.New(cfg.OpenAIAPIKey, cfg.EmbeddingsModel))
		EnsureMemoryIndex(ctx, ix)
		index = ix
	}

	ledgerClient := ledger.New(cfg.LedgerBaseURL(), cfg.InternalAPIKey, cfg.LedgerTimeout).
		WithBackOff(cfg.GetBackoffConfig())

	return usecase.NewOrchestrator(usecase.Deps{
		Tasks:     tasks,
		Agents:    agents,
		Messages:  messages,
		Memories:  memories,
		Index:     index,
		Metrics:   metrics,
		Ledger:    ledgerClient,
		Notifier:  notify.NewWebhook(cfg.BackendURL, cfg.InternalAPIKey, cfg.WebhookTimeout),
		Queue:     queue,
		Selector:  selector,
		Estimator: estimator,
		Windows:   windows,
		Anomaly:   anomaly,
		Tools:     BuildToolExecutor(cfg),
	})
}

// BuildToolExecutor wires the tool registry, permission gateway, quotas
// and vendor adapters into an executor. Descriptor registration is
// static; a failure there is a programming error worth a loud log.
func BuildToolExecutor(cfg config.Config) *toolexec.Executor {
	reg := toolexec.NewRegistry()
	for _, d := range googletool.Descriptors() {
		if err := reg.Register(d); err != nil {
			slog.Error("tool descriptor rejected", slog.String("tool", d.Name), slog.Any("error", err))
		}
	}
	for _, d := range internaltool.Descriptors() {
		if err := reg.Register(d); err != nil {
			slog.Error("tool descriptor rejected", slog.String("tool", d.Name), slog.Any("error", err))
		}
	}
	sb := sandbox.NewWithConfig(cfg.SandboxPython, sandbox.Limits{
		MaxCPUSeconds: cfg.SandboxMaxCPU,
		MaxMemoryMB:   cfg.SandboxMaxMemMB,
		Timeout:       cfg.SandboxTimeout,
	})
	return toolexec.NewExecutor(
		reg,
		toolexec.NewGateway(),
		toolexec.NewQuotas(),
		googletool.New(),
		internaltool.New(sb),
	)
}
