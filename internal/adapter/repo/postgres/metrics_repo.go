package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// MetricsRepo persists model execution metrics for analytics and the
// selection feedback loop.
type MetricsRepo struct{ Pool PgxPool }

// NewMetricsRepo constructs a MetricsRepo with the given pool.
func NewMetricsRepo(p PgxPool) *MetricsRepo { return &MetricsRepo{Pool: p} }

// schemaStatements are executed one by one: pgx's extended protocol does
// not accept multi-statement strings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS model_execution_metrics (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		task_id VARCHAR(255) NOT NULL,
		agent_id VARCHAR(255) NOT NULL,
		selected_model VARCHAR(255) NOT NULL,
		provider VARCHAR(50) NOT NULL,
		alternatives_considered TEXT[],
		capability_match_score FLOAT,
		total_score FLOAT,
		latency_ms INTEGER,
		prompt_tokens INTEGER,
		completion_tokens INTEGER,
		total_tokens INTEGER,
		estimated_cost FLOAT,
		success BOOLEAN NOT NULL,
		error TEXT,
		fallback_used BOOLEAN DEFAULT FALSE,
		fallback_model VARCHAR(255),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_metrics_task_id ON model_execution_metrics(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_metrics_agent_id ON model_execution_metrics(agent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_metrics_model ON model_execution_metrics(selected_model)`,
	`CREATE INDEX IF NOT EXISTS idx_metrics_created ON model_execution_metrics(created_at)`,
	`CREATE TABLE IF NOT EXISTS rate_limit_buckets (
		bucket_key VARCHAR(255) PRIMARY KEY,
		capacity BIGINT NOT NULL,
		refill_rate FLOAT NOT NULL,
		tokens FLOAT NOT NULL,
		last_refill TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
}

// EnsureSchema creates the tables this service owns. The shared backend
// tables (tasks, agents, messages, agent_memories) are not touched.
func (r *MetricsRepo) EnsureSchema(ctx domain.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("op=metrics.ensure_schema: %w", err)
		}
	}
	return nil
}

// Save stores one execution metric and returns the generated id.
func (r *MetricsRepo) Save(ctx domain.Context, m domain.ModelExecutionMetric) (string, error) {
	tracer := otel.Tracer("repo.metrics")
	ctx, span := tracer.Start(ctx, "metrics.Save")
	defer span.End()
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	q := `INSERT INTO model_execution_metrics (
	        task_id, agent_id, selected_model, provider,
	        alternatives_considered, capability_match_score, total_score,
	        latency_ms, prompt_tokens, completion_tokens, total_tokens,
	        estimated_cost, success, error, fallback_used, fallback_model,
	        created_at
	      ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	      RETURNING id::text`
	var id string
	err := r.Pool.QueryRow(ctx, q,
		m.TaskID, m.AgentID, m.SelectedModel, m.Provider,
		m.AlternativesConsidered, m.CapabilityMatchScore, m.TotalScore,
		m.LatencyMS, m.PromptTokens, m.CompletionTokens, m.Tokens,
		m.EstimatedCost, m.Success, nullableString(m.Error), m.FallbackUsed, nullableString(m.FallbackModel),
		created,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("op=metrics.save: %w", err)
	}
	return id, nil
}

// Stats aggregates per-model execution counts over a trailing window of
// days (default 7). An empty model aggregates every model, busiest first.
func (r *MetricsRepo) Stats(ctx domain.Context, model string, days int) ([]domain.ModelStat, error) {
	tracer := otel.Tracer("repo.metrics")
	ctx, span := tracer.Start(ctx, "metrics.Stats")
	defer span.End()
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	base := `SELECT
	           selected_model,
	           provider,
	           COUNT(*) AS total_calls,
	           SUM(CASE WHEN success THEN 1 ELSE 0 END) AS successful_calls,
	           COALESCE(AVG(latency_ms), 0) AS avg_latency_ms,
	           COALESCE(SUM(total_tokens), 0) AS total_tokens,
	           COALESCE(SUM(estimated_cost), 0) AS total_cost,
	           SUM(CASE WHEN fallback_used THEN 1 ELSE 0 END) AS fallback_count
	         FROM model_execution_metrics`

	var (
		rows pgx.Rows
		err  error
	)
	if model != "" {
		rows, err = r.Pool.Query(ctx, base+`
	         WHERE created_at > $1 AND selected_model = $2
	         GROUP BY selected_model, provider`, since, model)
	} else {
		rows, err = r.Pool.Query(ctx, base+`
	         WHERE created_at > $1
	         GROUP BY selected_model, provider
	         ORDER BY total_calls DESC`, since)
	}
	if err != nil {
		return nil, fmt.Errorf("op=metrics.stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.ModelStat
	for rows.Next() {
		var (
			s               domain.ModelStat
			successfulCalls int64
			fallbackCount   int64
		)
		if err := rows.Scan(&s.Model, &s.Provider, &s.Executions, &successfulCalls,
			&s.AvgLatencyMS, &s.TotalTokens, &s.TotalCost, &fallbackCount); err != nil {
			return nil, fmt.Errorf("op=metrics.stats: %w", err)
		}
		if s.Executions > 0 {
			s.SuccessRate = float64(successfulCalls) / float64(s.Executions)
			s.FallbackRate = float64(fallbackCount) / float64(s.Executions)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=metrics.stats: %w", err)
	}
	return stats, nil
}

// RecentFailures returns the latest failed executions for debugging.
func (r *MetricsRepo) RecentFailures(ctx domain.Context, limit int) ([]domain.ModelExecutionMetric, error) {
	tracer := otel.Tracer("repo.metrics")
	ctx, span := tracer.Start(ctx, "metrics.RecentFailures")
	defer span.End()
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT task_id, agent_id, selected_model, provider, COALESCE(error, ''), created_at
	      FROM model_execution_metrics
	      WHERE success = FALSE
	      ORDER BY created_at DESC
	      LIMIT $1`
	rows, err := r.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("op=metrics.recent_failures: %w", err)
	}
	defer rows.Close()
	var failures []domain.ModelExecutionMetric
	for rows.Next() {
		m := domain.ModelExecutionMetric{Success: false}
		if err := rows.Scan(&m.TaskID, &m.AgentID, &m.SelectedModel, &m.Provider, &m.Error, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=metrics.recent_failures: %w", err)
		}
		failures = append(failures, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=metrics.recent_failures: %w", err)
	}
	return failures, nil
}
