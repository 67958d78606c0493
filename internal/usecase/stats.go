package usecase

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// ModelStats aggregates execution metrics per model over the trailing
// window. An empty model matches all models; days defaults upstream.
func (o *Orchestrator) ModelStats(ctx context.Context, model string, days int) ([]domain.ModelStat, error) {
	stats, err := o.Metrics.Stats(ctx, model, days)
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ModelStats: %w", err)
	}
	return stats, nil
}

// RecentFailures returns the latest failed dispatch attempts, newest
// first.
func (o *Orchestrator) RecentFailures(ctx context.Context, limit int) ([]domain.ModelExecutionMetric, error) {
	failures, err := o.Metrics.RecentFailures(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("op=usecase.RecentFailures: %w", err)
	}
	return failures, nil
}
