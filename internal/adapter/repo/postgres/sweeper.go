package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// Sweeper fails tasks stuck in flight past a maximum age and trims old
// execution metrics. Crashed workers leave tasks in thinking/working
// forever; the sweeper is what turns those into visible failures.
type Sweeper struct {
	Tasks         *TaskRepo
	Pool          PgxPool
	MaxTaskAge    time.Duration
	RetentionDays int
}

// NewSweeper creates a sweeper. Zero values fall back to a 30 minute task
// age ceiling and 90 days of metric retention.
func NewSweeper(tasks *TaskRepo, pool PgxPool, maxTaskAge time.Duration, retentionDays int) *Sweeper {
	if maxTaskAge <= 0 {
		maxTaskAge = 30 * time.Minute
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &Sweeper{Tasks: tasks, Pool: pool, MaxTaskAge: maxTaskAge, RetentionDays: retentionDays}
}

// Sweep runs one pass: fail stuck tasks, delete expired metrics.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.MaxTaskAge)
	stuck, err := s.Tasks.ListStuck(ctx, cutoff, 100)
	if err != nil {
		return fmt.Errorf("op=sweeper.sweep: %w", err)
	}
	for _, t := range stuck {
		msg := "Task exceeded maximum execution time"
		if err := s.Tasks.UpdateStatus(ctx, t.ID, domain.TaskFailed, nil, &msg); err != nil {
			slog.Error("failed to fail stuck task", slog.String("task_id", t.ID), slog.Any("error", err))
			continue
		}
		slog.Warn("stuck task failed by sweeper",
			slog.String("task_id", t.ID),
			slog.String("agent_id", t.AgentID),
			slog.String("was_status", string(t.Status)))
	}

	retentionCutoff := time.Now().UTC().AddDate(0, 0, -s.RetentionDays)
	tag, err := s.Pool.Exec(ctx, `DELETE FROM model_execution_metrics WHERE created_at < $1`, retentionCutoff)
	if err != nil {
		return fmt.Errorf("op=sweeper.sweep: %w", err)
	}

	slog.Info("sweep completed",
		slog.Int("stuck_tasks", len(stuck)),
		slog.Int64("deleted_metrics", tag.RowsAffected()),
		slog.Time("task_cutoff", cutoff))
	return nil
}

// RunPeriodic sweeps immediately and then on every tick until ctx ends.
func (s *Sweeper) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.Sweep(ctx); err != nil {
		slog.Error("initial sweep failed", slog.Any("error", err))
	}
	for {
		select {
		case <-ctx.Done():
			slog.Info("sweeper stopping")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				slog.Error("periodic sweep failed", slog.Any("error", err))
			}
		}
	}
}
