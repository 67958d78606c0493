// Package postgres persists orchestrator state: tasks, agent context,
// conversation messages, key/value memories and model execution metrics.
// The tasks, agents, messages and memories tables are owned by the backend
// and shared; only the metrics and rate limit bucket tables are created
// here (see MetricsRepo.EnsureSchema).
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repositories use, kept minimal
// so tests can stub the pool.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
