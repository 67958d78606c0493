package app

import (
	"context"
	"log/slog"

	qdrantcli "github.com/fairyhunter13/agent-orchestrator/internal/adapter/vector/qdrant"
)

// EnsureMemoryIndex ensures the agent-memory collection exists. Bootstrap
// is best effort: a missing Qdrant only degrades memory recall to the
// relational fallback, it never blocks startup.
func EnsureMemoryIndex(ctx context.Context, ix *qdrantcli.Index) {
	if ix == nil {
		return
	}
	if err := ix.EnsureCollection(ctx); err != nil {
		slog.Warn("qdrant ensure memory collection failed", slog.Any("error", err))
	}
}
