package observability

import (
	"log/slog"
	"os"

	"github.com/fairyhunter13/agent-orchestrator/internal/config"
)

// SetupLogger builds the process logger. Development gets a human-readable
// text handler at debug level with source locations; every other environment
// logs JSON at info so log shippers can ingest it. Both carry the service and
// environment as base attributes.
func SetupLogger(cfg config.Config) *slog.Logger {
	var h slog.Handler
	if cfg.IsDev() {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(h).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
	)
}
