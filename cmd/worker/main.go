// Package main provides the worker application entry point.
// The worker consumes queued agent tasks from Redpanda and runs the full
// execute pipeline (model selection, budget checks, dispatch, tool plans).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/agent-orchestrator/internal/app"
	"github.com/fairyhunter13/agent-orchestrator/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register Prometheus metrics in the worker process and expose them on a
	// dedicated /metrics endpoint so Prometheus can scrape queue metrics.
	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	// Enable tracing for worker-side spans (dispatch, tool steps, queue
	// handlers) when an OTLP endpoint is configured.
	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Warn("redis url parse failed, provider throttling disabled", slog.Any("error", err))
		} else {
			rdb = redis.NewClient(opts)
			defer func() { _ = rdb.Close() }()
		}
	}

	// The worker never enqueues, so it carries no queue producer.
	orc := app.BuildOrchestrator(ctx, cfg, pool, nil, rdb)

	tasks := postgres.NewTaskRepo(pool)

	// Worker (Redpanda consumer). The transactional ID is fixed per consumer
	// group so exactly-once processing holds across restarts.
	worker, err := redpanda.NewConsumerWithConfig(
		cfg.KafkaBrokers,
		"agent-orchestrator-workers",
		"agent-orchestrator-consumer",
		orc,
		tasks,
		cfg.ConsumerMaxConcurrency,
		redpanda.TopicExecute,
	)
	if err != nil {
		slog.Error("redpanda consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := worker.Close(); err != nil {
			slog.Error("failed to close worker", slog.Any("error", err))
		}
	}()

	// Stuck-task sweeper ensures long-running tasks eventually transition to
	// a failed terminal state even if the worker handling them crashes.
	sweeper := postgres.NewSweeper(tasks, pool, cfg.StuckTaskMaxAge, 0)
	go sweeper.RunPeriodic(ctx, cfg.StuckTaskSweepInterval)

	slog.Info("starting redpanda consumer")
	errCh := make(chan error, 1)
	go func() {
		errCh <- worker.Start(ctx)
	}()

	slog.Info("worker started successfully, waiting for shutdown signal")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("signal received, shutting down", slog.String("signal", sig.String()))
		cancel()
		// Give in-flight tasks a chance to drain before the process exits.
		select {
		case <-errCh:
		case <-time.After(cfg.ServerShutdownTimeout):
			slog.Warn("shutdown timeout reached with tasks still in flight")
		}
	case err := <-errCh:
		if err != nil {
			slog.Error("worker error", slog.Any("error", err))
		}
	}
	slog.Info("worker stopped")
}
