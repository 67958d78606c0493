// Package observability wires the process-wide telemetry stack shared by the
// API server and the queue worker: the slog logger, the Prometheus metric
// registry, and OpenTelemetry tracing.
package observability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/agent-orchestrator/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// SetupTracing installs a global tracer provider exporting to the configured
// OTLP gRPC endpoint and returns its shutdown func. Without an endpoint it is
// a no-op and the returned shutdown is nil.
func SetupTracing(cfg config.Config) (func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		slog.Info("OTLP endpoint not set; tracing disabled")
		return nil, nil
	}

	ctx := context.Background()
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("op=observability.SetupTracing: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTELServiceName),
			semconv.DeploymentEnvironment(cfg.AppEnv),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("op=observability.SetupTracing: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(samplerFor(cfg)),
	)
	otel.SetTracerProvider(tp)

	// The otelhttp transports on the ledger and webhook clients, and the
	// inbound trace middleware, all go through the global propagator. Without
	// this registration no traceparent header ever crosses a process boundary.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("tracing configured",
		slog.String("endpoint", cfg.OTLPEndpoint),
		slog.String("service", cfg.OTELServiceName))
	return tp.Shutdown, nil
}

// samplerFor records every span outside production. Production keeps one
// trace in ten; parent decisions win either way, so a sampled upstream trace
// stays whole end to end.
func samplerFor(cfg config.Config) trace.Sampler {
	ratio := 1.0
	if cfg.IsProd() {
		ratio = 0.1
	}
	return trace.ParentBased(trace.TraceIDRatioBased(ratio))
}
