package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of model provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Model provider call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)
	ModelSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_selections_total",
			Help: "Total number of model selections by model and fallback flag",
		},
		[]string{"model", "provider", "fallback"},
	)
	BreakerStateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	TasksEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_enqueued_total",
			Help: "Total number of tasks enqueued",
		},
		[]string{"mode"},
	)
	TasksProcessing = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tasks_processing",
			Help: "Number of tasks currently processing",
		},
		[]string{"mode"},
	)
	TasksCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_completed_total",
			Help: "Total number of tasks completed",
		},
		[]string{"mode"},
	)
	TasksFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_failed_total",
			Help: "Total number of tasks failed",
		},
		[]string{"mode"},
	)

	CreditsConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credits_consumed_total",
			Help: "Total credits consumed across all offices",
		},
	)
	BudgetBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_blocks_total",
			Help: "Total budget guard blocks and warnings by reason",
		},
		[]string{"reason", "action"},
	)
	AnomalyAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomaly_alerts_total",
			Help: "Total anomaly detector alerts by kind",
		},
		[]string{"kind"},
	)

	PlanExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_executions_total",
			Help: "Total tool plan executions by final status",
		},
		[]string{"status"},
	)
	ToolStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_steps_total",
			Help: "Total tool steps by tool and result status",
		},
		[]string{"tool", "status"},
	)
	ToolStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tool_step_duration_seconds",
			Help:    "Tool step duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool"},
	)
	QuotaRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_rejections_total",
			Help: "Total vendor quota rejections by vendor and window",
		},
		[]string{"vendor", "window"},
	)
	SandboxExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_executions_total",
			Help: "Total sandbox executions by outcome",
		},
		[]string{"outcome"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ProviderRequestsTotal)
	prometheus.MustRegister(ProviderRequestDuration)
	prometheus.MustRegister(ModelSelectionsTotal)
	prometheus.MustRegister(BreakerStateGauge)
	prometheus.MustRegister(TasksEnqueuedTotal)
	prometheus.MustRegister(TasksProcessing)
	prometheus.MustRegister(TasksCompletedTotal)
	prometheus.MustRegister(TasksFailedTotal)
	prometheus.MustRegister(CreditsConsumedTotal)
	prometheus.MustRegister(BudgetBlocksTotal)
	prometheus.MustRegister(AnomalyAlertsTotal)
	prometheus.MustRegister(PlanExecutionsTotal)
	prometheus.MustRegister(ToolStepsTotal)
	prometheus.MustRegister(ToolStepDuration)
	prometheus.MustRegister(QuotaRejectionsTotal)
	prometheus.MustRegister(SandboxExecutionsTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			// fallback when route pattern is unavailable
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// Task lifecycle helpers. Mode is "sync" or "async".

func EnqueueTask(mode string) {
	TasksEnqueuedTotal.WithLabelValues(mode).Inc()
}

func StartProcessingTask(mode string) {
	TasksProcessing.WithLabelValues(mode).Inc()
}

func CompleteTask(mode string) {
	TasksProcessing.WithLabelValues(mode).Dec()
	TasksCompletedTotal.WithLabelValues(mode).Inc()
}

func FailTask(mode string) {
	TasksProcessing.WithLabelValues(mode).Dec()
	TasksFailedTotal.WithLabelValues(mode).Inc()
}

// ObserveProviderCall records one provider attempt.
func ObserveProviderCall(provider string, dur time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(dur.Seconds())
}

// ObserveSelection records a model selection outcome.
func ObserveSelection(model, provider string, fallback bool) {
	f := "false"
	if fallback {
		f = "true"
	}
	ModelSelectionsTotal.WithLabelValues(model, provider, f).Inc()
}

// SetBreakerState exports the numeric breaker state for a provider.
func SetBreakerState(provider string, state float64) {
	BreakerStateGauge.WithLabelValues(provider).Set(state)
}

// ObservePlan records a completed tool plan.
func ObservePlan(status string) {
	PlanExecutionsTotal.WithLabelValues(status).Inc()
}

// ObserveToolStep records one finished tool step.
func ObserveToolStep(tool, status string, dur time.Duration) {
	ToolStepsTotal.WithLabelValues(tool, status).Inc()
	ToolStepDuration.WithLabelValues(tool).Observe(dur.Seconds())
}

// ObserveBudgetGuard records a budget window decision that was not a
// plain allow.
func ObserveBudgetGuard(reason, action string) {
	BudgetBlocksTotal.WithLabelValues(reason, action).Inc()
}

// ObserveAnomaly records a triggered anomaly alert.
func ObserveAnomaly(kind string) {
	AnomalyAlertsTotal.WithLabelValues(kind).Inc()
}

// AddCreditsConsumed accumulates reconciled credit spend.
func AddCreditsConsumed(credits float64) {
	CreditsConsumedTotal.Add(credits)
}

// ObserveQuotaRejection records a vendor quota rejection for one window
// (minute, hour, day or concurrent).
func ObserveQuotaRejection(vendor, window string) {
	QuotaRejectionsTotal.WithLabelValues(vendor, window).Inc()
}

// ObserveSandbox records one sandbox run by outcome.
func ObserveSandbox(outcome string) {
	SandboxExecutionsTotal.WithLabelValues(outcome).Inc()
}
