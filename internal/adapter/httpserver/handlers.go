package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/config"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/usecase"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Service is the slice of the orchestrator the HTTP surface needs.
type Service interface {
	Execute(ctx context.Context, req usecase.ExecuteRequest) (usecase.ExecuteResponse, error)
	EnqueueExecute(ctx context.Context, req usecase.ExecuteRequest) (string, error)
	ExecuteToolPlan(ctx context.Context, userID, officeID string, plan domain.ActionPlan) (domain.ExecutionResult, error)
	ListAgents(ctx context.Context) ([]domain.AgentTemplate, error)
	ModelStats(ctx context.Context, model string, days int) ([]domain.ModelStat, error)
	RecentFailures(ctx context.Context, limit int) ([]domain.ModelExecutionMetric, error)
}

// Server aggregates handler dependencies.
type Server struct {
	Cfg         config.Config
	Svc         Service
	DBCheck     func(ctx context.Context) error
	RedisCheck  func(ctx context.Context) error
	QdrantCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, svc Service, dbCheck, redisCheck, qdrantCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Svc: svc, DBCheck: dbCheck, RedisCheck: redisCheck, QdrantCheck: qdrantCheck}
}

// notAcceptable rejects requests that demand a non-JSON response. The
// API only speaks JSON.
func notAcceptable(w http.ResponseWriter, r *http.Request) bool {
	a := r.Header.Get("Accept")
	if a == "" || a == "*/*" || strings.Contains(a, "application/json") {
		return false
	}
	writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{
		Code:    "INVALID_ARGUMENT",
		Message: "not acceptable",
		Details: map[string]any{"accept": a},
	}})
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument)
	}
	return nil
}

// ExecuteHandler runs a task synchronously. Business failures come back
// as status 200 with a failed task state; the task row carries the
// authoritative error either way.
func (s *Server) ExecuteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		var req usecase.ExecuteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		resp, err := s.Svc.Execute(r.Context(), req)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ExecuteAsyncHandler persists the task and queues it for a worker.
func (s *Server) ExecuteAsyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		var req usecase.ExecuteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		taskID, err := s.Svc.EnqueueExecute(r.Context(), req)
		if err != nil {
			writeError(w, r, fmt.Errorf("enqueue: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{
			"task_id": taskID,
			"status":  "queued",
			"message": "Task queued for processing",
		})
	}
}

// ExecuteToolsHandler runs a tool action plan. Identity comes from
// query parameters with development defaults, matching the trusted
// internal callers this endpoint serves.
func (s *Server) ExecuteToolsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			userID = "test_user"
		}
		officeID := r.URL.Query().Get("office_id")
		if officeID == "" {
			officeID = "test_office"
		}
		var plan domain.ActionPlan
		if err := decodeJSON(w, r, &plan); err != nil {
			writeError(w, r, err, nil)
			return
		}
		res, err := s.Svc.ExecuteToolPlan(r.Context(), userID, officeID, plan)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// AgentsHandler lists available agent templates.
func (s *Server) AgentsHandler() http.HandlerFunc {
	type template struct {
		ID        string   `json:"id"`
		Name      string   `json:"name"`
		Role      string   `json:"role"`
		SkillTags []string `json:"skill_tags"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		templates, err := s.Svc.ListAgents(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := make([]template, 0, len(templates))
		for _, t := range templates {
			out = append(out, template{ID: t.ID, Name: t.Name, Role: t.Role, SkillTags: t.SkillTags})
		}
		writeJSON(w, http.StatusOK, map[string]any{"templates": out})
	}
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "agent-orchestrator",
		})
	}
}

// ModelStatsHandler returns aggregated execution stats per model.
func (s *Server) ModelStatsHandler() http.HandlerFunc {
	type stat struct {
		Model        string  `json:"model"`
		Provider     string  `json:"provider"`
		Executions   int64   `json:"executions"`
		SuccessRate  float64 `json:"success_rate"`
		AvgLatencyMS float64 `json:"avg_latency_ms"`
		TotalTokens  int64   `json:"total_tokens"`
		TotalCost    float64 `json:"total_cost"`
		FallbackRate float64 `json:"fallback_rate"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		days, res := ParseDays(r.URL.Query().Get("days"))
		if !res.Valid {
			writeError(w, r, fmt.Errorf("%w: invalid days parameter", domain.ErrInvalidArgument), res.Errors)
			return
		}
		model := SanitizeModelName(r.URL.Query().Get("model"))
		stats, err := s.Svc.ModelStats(r.Context(), model, days)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := make([]stat, 0, len(stats))
		for _, st := range stats {
			out = append(out, stat{
				Model:        st.Model,
				Provider:     st.Provider,
				Executions:   st.Executions,
				SuccessRate:  st.SuccessRate,
				AvgLatencyMS: st.AvgLatencyMS,
				TotalTokens:  st.TotalTokens,
				TotalCost:    st.TotalCost,
				FallbackRate: st.FallbackRate,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"stats": out, "days": days})
	}
}

// FailuresHandler returns the most recent failed dispatch attempts.
func (s *Server) FailuresHandler() http.HandlerFunc {
	type failure struct {
		TaskID        string    `json:"task_id"`
		Model         string    `json:"model"`
		Provider      string    `json:"provider"`
		Error         string    `json:"error"`
		FallbackUsed  bool      `json:"fallback_used"`
		FallbackModel string    `json:"fallback_model,omitempty"`
		LatencyMS     int       `json:"latency_ms"`
		CreatedAt     time.Time `json:"created_at"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		limit, res := ParseLimit(r.URL.Query().Get("limit"))
		if !res.Valid {
			writeError(w, r, fmt.Errorf("%w: invalid limit parameter", domain.ErrInvalidArgument), res.Errors)
			return
		}
		failures, err := s.Svc.RecentFailures(r.Context(), limit)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := make([]failure, 0, len(failures))
		for _, f := range failures {
			out = append(out, failure{
				TaskID:        f.TaskID,
				Model:         f.SelectedModel,
				Provider:      f.Provider,
				Error:         f.Error,
				FallbackUsed:  f.FallbackUsed,
				FallbackModel: f.FallbackModel,
				LatencyMS:     f.LatencyMS,
				CreatedAt:     f.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"failures": out})
	}
}

// ReadyzHandler probes Postgres, Redis and Qdrant.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		probe := func(name string, fn func(context.Context) error) {
			if fn == nil {
				return
			}
			if err := fn(ctx); err != nil {
				checks = append(checks, check{Name: name, OK: false, Details: err.Error()})
				return
			}
			checks = append(checks, check{Name: name, OK: true})
		}
		probe("db", s.DBCheck)
		probe("redis", s.RedisCheck)
		probe("qdrant", s.QdrantCheck)

		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// OpenAPIServe serves api/openapi.yaml if present.
func (s *Server) OpenAPIServe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile("api/openapi.yaml")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}
