// Package notify posts task completion callbacks to the backend so it can
// broadcast results over WebSocket. Delivery is best effort: by the time a
// callback fires the task output is already persisted, so failures are
// logged and swallowed rather than surfaced to the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

const defaultTimeout = 5 * time.Second

// Webhook notifies the backend internal API about finished tasks.
type Webhook struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewWebhook builds a notifier for the backend at backendURL. A non-positive
// timeout falls back to 5s.
func NewWebhook(backendURL, apiKey string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Webhook{
		baseURL: strings.TrimRight(backendURL, "/") + "/api/v1",
		apiKey:  apiKey,
		hc: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return fmt.Sprintf("notify %s %s", r.Method, r.URL.Path)
				})),
		},
	}
}

type taskCompletePayload struct {
	TaskID         string `json:"task_id"`
	ConversationID string `json:"conversation_id"`
	AgentID        string `json:"agent_id"`
	Output         string `json:"output"`
}

// TaskComplete posts the finished task to /internal/task-complete. Transport
// failures and error statuses are logged at warn and reported as success so
// a flaky backend never fails an already completed task.
func (w *Webhook) TaskComplete(ctx context.Context, t domain.Task) error {
	payload, err := json.Marshal(taskCompletePayload{
		TaskID:         t.ID,
		ConversationID: t.ConversationID,
		AgentID:        t.AgentID,
		Output:         t.Output,
	})
	if err != nil {
		return fmt.Errorf("op=notify.TaskComplete: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/internal/task-complete", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("op=notify.TaskComplete: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.apiKey != "" {
		req.Header.Set("X-Internal-API-Key", w.apiKey)
	}
	resp, err := w.hc.Do(req)
	if err != nil {
		slog.Warn("failed to notify backend",
			slog.String("task_id", t.ID),
			slog.String("error", err.Error()))
		return nil
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		slog.Warn("backend notification failed",
			slog.String("task_id", t.ID),
			slog.Int("status", resp.StatusCode))
	}
	return nil
}
