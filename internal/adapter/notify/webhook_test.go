package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func TestTaskCompletePostsPayload(t *testing.T) {
	var got taskCompletePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/internal/task-complete", r.URL.Path)
		require.Equal(t, "internal-key", r.Header.Get("X-Internal-API-Key"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	task := domain.Task{
		ID:             "task-1",
		AgentID:        "agent-2",
		ConversationID: "conv-3",
		Output:         "done and dusted",
	}
	require.NoError(t, NewWebhook(srv.URL, "internal-key", 0).TaskComplete(context.Background(), task))
	require.Equal(t, "task-1", got.TaskID)
	require.Equal(t, "conv-3", got.ConversationID)
	require.Equal(t, "agent-2", got.AgentID)
	require.Equal(t, "done and dusted", got.Output)
}

func TestNewWebhookTimeout(t *testing.T) {
	require.Equal(t, defaultTimeout, NewWebhook("http://backend", "k", 0).hc.Timeout)
	require.Equal(t, 2*time.Second, NewWebhook("http://backend", "k", 2*time.Second).hc.Timeout)
}

func TestTaskCompleteSwallowsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "broadcast hub down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, "internal-key", 0).TaskComplete(context.Background(), domain.Task{ID: "task-1"})
	require.NoError(t, err)
}

func TestTaskCompleteSwallowsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	err := NewWebhook(srv.URL, "internal-key", 0).TaskComplete(context.Background(), domain.Task{ID: "task-1"})
	require.NoError(t, err)
}
