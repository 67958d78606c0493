package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func TestWriteError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid argument", domain.ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"permission denied", domain.ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED"},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"insufficient credits", domain.ErrInsufficientCredits, http.StatusPaymentRequired, "INSUFFICIENT_CREDITS"},
		{"breaker open", domain.ErrBreakerOpen, http.StatusServiceUnavailable, "BREAKER_OPEN"},
		{"upstream timeout", domain.ErrUpstreamTimeout, http.StatusServiceUnavailable, "UPSTREAM_TIMEOUT"},
		{"upstream rate limit", domain.ErrUpstreamRateLimit, http.StatusServiceUnavailable, "UPSTREAM_RATE_LIMIT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			writeError(rec, req, fmt.Errorf("op=test: %w", tt.err), nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var env errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Contains(t, env.Error.Message, tt.err.Error())
		})
	}
}

func TestWriteError_WrappedChainResolves(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("enqueue: %w", fmt.Errorf("op=pg.CreateTask: %w: dup", domain.ErrConflict))
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), err, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWriteError_Details(t *testing.T) {
	t.Parallel()

	details := []ValidationError{{Field: "days", Code: "INVALID_FORMAT", Message: "Days must be an integer between 1 and 90"}}
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), domain.ErrInvalidArgument, details)

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	got, ok := env.Error.Details.([]any)
	require.True(t, ok)
	require.Len(t, got, 1)
	first, ok := got[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "days", first["field"])
}

func TestWriteJSON_ContentType(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusTeapot, map[string]string{"k": "v"})
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}
