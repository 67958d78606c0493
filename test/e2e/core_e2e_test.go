//go:build e2e
// +build e2e

// Package e2e_test provides end-to-end tests for the agent orchestrator.
//
// The suite runs against a full deployment (docker compose up) and is
// safe to repeat: request bodies are tiny, 429 responses
// are retried with a short backoff, and provider-dependent assertions
// tolerate upstream throttling so CI runs do not flake on rate limits.
// Point it at a deployment with E2E_BASE_URL (default
// http://localhost:8000) and set E2E_INTERNAL_API_KEY when the execution
// endpoints are gated.
package e2e_test

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

const (
	// corePerTaskTimeout bounds one synchronous execute round trip,
	// including model fallback attempts across providers.
	corePerTaskTimeout = 90 * time.Second

	// coreHTTPTimeout is the HTTP client timeout for individual requests.
	coreHTTPTimeout = 15 * time.Second

	// coreAppReadyTimeout is the maximum time to wait for the app to be ready.
	coreAppReadyTimeout = 60 * time.Second
)

func TestE2E_Core_Health(t *testing.T) {
	client := &http.Client{Timeout: coreHTTPTimeout}
	waitForAppReady(t, client, coreAppReadyTimeout)

	st, body := getJSON(t, client, "/health")
	if st != http.StatusOK {
		t.Fatalf("/health returned %d: %#v", st, body)
	}
	if body["status"] != "ok" || body["service"] != "agent-orchestrator" {
		t.Fatalf("unexpected health body: %#v", body)
	}
}

func TestE2E_Core_Readiness(t *testing.T) {
	client := &http.Client{Timeout: coreHTTPTimeout}
	waitForAppReady(t, client, coreAppReadyTimeout)

	st, body := getJSON(t, client, "/readyz")
	checks, ok := body["checks"].([]any)
	if !ok || len(checks) == 0 {
		t.Fatalf("/readyz returned no checks: %#v", body)
	}
	for _, c := range checks {
		m, _ := c.(map[string]any)
		ok, _ := m["ok"].(bool)
		t.Logf("check %v: ok=%v details=%v", m["name"], ok, m["details"])
	}
	if st != http.StatusOK {
		t.Fatalf("/readyz returned %d, dependencies not ready", st)
	}
}

func TestE2E_Core_OpenAPI(t *testing.T) {
	client := &http.Client{Timeout: coreHTTPTimeout}
	waitForAppReady(t, client, coreAppReadyTimeout)

	resp, err := client.Get(baseURL + "/openapi.yaml")
	if err != nil {
		t.Fatalf("GET /openapi.yaml: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/openapi.yaml returned %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(b), "openapi:") {
		t.Fatalf("response does not look like an OpenAPI document")
	}
}

func TestE2E_Core_Metrics(t *testing.T) {
	client := &http.Client{Timeout: coreHTTPTimeout}
	waitForAppReady(t, client, coreAppReadyTimeout)

	resp, err := client.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics returned %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// The health poll above guarantees at least one counted request.
	if !strings.Contains(string(b), "http_requests_total") {
		t.Fatalf("http_requests_total family missing from /metrics")
	}
}

func TestE2E_Core_Agents(t *testing.T) {
	client := &http.Client{Timeout: coreHTTPTimeout}
	waitForAppReady(t, client, coreAppReadyTimeout)

	st, body := getJSON(t, client, "/agents")
	if st != http.StatusOK {
		t.Fatalf("/agents returned %d: %#v", st, body)
	}
	templates, ok := body["templates"].([]any)
	if !ok {
		t.Fatalf("templates array missing: %#v", body)
	}
	t.Logf("agent templates available: %d", len(templates))
	for _, raw := range templates {
		tpl, _ := raw.(map[string]any)
		if id, _ := tpl["id"].(string); id == "" {
			t.Fatalf("template without id: %#v", tpl)
		}
	}
}

func TestE2E_Core_Stats(t *testing.T) {
	client := &http.Client{Timeout: coreHTTPTimeout}
	waitForAppReady(t, client, coreAppReadyTimeout)

	st, body := getJSON(t, client, "/stats/models?days=7")
	if st != http.StatusOK {
		t.Fatalf("/stats/models returned %d: %#v", st, body)
	}
	if _, ok := body["stats"].([]any); !ok {
		t.Fatalf("stats array missing: %#v", body)
	}
	if days, _ := body["days"].(float64); int(days) != 7 {
		t.Fatalf("days echoed as %v, want 7", body["days"])
	}

	st, body = getJSON(t, client, "/stats/failures?limit=5")
	if st != http.StatusOK {
		t.Fatalf("/stats/failures returned %d: %#v", st, body)
	}
	if _, ok := body["failures"].([]any); !ok {
		t.Fatalf("failures array missing: %#v", body)
	}
}
