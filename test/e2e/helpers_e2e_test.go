//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// getenv returns the value of the environment variable k or def if empty.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// baseURL is where the orchestrator API listens during the suite.
var baseURL = getenv("E2E_BASE_URL", "http://localhost:8000")

// maybeInternalKey attaches the internal API key header when the suite
// points at a deployment with the auth guard enabled.
func maybeInternalKey(req *http.Request) {
	if k := os.Getenv("E2E_INTERNAL_API_KEY"); k != "" {
		req.Header.Set("X-Internal-API-Key", k)
	}
}

// waitForAppReady polls /health until the API answers 200 or the
// timeout expires.
func waitForAppReady(t *testing.T, client *http.Client, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(2 * time.Second)
	}
	t.Fatalf("app not ready at %s after %s", baseURL, timeout)
}

// postJSON posts payload to path and returns the status code and decoded
// body. 429 responses are retried briefly so back-to-back suite runs stay
// under the per-IP rate limit.
func postJSON(t *testing.T, client *http.Client, path string, payload any) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	var lastStatus int
	for i := 0; i < 6; i++ {
		req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		maybeInternalKey(req)
		resp, err := client.Do(req)
		require.NoError(t, err)
		lastStatus = resp.StatusCode
		if resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			time.Sleep(500 * time.Millisecond)
			continue
		}
		var out map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		return resp.StatusCode, out
	}
	t.Fatalf("still rate limited after retries, last status %d", lastStatus)
	return lastStatus, nil
}

// getJSON fetches path and returns the status code and decoded body.
func getJSON(t *testing.T, client *http.Client, path string) (int, map[string]any) {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// errorCode digs the machine-readable code out of an error envelope.
func errorCode(body map[string]any) string {
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}
