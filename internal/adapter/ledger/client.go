// Package ledger implements the credit ledger port against the backend
// internal API. Check degrades fail-open when the ledger is unreachable and
// fail-closed when it answers with an error status, so a billing outage
// never stalls task execution while an explicit rejection still blocks it.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client calls the backend credit endpoints under /api/v1/internal/credits.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client

	newBackOff func() backoff.BackOff
}

// New builds a ledger client for the backend at backendURL. Requests carry
// the internal API key and are traced through otelhttp. A non-positive
// timeout falls back to 10s.
func New(backendURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(backendURL, "/") + "/api/v1",
		apiKey:  apiKey,
		hc: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return fmt.Sprintf("ledger %s %s", r.Method, r.URL.Path)
				})),
		},
		newBackOff: defaultBackOff,
	}
}

// WithBackOff replaces the retry schedule for ledger calls. The parameter
// order matches config.GetBackoffConfig so the wiring can splat it in.
// Non-positive fields keep the library defaults.
func (c *Client) WithBackOff(maxElapsed, initial, maxInterval time.Duration, multiplier float64) *Client {
	c.newBackOff = func() backoff.BackOff {
		return expBackOff(maxElapsed, initial, maxInterval, multiplier)
	}
	return c
}

func defaultBackOff() backoff.BackOff {
	return expBackOff(5*time.Second, 200*time.Millisecond, 2*time.Second, 0)
}

func expBackOff(maxElapsed, initial, maxInterval time.Duration, multiplier float64) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	if maxElapsed > 0 {
		bo.MaxElapsedTime = maxElapsed
	}
	if initial > 0 {
		bo.InitialInterval = initial
	}
	if maxInterval > 0 {
		bo.MaxInterval = maxInterval
	}
	if multiplier > 0 {
		bo.Multiplier = multiplier
	}
	return bo
}

type checkRequest struct {
	OfficeID        string  `json:"office_id"`
	RequiredCredits float64 `json:"required_credits"`
}

type checkResponse struct {
	HasSufficient  bool    `json:"has_sufficient"`
	CurrentBalance float64 `json:"current_balance"`
}

type consumeRequest struct {
	OfficeID    string  `json:"office_id"`
	TaskID      string  `json:"task_id"`
	Credits     float64 `json:"credits"`
	Description string  `json:"description"`
}

type consumeResponse struct {
	NewBalance    float64 `json:"new_balance"`
	TransactionID string  `json:"transaction_id"`
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

// Check asks whether officeID can afford the given credits. The returned
// error is always nil: an unreachable ledger fails open (HasSufficient true,
// Err set) and an error response fails closed, so callers branch on the
// CreditCheck fields alone.
func (c *Client) Check(ctx context.Context, officeID string, credits float64) (domain.CreditCheck, error) {
	in := checkRequest{OfficeID: officeID, RequiredCredits: credits}
	var out checkResponse
	err := c.do(ctx, http.MethodPost, "/internal/credits/check", in, &out)
	if err == nil {
		return domain.CreditCheck{HasSufficient: out.HasSufficient, Balance: out.CurrentBalance}, nil
	}
	var serr *statusError
	if errors.As(err, &serr) {
		slog.Warn("credit check failed",
			slog.String("office_id", officeID),
			slog.Int("status", serr.status),
			slog.String("body", serr.body))
		return domain.CreditCheck{Err: err.Error()}, nil
	}
	slog.Warn("credit check error, failing open",
		slog.String("office_id", officeID),
		slog.String("error", err.Error()))
	return domain.CreditCheck{HasSufficient: true, Err: err.Error()}, nil
}

// Consume debits credits for a finished task. The description records which
// model produced the work so the transaction is traceable from billing.
func (c *Client) Consume(ctx context.Context, officeID, taskID string, credits float64, modelName string) (domain.ConsumeReceipt, error) {
	in := consumeRequest{
		OfficeID:    officeID,
		TaskID:      taskID,
		Credits:     credits,
		Description: fmt.Sprintf("Task execution using %s", modelName),
	}
	var out consumeResponse
	if err := c.do(ctx, http.MethodPost, "/internal/credits/consume", in, &out); err != nil {
		return domain.ConsumeReceipt{}, fmt.Errorf("op=ledger.Consume: %w", err)
	}
	return domain.ConsumeReceipt{NewBalance: out.NewBalance, TransactionID: out.TransactionID}, nil
}

// Balance returns the current credit balance for officeID.
func (c *Client) Balance(ctx context.Context, officeID string) (float64, error) {
	var out balanceResponse
	if err := c.do(ctx, http.MethodGet, "/internal/credits/balance/"+url.PathEscape(officeID), nil, &out); err != nil {
		return 0, fmt.Errorf("op=ledger.Balance: %w", err)
	}
	return out.Balance, nil
}

// statusError carries a non-2xx ledger response. Error matches the wire
// convention used by the backend so it can surface verbatim in CreditCheck.Err.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string { return fmt.Sprintf("API error: %d", e.status) }

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}
	op := func() error {
		// Rebuild the request each attempt so a retry never reuses a drained body.
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Internal-API-Key", c.apiKey)
		}
		resp, err := c.hc.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			serr := &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(raw))}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(serr)
			}
			return serr
		}
		if out != nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return backoff.Permanent(fmt.Errorf("decode response: %w", err))
			}
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx))
}
