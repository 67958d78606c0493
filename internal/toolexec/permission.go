package toolexec

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// minTokenLength is the shortest credential the gateway accepts as a
// plausibly real OAuth access token.
const minTokenLength = 10

// Permission denial codes beyond the generic one.
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

// Denial explains a rejected authorization. It unwraps to
// domain.ErrPermissionDenied so callers can match on the sentinel.
type Denial struct {
	Code   string
	Reason string
}

func (d *Denial) Error() string { return d.Reason }

func (d *Denial) Unwrap() error { return domain.ErrPermissionDenied }

// Gateway enforces zero-trust checks before any tool step runs: the
// execution identity must match the permission scope, the scope must
// grant the tool, and OAuth-backed vendors need a live token.
type Gateway struct {
	now func() time.Time
}

// NewGateway returns a permission gateway using wall-clock time for
// token expiry.
func NewGateway() *Gateway {
	return &Gateway{now: time.Now}
}

// Authorize decides whether the execution context may run the tool.
// A nil return means allowed; otherwise the error is a *Denial.
func (g *Gateway) Authorize(tool domain.ToolDescriptor, ec domain.ExecutionContext) error {
	if ec.UserID != ec.Permissions.UserID {
		return g.deny(tool, ec, domain.CodePermissionDenied, "User ID does not match permission scope")
	}
	if ec.OfficeID != ec.Permissions.OfficeID {
		return g.deny(tool, ec, domain.CodePermissionDenied, "Office ID does not match permission scope")
	}

	required := tool.RequiredScope()
	if !scopeGranted(ec.Permissions.GrantedScopes, required) {
		return g.deny(tool, ec, domain.CodePermissionDenied, fmt.Sprintf("Missing permissions: %s", required))
	}

	if tool.Vendor == "internal" {
		return nil
	}
	token, ok := ec.Permissions.OAuthTokens[tool.Vendor]
	if !ok {
		return g.deny(tool, ec, domain.CodePermissionDenied, fmt.Sprintf("No OAuth token for %s", tool.Vendor))
	}
	if !token.ExpiresAt.IsZero() && g.now().After(token.ExpiresAt) {
		return g.deny(tool, ec, CodeTokenExpired, fmt.Sprintf("OAuth token for %s has expired", tool.Vendor))
	}
	if len(token.AccessToken) < minTokenLength {
		return g.deny(tool, ec, CodeTokenInvalid, fmt.Sprintf("Invalid OAuth token for %s", tool.Vendor))
	}
	return nil
}

func (g *Gateway) deny(tool domain.ToolDescriptor, ec domain.ExecutionContext, code, reason string) error {
	slog.Warn("tool permission denied",
		slog.String("tool", tool.Name),
		slog.String("vendor", tool.Vendor),
		slog.String("user_id", ec.UserID),
		slog.String("office_id", ec.OfficeID),
		slog.String("reason", reason))
	return &Denial{Code: code, Reason: reason}
}

// scopeGranted reports whether any granted scope satisfies the
// required one. "*" grants everything; a scope ending in ".*" grants
// any scope under its dotted prefix; anything else must match exactly.
func scopeGranted(granted []string, required string) bool {
	for _, scope := range granted {
		if scope == "*" || scope == required {
			return true
		}
		if strings.HasSuffix(scope, ".*") && strings.HasPrefix(required, scope[:len(scope)-1]) {
			return true
		}
	}
	return false
}
