package toolexec

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

func testGateway(now time.Time) *Gateway {
	return &Gateway{now: func() time.Time { return now }}
}

func grantedContext(scopes []string, tokens map[string]domain.OAuthToken) domain.ExecutionContext {
	return domain.ExecutionContext{
		ExecutionID: "exec-1",
		UserID:      "u1",
		OfficeID:    "o1",
		Permissions: domain.PermissionScope{
			UserID:        "u1",
			OfficeID:      "o1",
			GrantedScopes: scopes,
			OAuthTokens:   tokens,
		},
	}
}

func TestAuthorizeIdentityMismatch(t *testing.T) {
	g := testGateway(time.Now())
	tool := testDescriptor("echo", "internal")

	ec := grantedContext([]string{"*"}, nil)
	ec.UserID = "intruder"
	err := g.Authorize(tool, ec)
	require.Error(t, err)
	assert.Equal(t, "User ID does not match permission scope", err.Error())
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	ec = grantedContext([]string{"*"}, nil)
	ec.OfficeID = "other-office"
	err = g.Authorize(tool, ec)
	require.Error(t, err)
	assert.Equal(t, "Office ID does not match permission scope", err.Error())
}

func TestAuthorizeScopes(t *testing.T) {
	g := testGateway(time.Now())
	tool := testDescriptor("data_transform", "internal")

	tests := []struct {
		name    string
		scopes  []string
		allowed bool
	}{
		{"wildcard all", []string{"*"}, true},
		{"exact", []string{"tools.internal.data_transform"}, true},
		{"prefix wildcard", []string{"tools.internal.*"}, true},
		{"broader prefix", []string{"tools.*"}, true},
		{"unrelated", []string{"tools.google.*"}, false},
		{"prefix without dot star", []string{"tools.internal"}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Authorize(tool, grantedContext(tt.scopes, nil))
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, "Missing permissions: tools.internal.data_transform", err.Error())
		})
	}
}

func TestAuthorizeInternalSkipsOAuth(t *testing.T) {
	g := testGateway(time.Now())
	// No tokens at all: internal tools must still pass.
	err := g.Authorize(testDescriptor("echo", "internal"), grantedContext([]string{"*"}, nil))
	assert.NoError(t, err)
}

func TestAuthorizeOAuth(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := testGateway(now)
	tool := testDescriptor("google_sheets_read", "google")
	tool.Scope = "google.sheets.read"

	t.Run("missing token", func(t *testing.T) {
		err := g.Authorize(tool, grantedContext([]string{"*"}, nil))
		require.Error(t, err)
		assert.Equal(t, "No OAuth token for google", err.Error())
	})

	t.Run("expired token", func(t *testing.T) {
		tokens := map[string]domain.OAuthToken{
			"google": {AccessToken: "valid-token-123", ExpiresAt: now.Add(-time.Minute)},
		}
		err := g.Authorize(tool, grantedContext([]string{"*"}, tokens))
		require.Error(t, err)
		assert.Equal(t, "OAuth token for google has expired", err.Error())
		var denial *Denial
		require.True(t, errors.As(err, &denial))
		assert.Equal(t, CodeTokenExpired, denial.Code)
	})

	t.Run("expiry checked before token shape", func(t *testing.T) {
		tokens := map[string]domain.OAuthToken{
			"google": {AccessToken: "short", ExpiresAt: now.Add(-time.Minute)},
		}
		err := g.Authorize(tool, grantedContext([]string{"*"}, tokens))
		require.Error(t, err)
		var denial *Denial
		require.True(t, errors.As(err, &denial))
		assert.Equal(t, CodeTokenExpired, denial.Code)
	})

	t.Run("implausibly short token", func(t *testing.T) {
		tokens := map[string]domain.OAuthToken{
			"google": {AccessToken: "short", ExpiresAt: now.Add(time.Hour)},
		}
		err := g.Authorize(tool, grantedContext([]string{"*"}, tokens))
		require.Error(t, err)
		assert.Equal(t, "Invalid OAuth token for google", err.Error())
		var denial *Denial
		require.True(t, errors.As(err, &denial))
		assert.Equal(t, CodeTokenInvalid, denial.Code)
	})

	t.Run("zero expiry means no expiry", func(t *testing.T) {
		tokens := map[string]domain.OAuthToken{
			"google": {AccessToken: "valid-token-123"},
		}
		assert.NoError(t, g.Authorize(tool, grantedContext([]string{"*"}, tokens)))
	})

	t.Run("valid token", func(t *testing.T) {
		tokens := map[string]domain.OAuthToken{
			"google": {AccessToken: "valid-token-123", ExpiresAt: now.Add(time.Hour)},
		}
		assert.NoError(t, g.Authorize(tool, grantedContext([]string{"google.sheets.read"}, tokens)))
	})
}

func TestScopeGrantedPrefixBoundary(t *testing.T) {
	// "google.*" covers google.sheets.read but not a vendor whose name
	// merely starts with the same letters.
	assert.True(t, scopeGranted([]string{"google.*"}, "google.sheets.read"))
	assert.False(t, scopeGranted([]string{"google.*"}, "googleplus.feed.read"))
}
