package ratelimiter

import (
	"context"
)

// ProviderThrottle adapts a Limiter to the selection pipeline's
// per-provider admission gate. Each dispatch attempt costs one token.
type ProviderThrottle struct {
	limiter Limiter
}

// NewProviderThrottle wraps a limiter. A nil limiter admits everything.
func NewProviderThrottle(l Limiter) *ProviderThrottle {
	return &ProviderThrottle{limiter: l}
}

// Acquire consumes one token for the provider's bucket. Limiter errors
// fail open: throttling protects upstream quotas and must not become
// the outage itself.
func (t *ProviderThrottle) Acquire(ctx context.Context, provider string) (bool, error) {
	if t == nil || t.limiter == nil {
		return true, nil
	}
	allowed, _, err := t.limiter.Allow(ctx, ProviderKey(provider), 1)
	if err != nil {
		return true, nil
	}
	return allowed, nil
}
