package domain

import (
	"testing"
	"time"
)

func TestRetryPolicy_Delay(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetryPolicy
		attempt int
		want    time.Duration
	}{
		{"first attempt never waits", RetryPolicy{Strategy: RetryFixed, DelaySeconds: 5}, 1, 0},
		{"none strategy", RetryPolicy{Strategy: RetryNone, DelaySeconds: 5}, 3, 0},
		{"empty strategy", RetryPolicy{DelaySeconds: 5}, 2, 0},
		{"fixed second attempt", RetryPolicy{Strategy: RetryFixed, DelaySeconds: 2}, 2, 2 * time.Second},
		{"fixed fifth attempt", RetryPolicy{Strategy: RetryFixed, DelaySeconds: 2}, 5, 2 * time.Second},
		{"exponential second attempt", RetryPolicy{Strategy: RetryExponential, DelaySeconds: 1}, 2, 1 * time.Second},
		{"exponential third attempt", RetryPolicy{Strategy: RetryExponential, DelaySeconds: 1}, 3, 2 * time.Second},
		{"exponential fourth attempt", RetryPolicy{Strategy: RetryExponential, DelaySeconds: 1}, 4, 4 * time.Second},
		{"exponential fractional delay", RetryPolicy{Strategy: RetryExponential, DelaySeconds: 0.5}, 3, 1 * time.Second},
	}
	for _, tt := range tests {
		if got := tt.policy.Delay(tt.attempt); got != tt.want {
			t.Errorf("%s: Delay(%d) = %v, want %v", tt.name, tt.attempt, got, tt.want)
		}
	}
}

func TestRetryPolicy_Attempts(t *testing.T) {
	tests := []struct {
		name   string
		policy RetryPolicy
		want   int
	}{
		{"zero value", RetryPolicy{}, 1},
		{"none ignores max", RetryPolicy{Strategy: RetryNone, MaxAttempts: 5}, 1},
		{"fixed with budget", RetryPolicy{Strategy: RetryFixed, MaxAttempts: 3}, 3},
		{"missing max", RetryPolicy{Strategy: RetryExponential}, 1},
	}
	for _, tt := range tests {
		if got := tt.policy.Attempts(); got != tt.want {
			t.Errorf("%s: Attempts() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestToolDescriptor_RequiredScope(t *testing.T) {
	d := ToolDescriptor{Name: "search", Vendor: "google"}
	if got := d.RequiredScope(); got != "tools.google.search" {
		t.Errorf("default scope = %q", got)
	}
	d.Scope = "tools.google.readonly"
	if got := d.RequiredScope(); got != "tools.google.readonly" {
		t.Errorf("override scope = %q", got)
	}
}

func TestToolCall_StopsOnFailure(t *testing.T) {
	tests := []struct {
		onFailure string
		want      bool
	}{
		{"", true},
		{FailStop, true},
		{FailContinue, false},
		{FailRetry, false},
		{FailFallback, false},
	}
	for _, tt := range tests {
		c := ToolCall{OnFailure: tt.onFailure}
		if got := c.StopsOnFailure(); got != tt.want {
			t.Errorf("StopsOnFailure(%q) = %v, want %v", tt.onFailure, got, tt.want)
		}
	}
}
