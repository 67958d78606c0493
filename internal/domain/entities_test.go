package domain

import "testing"

func TestCostTierRank_Ordering(t *testing.T) {
	tests := []struct {
		tier string
		want int
	}{
		{CostTierFree, 0},
		{CostTierLow, 1},
		{CostTierMedium, 2},
		{CostTierHigh, 3},
		{"platinum", 4},
		{"", 4},
	}
	for _, tt := range tests {
		if got := CostTierRank(tt.tier); got != tt.want {
			t.Errorf("CostTierRank(%q) = %d, want %d", tt.tier, got, tt.want)
		}
	}
	if CostTierRank("typo") <= CostTierRank(CostTierHigh) {
		t.Error("unknown tier must rank above high")
	}
}

func TestModelDescriptor_Capability(t *testing.T) {
	m := ModelDescriptor{Capabilities: map[string]int{"coding": 8}}

	score, ok := m.Capability("coding")
	if !ok || score != 8 {
		t.Fatalf("Capability(coding) = %d, %v; want 8, true", score, ok)
	}
	if _, ok := m.Capability("multimodal"); ok {
		t.Fatal("undeclared capability should report false")
	}

	var empty ModelDescriptor
	if _, ok := empty.Capability("coding"); ok {
		t.Fatal("nil capability map should report false")
	}
}

func TestModelDescriptor_IsFree(t *testing.T) {
	if !(ModelDescriptor{CostTier: CostTierFree}).IsFree() {
		t.Error("free tier should be free")
	}
	if (ModelDescriptor{CostTier: CostTierLow}).IsFree() {
		t.Error("low tier should not be free")
	}
	if (ModelDescriptor{}).IsFree() {
		t.Error("unset tier should not be free")
	}
}

func TestTaskStatusConstants(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   string
	}{
		{TaskPending, "pending"},
		{TaskThinking, "thinking"},
		{TaskWorking, "working"},
		{TaskDone, "done"},
		{TaskFailed, "failed"},
	}
	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("status %v != %q", tt.status, tt.want)
		}
	}
}

func TestTokenUsageKeys(t *testing.T) {
	// Wire names are part of the task token_usage contract.
	if TokenPrompt != "prompt_tokens" || TokenCompletion != "completion_tokens" || TokenTotal != "total_tokens" {
		t.Fatalf("token usage keys changed: %q %q %q", TokenPrompt, TokenCompletion, TokenTotal)
	}
}
