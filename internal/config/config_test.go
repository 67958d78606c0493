package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "KAFKA_BROKERS", "DEFAULT_MODEL", "LEDGER_URL", "BACKEND_URL", "INTERNAL_API_KEY", "INTERNAL_API_KEY_HASH"} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	if cfg.Port != 8000 {
		t.Fatalf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.DefaultModel != "gpt-4-turbo" {
		t.Fatalf("unexpected default model: %s", cfg.DefaultModel)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:19092" {
		t.Fatalf("brokers not defaulted: %+v", cfg.KafkaBrokers)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected IsDev true")
	}
	if cfg.InternalAuthEnabled() {
		t.Fatalf("expected internal auth disabled")
	}
	// Ledger falls back to the backend URL when LEDGER_URL is unset.
	if cfg.LedgerBaseURL() != cfg.BackendURL {
		t.Fatalf("ledger base = %s, want backend %s", cfg.LedgerBaseURL(), cfg.BackendURL)
	}
}

func Test_Load_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9010")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LEDGER_URL", "http://ledger:8081")
	t.Setenv("INTERNAL_API_KEY", "shared-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	if cfg.Port != 9010 {
		t.Fatalf("port override lost: %d", cfg.Port)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers not parsed: %+v", cfg.KafkaBrokers)
	}
	if cfg.LedgerBaseURL() != "http://ledger:8081" {
		t.Fatalf("ledger base = %s", cfg.LedgerBaseURL())
	}
	if !cfg.InternalAuthEnabled() {
		t.Fatalf("expected internal auth enabled")
	}
	if !cfg.IsProd() || cfg.IsDev() {
		t.Fatalf("env flags wrong: %s", cfg.AppEnv)
	}
}

func Test_Load_BadValue(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func Test_GetBackoffConfig(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := Load()
	require.NoError(t, err)
	maxElapsed, initial, maxIvl, mult := cfg.GetBackoffConfig()
	if maxElapsed != 2*time.Second || initial != 50*time.Millisecond || maxIvl != 500*time.Millisecond || mult != 2.0 {
		t.Fatalf("test env should shorten backoff: %v %v %v %v", maxElapsed, initial, maxIvl, mult)
	}

	t.Setenv("APP_ENV", "prod")
	t.Setenv("BACKOFF_MAX_ELAPSED_TIME", "45s")
	cfg, err = Load()
	require.NoError(t, err)
	maxElapsed, _, _, _ = cfg.GetBackoffConfig()
	if maxElapsed != 45*time.Second {
		t.Fatalf("configured backoff lost: %v", maxElapsed)
	}
}
