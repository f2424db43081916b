package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Fatalf("retry.max_attempts=%d want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay != 2*time.Second {
		t.Fatalf("retry.base_delay=%s want 2s", cfg.Retry.BaseDelay)
	}
	if cfg.Enrich.BatchSize != 5 {
		t.Fatalf("enrich.batch_size=%d want 5", cfg.Enrich.BatchSize)
	}
	if cfg.LLM.Model != "deepseek-chat" || cfg.LLM.Provider != "openai" {
		t.Fatalf("llm=%+v", cfg.LLM)
	}
	if cfg.LLM.BaseURL != "" {
		t.Fatalf("llm.base_url=%q want empty", cfg.LLM.BaseURL)
	}
	if cfg.Schedule.Weekly != "0 0 20 * * 0" {
		t.Fatalf("schedule.weekly=%q", cfg.Schedule.Weekly)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("llm:\n  model: custom-model\nenrich:\n  batch_size: 8\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MEV_RETRY_MAX_ATTEMPTS", "5")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.LLM.Model != "custom-model" {
		t.Fatalf("llm.model=%q want custom-model", cfg.LLM.Model)
	}
	if cfg.Enrich.BatchSize != 8 {
		t.Fatalf("enrich.batch_size=%d want 8", cfg.Enrich.BatchSize)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Fatalf("retry.max_attempts=%d want 5", cfg.Retry.MaxAttempts)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
