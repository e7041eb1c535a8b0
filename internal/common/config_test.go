package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Extract.TextPages != "first" {
		t.Errorf("TextPages = %q, want first", cfg.Extract.TextPages)
	}
	if cfg.Extract.DownloadTimeout != 20*time.Second {
		t.Errorf("DownloadTimeout = %v", cfg.Extract.DownloadTimeout)
	}
	if cfg.ReadTime.Mode != "accurate" {
		t.Errorf("Mode = %q, want accurate", cfg.ReadTime.Mode)
	}
	if cfg.ReadTime.MaxPages != 200 {
		t.Errorf("MaxPages = %d, want 200", cfg.ReadTime.MaxPages)
	}
	if cfg.ReadTime.PerImageSeconds != [2]int{3, 10} {
		t.Errorf("PerImageSeconds = %v, want [3 10]", cfg.ReadTime.PerImageSeconds)
	}
	if cfg.LLM.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.LLM.MaxRetries)
	}
	if !cfg.Analysis.FilenameCategoryHints {
		t.Errorf("FilenameCategoryHints = false, want true by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("READTIME_MODE", "fast")
	t.Setenv("READTIME_PER_IMAGE_SECONDS", "2, 8")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("ANALYSIS_FILENAME_HINTS", "false")
	t.Setenv("PERPLEXITY_API_KEY", "fallback-key")

	cfg := LoadConfig()
	if cfg.ReadTime.Mode != "fast" {
		t.Errorf("Mode = %q", cfg.ReadTime.Mode)
	}
	if cfg.ReadTime.PerImageSeconds != [2]int{2, 8} {
		t.Errorf("PerImageSeconds = %v", cfg.ReadTime.PerImageSeconds)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.Analysis.FilenameCategoryHints {
		t.Errorf("FilenameCategoryHints = true, want false")
	}
	if cfg.LLM.PerplexityAPIKey != "fallback-key" {
		t.Errorf("PerplexityAPIKey = %q, want secondary env honored", cfg.LLM.PerplexityAPIKey)
	}
}

func TestLoadConfigEnvPrecedence(t *testing.T) {
	t.Setenv("PERPLEXITYAI_API_KEY", "primary")
	t.Setenv("PERPLEXITY_API_KEY", "secondary")

	cfg := LoadConfig()
	if cfg.LLM.PerplexityAPIKey != "primary" {
		t.Errorf("PerplexityAPIKey = %q, want primary env preferred", cfg.LLM.PerplexityAPIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.ReadTime.Mode = "guess"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid mode accepted")
	}

	cfg = LoadConfig()
	cfg.Extract.TextPages = "some"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid text pages accepted")
	}

	cfg = LoadConfig()
	cfg.ReadTime.MaxPages = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero max pages accepted")
	}
}

func TestGetEnvAsSecondsPairMalformed(t *testing.T) {
	t.Setenv("READTIME_PER_IMAGE_SECONDS", "not,numbers")
	cfg := LoadConfig()
	if cfg.ReadTime.PerImageSeconds != [2]int{3, 10} {
		t.Errorf("PerImageSeconds = %v, want default for malformed value", cfg.ReadTime.PerImageSeconds)
	}
}
