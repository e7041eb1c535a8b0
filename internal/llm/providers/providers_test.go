package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdflens/pdflens/internal/common"
)

func TestFromConfigPriorityOrder(t *testing.T) {
	cfg := common.LLMConfig{
		GeminiAPIKey:     "g-key",
		GeminiModel:      "gemini-2.5-flash-lite",
		PerplexityAPIKey: "p-key",
		PerplexityModel:  "sonar",
		GigaChatAuthKey:  "gc-key",
		GigaChatScope:    "GIGACHAT_API_PERS",
		GigaChatModel:    "GigaChat-2",
		Timeout:          10 * time.Second,
	}
	specs, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	got := names(specs)
	want := []string{"gemini", "perplexity", "gigachat"}
	if len(got) != len(want) {
		t.Fatalf("providers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("provider[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFromConfigSkipsMissingCredentials(t *testing.T) {
	cfg := common.LLMConfig{PerplexityAPIKey: "p-key", PerplexityModel: "sonar"}
	specs, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(specs) != 1 || specs[0].Name != "perplexity" {
		t.Errorf("providers = %v, want only perplexity", names(specs))
	}
}

func TestFromConfigEmpty(t *testing.T) {
	specs, err := FromConfig(common.LLMConfig{}, nil)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(specs) != 0 {
		t.Errorf("providers = %v, want none", names(specs))
	}
}

func TestFromManifest(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "m-key")

	path := filepath.Join(t.TempDir(), "providers.yaml")
	manifest := `providers:
  - name: custom
    model: custom-model
    base_url: https://llm.example.com/v1
    api_key_env: TEST_PROVIDER_KEY
  - name: keyless
    model: other
    base_url: https://other.example.com/v1
    api_key_env: TEST_PROVIDER_MISSING_KEY
`
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := common.LLMConfig{ProvidersFile: path, Timeout: 5 * time.Second}
	specs, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(specs) != 1 || specs[0].Name != "custom" {
		t.Errorf("providers = %v, want custom only (keyless entry skipped)", names(specs))
	}
}

func TestFromManifestInvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte("providers:\n  - model: no-name\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromConfig(common.LLMConfig{ProvidersFile: path}, nil); err == nil {
		t.Fatal("err = nil, want config error for entry without name")
	}
}

func TestFromManifestMissingFile(t *testing.T) {
	cfg := common.LLMConfig{ProvidersFile: "/nonexistent/providers.yaml"}
	if _, err := FromConfig(cfg, nil); err == nil {
		t.Fatal("err = nil, want read error")
	}
}
