// Package providers assembles the provider failover chain from configuration.
package providers

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pdflens/pdflens/internal/common"
	"github.com/pdflens/pdflens/internal/llm"
	"github.com/pdflens/pdflens/internal/llm/compat"
	"github.com/pdflens/pdflens/internal/llm/gigachat"
)

const (
	geminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
	perplexityBaseURL = "https://api.perplexity.ai"
)

// manifest is the optional YAML provider list. Each entry is an
// OpenAI-compatible endpoint; its order replaces the built-in priority.
type manifest struct {
	Providers []manifestEntry `yaml:"providers"`
}

type manifestEntry struct {
	Name      string `yaml:"name"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// FromConfig builds the failover chain from credentials present in cfg. The
// built-in priority is Gemini, Perplexity, GigaChat; a provider without
// credentials is skipped. When cfg.ProvidersFile names a YAML manifest, the
// manifest defines the chain instead.
func FromConfig(cfg common.LLMConfig, logger *slog.Logger) ([]llm.Spec, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ProvidersFile != "" {
		return fromManifest(cfg, logger)
	}

	var specs []llm.Spec
	if cfg.GeminiAPIKey != "" {
		specs = append(specs, llm.Spec{
			Name:  "gemini",
			Model: cfg.GeminiModel,
			Provider: compat.NewClient(compat.Config{
				Name:    "gemini",
				BaseURL: geminiBaseURL,
				APIKey:  cfg.GeminiAPIKey,
				Model:   cfg.GeminiModel,
				Timeout: cfg.Timeout,
			}, logger),
		})
	}
	if cfg.PerplexityAPIKey != "" {
		specs = append(specs, llm.Spec{
			Name:  "perplexity",
			Model: cfg.PerplexityModel,
			Provider: compat.NewClient(compat.Config{
				Name:    "perplexity",
				BaseURL: perplexityBaseURL,
				APIKey:  cfg.PerplexityAPIKey,
				Model:   cfg.PerplexityModel,
				Timeout: cfg.Timeout,
			}, logger),
		})
	}
	if cfg.GigaChatAuthKey != "" {
		specs = append(specs, llm.Spec{
			Name:  "gigachat",
			Model: cfg.GigaChatModel,
			Provider: gigachat.NewClient(gigachat.Config{
				AuthKey:     cfg.GigaChatAuthKey,
				Scope:       cfg.GigaChatScope,
				Model:       cfg.GigaChatModel,
				Timeout:     cfg.Timeout,
				InsecureTLS: true,
			}, nil, logger),
		})
	}

	logger.Info("llm.providers.configured", "count", len(specs), "names", names(specs))
	return specs, nil
}

func fromManifest(cfg common.LLMConfig, logger *slog.Logger) ([]llm.Spec, error) {
	raw, err := os.ReadFile(cfg.ProvidersFile)
	if err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "read providers file", err)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "parse providers file", err)
	}

	var specs []llm.Spec
	for _, e := range m.Providers {
		if e.Name == "" || e.BaseURL == "" {
			return nil, common.NewAppError("CONFIG_ERROR",
				fmt.Sprintf("provider entry needs name and base_url, got name=%q", e.Name),
				common.ErrInvalidInput)
		}
		apiKey := os.Getenv(e.APIKeyEnv)
		if apiKey == "" {
			logger.Warn("llm.providers.skipped_no_key", "provider", e.Name, "env", e.APIKeyEnv)
			continue
		}
		specs = append(specs, llm.Spec{
			Name:  e.Name,
			Model: e.Model,
			Provider: compat.NewClient(compat.Config{
				Name:    e.Name,
				BaseURL: e.BaseURL,
				APIKey:  apiKey,
				Model:   e.Model,
				Timeout: cfg.Timeout,
			}, logger),
		})
	}

	logger.Info("llm.providers.configured", "source", cfg.ProvidersFile, "count", len(specs), "names", names(specs))
	return specs, nil
}

func names(specs []llm.Spec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}
