// Package compat implements an OpenAI-compatible chat-completions provider
// client. Gemini and Perplexity both expose this surface, so a single client
// with different base URLs covers them.
package compat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pdflens/pdflens/internal/llm"
)

// Config for an OpenAI-compatible provider.
type Config struct {
	Name        string // provider name used in logs and failover reporting
	BaseURL     string // e.g. https://api.perplexity.ai
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *Client) Name() string { return c.cfg.Name }

// Generate issues a single chat-completions call and returns the assistant
// text. Retries belong to the router, not here.
func (c *Client) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages":    llm.BuildMessages(prompt, systemPrompt),
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}

	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		if status > 0 {
			return "", &llm.ProviderError{
				Provider: c.cfg.Name,
				Kind:     llm.KindForStatus(status),
				Err:      fmt.Errorf("status %d: %s", status, truncate(raw, 200)),
			}
		}
		return "", llm.NewTransientError(c.cfg.Name, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", llm.NewProviderError(c.cfg.Name, fmt.Errorf("decode response: %w", err))
	}
	if len(cc.Choices) == 0 {
		return "", llm.NewProviderError(c.cfg.Name, fmt.Errorf("no choices in response"))
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n]
	}
	return s
}
