// Package gigachat implements a direct GigaChat-style provider client with
// OAuth token lifecycle management. The token manager is injected, so tests
// and alternative auth flows can supply their own.
package gigachat

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pdflens/pdflens/internal/common"
	"github.com/pdflens/pdflens/internal/llm"
)

const (
	defaultAPIBase = "https://gigachat.devices.sberbank.ru/api/v1"
	defaultAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
)

// Config for the GigaChat provider.
type Config struct {
	AuthKey     string // Base64 client credentials for the OAuth endpoint
	Scope       string // e.g. GIGACHAT_API_PERS
	Model       string
	APIBase     string // defaults to the production API base
	AuthURL     string // defaults to the production OAuth endpoint
	Temperature float32
	Timeout     time.Duration
	// InsecureTLS skips certificate verification. The production endpoints
	// sit behind a national CA that is rarely in system trust stores.
	InsecureTLS bool
}

type Client struct {
	cfg    Config
	tokens *TokenManager
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a GigaChat client. A nil tokens argument constructs a
// manager from the config credentials.
func NewClient(cfg Config, tokens *TokenManager, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.InsecureTLS {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	if tokens == nil {
		tokens = NewTokenManager(cfg.AuthKey, cfg.Scope, cfg.AuthURL, httpClient, logger)
	}
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		http:   httpClient,
		logger: logger,
	}
}

func (c *Client) Name() string { return "gigachat" }

// Generate issues a single chat call. A 401 invalidates the cached token and
// the call is repeated once with a fresh one; any further auth failure is
// final. Transient retries belong to the router.
func (c *Client) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	content, status, err := c.call(ctx, prompt, systemPrompt)
	if status == http.StatusUnauthorized {
		c.logger.Warn("gigachat.token.stale", "status", status)
		c.tokens.Invalidate()
		content, _, err = c.call(ctx, prompt, systemPrompt)
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) call(ctx context.Context, prompt, systemPrompt string) (string, int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", 0, err
	}

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages":    llm.BuildMessages(prompt, systemPrompt),
	}
	endpoint := strings.TrimRight(c.cfg.APIBase, "/") + "/chat/completions"
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Accept":        "application/json",
	}

	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		if status > 0 {
			return "", status, &llm.ProviderError{
				Provider: "gigachat",
				Kind:     llm.KindForStatus(status),
				Err:      fmt.Errorf("status %d: %s", status, truncate(raw, 200)),
			}
		}
		return "", 0, llm.NewTransientError("gigachat", err)
	}

	content, err := extractContent(raw)
	if err != nil {
		return "", status, llm.NewProviderError("gigachat", err)
	}
	return content, status, nil
}

// extractContent pulls assistant text out of the response, tolerating the
// shape variations seen across API revisions.
func extractContent(raw []byte) (string, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err == nil && len(cc.Choices) > 0 {
		if s := strings.TrimSpace(cc.Choices[0].Message.Content); s != "" {
			return s, nil
		}
	}

	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err == nil {
		for _, key := range []string{"content", "text", "message"} {
			if s, ok := loose[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), nil
			}
		}
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil && strings.TrimSpace(plain) != "" {
		return strings.TrimSpace(plain), nil
	}

	return "", fmt.Errorf("no assistant content in response: %w", common.ErrUnparseable)
}
