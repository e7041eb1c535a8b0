package gigachat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdflens/pdflens/internal/llm"
)

// expiryMargin is subtracted from the reported token lifetime so a token is
// never used right at its edge.
const expiryMargin = 60 * time.Second

// TokenManager caches the OAuth access token for one provider client. A
// single mutex-guarded critical section covers both the validity check and
// the fetch, so concurrent callers share one in-flight token request.
type TokenManager struct {
	authKey string // Base64 client credentials
	scope   string
	authURL string // token endpoint, e.g. https://.../api/v2/oauth
	client  *http.Client
	logger  *slog.Logger
	now     func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewTokenManager(authKey, scope, authURL string, client *http.Client, logger *slog.Logger) *TokenManager {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &TokenManager{
		authKey: authKey,
		scope:   scope,
		authURL: authURL,
		client:  client,
		logger:  logger,
		now:     time.Now,
	}
}

// Token returns a valid bearer token, fetching a fresh one only when the
// cached token is missing or expired.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiresAt) {
		return m.token, nil
	}
	if m.authKey == "" {
		return "", llm.NewAuthError("gigachat", fmt.Errorf("auth key is not set"))
	}

	token, expiresAt, err := m.fetch(ctx)
	if err != nil {
		return "", err
	}
	m.token = token
	m.expiresAt = expiresAt
	m.logger.Info("gigachat.token.refreshed", "expires_at", expiresAt.Format(time.RFC3339))
	return token, nil
}

// Invalidate drops the cached token, forcing a refresh on the next call.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expiresAt = time.Time{}
}

func (m *TokenManager) fetch(ctx context.Context) (string, time.Time, error) {
	form := url.Values{"scope": {m.scope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, llm.NewProviderError("gigachat", fmt.Errorf("build token request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.New().String())
	req.Header.Set("Authorization", "Basic "+m.authKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", time.Time{}, llm.NewTransientError("gigachat", fmt.Errorf("token endpoint: %w", err))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, &llm.ProviderError{
			Provider: "gigachat",
			Kind:     llm.KindForStatus(resp.StatusCode),
			Err:      fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, truncate(raw, 200)),
		}
	}

	var payload struct {
		AccessToken string  `json:"access_token"`
		ExpiresIn   float64 `json:"expires_in"`
		ExpiresAt   float64 `json:"expires_at"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", time.Time{}, llm.NewProviderError("gigachat", fmt.Errorf("decode token response: %w", err))
	}
	if payload.AccessToken == "" {
		return "", time.Time{}, llm.NewAuthError("gigachat", fmt.Errorf("token response missing access_token"))
	}

	return payload.AccessToken, m.expiry(payload.ExpiresIn, payload.ExpiresAt), nil
}

// expiry converts either an expires_in lifetime (seconds) or an expires_at
// timestamp (seconds or milliseconds) into a local deadline with the safety
// margin applied. Tokens default to 30 minutes when neither is present.
func (m *TokenManager) expiry(expiresIn, expiresAt float64) time.Time {
	switch {
	case expiresIn > 0:
		return m.now().Add(time.Duration(expiresIn) * time.Second).Add(-expiryMargin)
	case expiresAt > 0:
		if expiresAt > 1e10 { // larger than any plausible epoch in seconds
			expiresAt /= 1000
		}
		return time.Unix(int64(expiresAt), 0).Add(-expiryMargin)
	default:
		return m.now().Add(30 * time.Minute).Add(-expiryMargin)
	}
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n]
	}
	return s
}
