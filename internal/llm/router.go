// Package llm routes generation calls across an ordered chain of providers
// with per-provider retry, exponential backoff, and automatic failover.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdflens/pdflens/internal/common"
)

// Router executes a generation call against each configured provider in
// priority order. Router state is per-call only; the same Router can be used
// concurrently.
type Router struct {
	specs       []Spec
	logger      *slog.Logger
	timeout     time.Duration
	maxRetries  int
	backoffBase time.Duration
	limiters    []*rate.Limiter
}

// Option customizes a Router.
type Option func(*Router)

// WithTimeout caps every single provider call.
func WithTimeout(d time.Duration) Option {
	return func(r *Router) { r.timeout = d }
}

// WithMaxRetries bounds same-provider retries for transient failures.
func WithMaxRetries(n int) Option {
	return func(r *Router) { r.maxRetries = n }
}

// WithBackoffBase overrides the 2s exponential backoff base.
func WithBackoffBase(d time.Duration) Option {
	return func(r *Router) { r.backoffBase = d }
}

// WithRateLimit applies a per-provider request rate.
func WithRateLimit(rps float64) Option {
	return func(r *Router) {
		r.limiters = make([]*rate.Limiter, len(r.specs))
		for i := range r.specs {
			r.limiters[i] = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func NewRouter(specs []Spec, logger *slog.Logger, opts ...Option) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		specs:       specs,
		logger:      logger,
		timeout:     30 * time.Second,
		maxRetries:  3,
		backoffBase: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns the configured provider names in failover order.
func (r *Router) Providers() []string {
	names := make([]string, len(r.specs))
	for i, s := range r.specs {
		names[i] = s.Name
	}
	return names
}

// Generate runs the prompt against the provider chain and returns the raw
// content together with the name of the provider that produced it.
//
// Outcome handling per provider:
//   - auth failure: log and move on, never retried
//   - transient failure (rate limit, 5xx, connection, deadline): retried on
//     the same provider with exponential backoff up to maxRetries
//   - empty content: counts as a provider failure, triggers failover
//   - anything else: log and fail over
func (r *Router) Generate(ctx context.Context, prompt, systemPrompt string) (string, string, error) {
	if len(r.specs) == 0 {
		return "", "", &ExhaustedError{LastProvider: "none", LastErr: errors.New("no LLM providers configured")}
	}

	var lastProvider string
	var lastErr error

	for i, spec := range r.specs {
		lastProvider = spec.Name
		content, err := r.tryProvider(ctx, i, spec, prompt, systemPrompt)
		if err == nil {
			r.logger.Info("llm.router.ok", "provider", spec.Name, "content_bytes", len(content))
			return content, spec.Name, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			// Caller's own deadline is gone; failing over would only burn time.
			break
		}
		r.logger.Warn("llm.router.failover", "provider", spec.Name, "error", err)
	}

	return "", "", &ExhaustedError{LastProvider: lastProvider, LastErr: lastErr}
}

func (r *Router) tryProvider(ctx context.Context, idx int, spec Spec, prompt, systemPrompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if r.limiters != nil {
			if err := r.limiters[idx].Wait(ctx); err != nil {
				return "", err
			}
		}

		r.logger.Info("llm.router.try", "provider", spec.Name, "model", spec.Model, "attempt", attempt+1)

		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		content, err := spec.Provider.Generate(callCtx, prompt, systemPrompt)
		cancel()

		if err == nil {
			if strings.TrimSpace(content) == "" {
				return "", NewProviderError(spec.Name, errors.New("empty response content"))
			}
			return content, nil
		}
		lastErr = err

		if errors.Is(err, common.ErrProviderAuth) {
			r.logger.Warn("llm.router.auth_failed", "provider", spec.Name, "error", err)
			return "", err
		}
		if !IsTransient(err) {
			return "", err
		}
		if attempt == r.maxRetries-1 {
			break
		}

		wait := r.backoffBase << attempt
		r.logger.Warn("llm.router.retry",
			"provider", spec.Name,
			"attempt", attempt+1,
			"max_retries", r.maxRetries,
			"wait", wait.String(),
			"error", err,
		)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", lastErr
}
