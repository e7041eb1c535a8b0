package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/pdflens/pdflens/internal/common"
)

// ProviderError carries which provider failed and how. Kind is one of the
// taxonomy sentinels so callers can branch with errors.Is instead of string
// matching.
type ProviderError struct {
	Provider string
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NewAuthError(provider string, err error) error {
	return &ProviderError{Provider: provider, Kind: common.ErrProviderAuth, Err: err}
}

func NewTransientError(provider string, err error) error {
	return &ProviderError{Provider: provider, Kind: common.ErrProviderTransient, Err: err}
}

func NewProviderError(provider string, err error) error {
	return &ProviderError{Provider: provider, Kind: common.ErrInternal, Err: err}
}

// ExhaustedError aggregates a fully failed chain, naming the last provider
// and its last error.
type ExhaustedError struct {
	LastProvider string
	LastErr      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all LLM providers failed, last error from %s: %v", e.LastProvider, e.LastErr)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{common.ErrProviderExhausted, e.LastErr}
}

// KindForStatus maps an HTTP status to a taxonomy sentinel.
func KindForStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return common.ErrProviderAuth
	case status == 429 || status == 502 || status == 503 || status == 504:
		return common.ErrProviderTransient
	default:
		return common.ErrInternal
	}
}

// IsTransient reports whether err should be retried on the same provider.
// Deadline expiry counts as transient for retry/failover purposes.
func IsTransient(err error) bool {
	if errors.Is(err, common.ErrProviderTransient) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, kw := range []string{"503", "429", "unavailable", "overloaded", "rate limit"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
