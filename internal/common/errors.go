package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error taxonomy of the analysis pipeline. Extraction errors are fatal and
// surfaced immediately; provider errors are retried or failed over inside the
// router; the orchestrator degrades to the heuristic path instead of
// propagating ErrProviderExhausted.
var (
	ErrNotAPDF            = errors.New("content is not a PDF")
	ErrDownload           = errors.New("download failed")
	ErrExtraction         = errors.New("pdf extraction failed")
	ErrProviderAuth       = errors.New("provider authentication failed")
	ErrProviderTransient  = errors.New("provider temporarily unavailable")
	ErrProviderExhausted  = errors.New("all providers failed")
	ErrUnparseable        = errors.New("response is not parseable JSON")
	ErrSchema             = errors.New("schema validation failed")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

// NewAppError builds an AppError with the given code, message and cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
