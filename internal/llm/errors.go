package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimit is a 429 from the provider.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrBadRequest is a 4xx other than 429. Sending the same request again
// cannot help.
type ErrBadRequest struct {
	Status int
	Err    error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("llm rejected request (%d): %v", e.Status, e.Err)
}

func (e *ErrBadRequest) Unwrap() error { return e.Err }

// ErrInvalidResponse is model output that is not the JSON we asked for.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("llm response invalid: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers 5xx, network failures and a mock that has
// run out of replies.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm provider unavailable"
	}
	return fmt.Sprintf("llm provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is structured output cut off by Request.MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "llm response truncated at max tokens"
}

// classifyStatus maps an HTTP status from any SDK onto the typed errors.
// Zero means no response was received.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status >= 400 && status < 500:
		return &ErrBadRequest{Status: status, Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

// retryable reports whether another attempt could succeed. Invalid
// responses are retryable here; the retry loop limits them to one extra
// attempt.
func retryable(err error) bool {
	var (
		bad    *ErrBadRequest
		maxTok *ErrMaxTokensExceeded
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &bad), errors.As(err, &maxTok):
		return false
	}
	return true
}
