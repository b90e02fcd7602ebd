package llm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/codeGROOVE-dev/retry"
)

// RetryProvider is a decorator that retries transient errors with
// jittered exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *slog.Logger
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	invalidRetried := false

	err := retry.Do(
		func() error {
			out, err := r.inner.Generate(ctx, req)
			if err == nil {
				resp = out
				return nil
			}
			if !shouldRetry(err, &invalidRetried) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.config.Attempts),
		retry.Delay(r.config.Delay),
		retry.MaxDelay(r.config.MaxDelay),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Debug("retrying LLM request", "attempt", n+1, "purpose", TagFrom(ctx).Purpose, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry allows one retry of an invalid response and defers
// everything else to retryable.
func shouldRetry(err error, invalidRetried *bool) bool {
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}
	return retryable(err)
}
