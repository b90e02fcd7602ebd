package alarm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// AsyncConfig tunes delivery retries.
type AsyncConfig struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration

	// OnFailure receives the final error once retries are exhausted.
	OnFailure func(error)
	Logger    *slog.Logger
}

// Async delivers alerts on a background goroutine so the caller never
// waits on the inner notifier.
type Async struct {
	inner Notifier
	cfg   AsyncConfig

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAsync wraps inner.
func NewAsync(inner Notifier, cfg AsyncConfig) *Async {
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Async{inner: inner, cfg: cfg}
}

// Alert starts delivery and returns immediately.
func (a *Async) Alert(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	dctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()
		if err := a.deliver(dctx); err != nil && dctx.Err() == nil {
			a.cfg.Logger.Warn("alert delivery failed", "error", err)
			if a.cfg.OnFailure != nil {
				a.cfg.OnFailure(err)
			}
		}
	}()
	return nil
}

func (a *Async) deliver(ctx context.Context) error {
	err := retry.Do(
		func() error {
			return a.inner.Alert(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(a.cfg.Attempts),
		retry.Delay(a.cfg.Delay),
		retry.MaxDelay(a.cfg.MaxDelay),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			a.cfg.Logger.Debug("retrying alert", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	return nil
}

// Cancel stops any in-flight delivery, waits for it, then cancels the inner notifier.
func (a *Async) Cancel(ctx context.Context) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()
	a.wg.Wait()
	return a.inner.Cancel(ctx)
}

// Wait blocks until in-flight deliveries finish.
func (a *Async) Wait() { a.wg.Wait() }
