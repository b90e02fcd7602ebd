package session

import (
	"context"
	"sync"
	"time"
)

// DefaultTickInterval is the nominal scheduling period.
const DefaultTickInterval = time.Second

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock overrides the time source. Defaults to time.Now.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.clock = now }
}

// WithInterval sets the tick period.
func WithInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.interval = d }
}

// WithUpdate registers a callback invoked with a fresh View after every
// tick, on the runner goroutine. It must not call Stop or WakeUp.
func WithUpdate(fn func(View)) RunnerOption {
	return func(r *Runner) { r.onUpdate = fn }
}

// Runner drives a Monitor from a single goroutine. A tick runs to
// completion before the next one is read; ticks that arrive while one is
// in progress are dropped by the ticker.
type Runner struct {
	m        *Monitor
	clock    func() time.Time
	interval time.Duration
	onUpdate func(View)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner returns an unstarted runner for m.
func NewRunner(m *Monitor, opts ...RunnerOption) *Runner {
	r := &Runner{
		m:        m,
		clock:    time.Now,
		interval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.interval <= 0 {
		r.interval = DefaultTickInterval
	}
	return r
}

// Start acquires the ticker and begins ticking. A runner can be started
// once; later calls return ErrRunnerActive.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return ErrRunnerActive
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	ticker := time.NewTicker(r.interval)
	go r.loop(ctx, ticker, r.done)
	return nil
}

func (r *Runner) loop(ctx context.Context, ticker *time.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.m.Tick(r.clock())
			if r.onUpdate != nil {
				r.onUpdate(r.m.View())
			}
		}
	}
}

// Done is closed once the tick goroutine has exited. It is nil before Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// halt stops the goroutine and waits for it to exit.
func (r *Runner) halt() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Stop halts ticking and releases the session. Idempotent.
func (r *Runner) Stop() {
	r.halt()
	r.m.Release()
}

// WakeUp halts ticking and completes the session at the current clock time.
func (r *Runner) WakeUp() (*Summary, error) {
	r.halt()
	return r.m.WakeUp(r.clock())
}

// Monitor returns the driven session.
func (r *Runner) Monitor() *Monitor { return r.m }
