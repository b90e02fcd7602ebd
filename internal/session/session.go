package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/earlybird-app/earlybird/internal/stage"
	"github.com/earlybird-app/earlybird/internal/wake"
)

const (
	// DefaultStageInterval is how often the sleep stage is re-derived.
	DefaultStageInterval = 30 * time.Second

	// DefaultRefreshInterval is how often the prediction is re-derived.
	DefaultRefreshInterval = 300 * time.Second

	// HypnogramStep is the resolution of the summary hypnogram.
	HypnogramStep = 5 * time.Minute
)

// Option configures a Monitor.
type Option func(*Monitor)

// WithEstimator sets the stage estimation strategy. Defaults to stage.CycleEstimator.
func WithEstimator(e stage.Estimator) Option {
	return func(m *Monitor) { m.estimator = e }
}

// WithNotifier sets the alarm collaborator.
func WithNotifier(n Notifier) Option {
	return func(m *Monitor) { m.notifier = n }
}

// WithLogger sets the logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// WithObserver sets the event observer.
func WithObserver(o Observer) Option {
	return func(m *Monitor) { m.observer = o }
}

// WithStageInterval sets the stage sampling interval.
func WithStageInterval(d time.Duration) Option {
	return func(m *Monitor) { m.stageInterval = d }
}

// WithRefreshInterval sets the prediction refresh interval.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Monitor) { m.refreshInterval = d }
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(m *Monitor) { m.newID = fn }
}

// Monitor is a single night's monitoring session. All exported methods
// are safe to call from multiple goroutines; they serialize on an
// internal lock.
type Monitor struct {
	estimator       stage.Estimator
	notifier        Notifier
	logger          *slog.Logger
	observer        Observer
	stageInterval   time.Duration
	refreshInterval time.Duration
	newID           func() string

	mu             sync.Mutex
	state          State
	id             string
	start          time.Time
	now            time.Time
	target         *wake.TargetWakeTime
	cycles         int
	prediction     wake.Prediction
	elapsed        int64
	stage          stage.Stage
	progress       float64
	tracker        *stage.Tracker
	nextSample     time.Duration
	lastRefresh    int64
	alarmTriggered bool
	cancelled      bool
	released       bool
	failures       []NotificationFailure
	summary        *Summary
	pending        []Event
}

// New creates an idle Monitor.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		stageInterval:   DefaultStageInterval,
		refreshInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.estimator == nil {
		m.estimator = stage.CycleEstimator{}
	}
	if m.notifier == nil {
		m.notifier = nopNotifier{}
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.newID == nil {
		m.newID = func() string { return uuid.New().String() }
	}
	if m.stageInterval <= 0 {
		m.stageInterval = DefaultStageInterval
	}
	return m
}

// Start moves an idle session to Running. Invalid targets or cycle
// counts outside 1..6 are rejected with a *wake.InputError and leave the
// session idle.
func (m *Monitor) Start(now time.Time, target *wake.TargetWakeTime, cycles int) error {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return ErrReleased
	}
	if m.state != StateIdle {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	if err := wake.ValidateCycles(cycles); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("start session: %w", err)
	}
	p, err := wake.Predict(now, target, cycles)
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("start session: %w", err)
	}

	m.id = m.newID()
	m.state = StateRunning
	m.start = now
	m.now = now
	if target != nil {
		t := *target
		m.target = &t
	}
	m.cycles = cycles
	m.prediction = p
	m.elapsed = 0
	m.stage = stage.Awake
	m.progress = 0
	m.tracker = stage.NewTracker(m.estimator)
	m.nextSample = m.stageInterval

	m.logger.Info("session started",
		"session_id", m.id,
		"cycles", p.Cycles,
		"predicted", p.Exact.Format(time.RFC3339),
		"clamped", p.Clamped,
	)
	m.queue(EventStarted, wake.Clock12(p.Display))
	events := m.drain()
	m.mu.Unlock()

	m.publish(events)
	return nil
}

// Tick advances the session to now. It is a no-op unless the session is
// live. The first tick at or after the exact predicted instant fires the
// alarm exactly once.
func (m *Monitor) Tick(now time.Time) {
	m.mu.Lock()
	if m.released || !m.state.Live() {
		m.mu.Unlock()
		return
	}
	m.advance(now)

	fire := m.state == StateRunning && !m.alarmTriggered && !now.Before(m.prediction.Exact)
	if fire {
		m.state = StateAlarmTriggered
		m.alarmTriggered = true
		m.logger.Info("alarm triggered", "session_id", m.id, "elapsed", m.elapsed)
		m.queue(EventAlarmTriggered, wake.Clock12(m.prediction.Display))
	}
	events := m.drain()
	m.mu.Unlock()

	m.publish(events)
	if fire {
		if err := callNotifier(context.Background(), m.notifier.Alert); err != nil {
			m.ReportNotificationFailure(err)
		}
	}
}

// WakeUp ends a live session and returns its summary. Calling it again
// after completion returns the same summary.
func (m *Monitor) WakeUp(now time.Time) (*Summary, error) {
	m.mu.Lock()
	if m.state == StateCompleted {
		s := m.summary
		m.mu.Unlock()
		return s, nil
	}
	if m.released {
		m.mu.Unlock()
		return nil, ErrReleased
	}
	if m.state == StateIdle {
		m.mu.Unlock()
		return nil, ErrNotStarted
	}

	m.advance(now)
	needCancel := !m.cancelled
	m.cancelled = true
	m.summary = m.buildSummary()
	m.state = StateCompleted
	m.logger.Info("session completed",
		"session_id", m.id,
		"elapsed", m.elapsed,
		"cycles", m.summary.CompletedCycles,
		"quality", string(m.summary.Quality),
	)
	m.queue(EventCompleted, string(m.summary.Quality))
	summary := m.summary
	events := m.drain()
	m.mu.Unlock()

	m.publish(events)
	if needCancel {
		m.cancelNotifier()
	}
	return summary, nil
}

// Release tears the session down. It cancels any pending alert exactly
// once and stops further ticks. Safe to call repeatedly and from any state.
func (m *Monitor) Release() {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.released = true
	started := m.state != StateIdle
	needCancel := started && !m.cancelled
	m.cancelled = true
	if started && m.state != StateCompleted {
		m.logger.Info("session released", "session_id", m.id, "elapsed", m.elapsed)
		m.queue(EventReleased, m.state.String())
	}
	events := m.drain()
	m.mu.Unlock()

	m.publish(events)
	if needCancel {
		m.cancelNotifier()
	}
}

// ReportNotificationFailure records a failed alert. Asynchronous
// notifiers call this when delivery fails after Alert has returned.
func (m *Monitor) ReportNotificationFailure(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	m.failures = append(m.failures, NotificationFailure{At: m.now, Err: err})
	m.logger.Warn("notification failed", "session_id", m.id, "error", err)
	m.queue(EventNotificationFailed, err.Error())
	events := m.drain()
	m.mu.Unlock()

	m.publish(events)
}

// View returns a snapshot of the session.
func (m *Monitor) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return View{
		State:                m.state,
		SessionID:            m.id,
		Start:                m.start,
		Elapsed:              m.elapsed,
		Stage:                m.stage,
		Prediction:           m.prediction,
		Progress:             m.progress,
		AlarmTriggered:       m.alarmTriggered,
		NotificationFailures: len(m.failures),
		Released:             m.released,
	}
}

// Failures returns a copy of the recorded notification failures.
func (m *Monitor) Failures() []NotificationFailure {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NotificationFailure, len(m.failures))
	copy(out, m.failures)
	return out
}

// advance brings elapsed, stage, prediction and progress up to now.
// Callers hold m.mu.
func (m *Monitor) advance(now time.Time) {
	d := now.Sub(m.start)
	if d < 0 {
		m.logger.Warn("clock anomaly: now before session start, clamping elapsed",
			"session_id", m.id, "now", now.Format(time.RFC3339), "start", m.start.Format(time.RFC3339))
		d = 0
	}
	secs := int64(d / time.Second)
	if secs < m.elapsed {
		m.logger.Warn("clock anomaly: clock moved backwards, holding elapsed",
			"session_id", m.id, "elapsed", m.elapsed, "observed", secs)
		secs = m.elapsed
	}
	m.elapsed = secs
	if now.After(m.now) {
		m.now = now
	}
	el := time.Duration(secs) * time.Second

	// One estimate per crossed bucket keeps the history proportional to
	// time even when ticks are late.
	for m.nextSample <= el {
		s := m.tracker.Record(m.nextSample)
		if s != m.stage {
			m.stage = s
			m.queue(EventStageChanged, s.String())
		}
		m.nextSample += m.stageInterval
	}

	if refresh := int64(m.refreshInterval / time.Second); refresh > 0 && secs-m.lastRefresh >= refresh {
		m.lastRefresh = secs - secs%refresh
		m.refreshPrediction()
	}

	m.updateProgress()
}

// refreshPrediction re-derives the prediction from the session start so
// the wake time stays fixed for a fixed target and cycle count.
func (m *Monitor) refreshPrediction() {
	p, err := wake.Predict(m.start, m.target, m.cycles)
	if err != nil {
		m.logger.Warn("prediction refresh failed", "session_id", m.id, "error", err)
		return
	}
	if !p.Exact.Equal(m.prediction.Exact) {
		m.logger.Info("prediction changed", "session_id", m.id,
			"from", m.prediction.Exact.Format(time.RFC3339), "to", p.Exact.Format(time.RFC3339))
	}
	m.prediction = p
	m.queue(EventPredictionRefreshed, wake.Clock12(p.Display))
}

func (m *Monitor) updateProgress() {
	p := progressPercent(m.elapsed, m.prediction.Exact.Sub(m.start))
	if p > m.progress {
		m.progress = p
	}
}

func (m *Monitor) cancelNotifier() {
	if err := callNotifier(context.Background(), m.notifier.Cancel); err != nil {
		m.logger.Warn("notifier cancel failed", "session_id", m.id, "error", err)
	}
}

func (m *Monitor) queue(kind EventKind, detail string) {
	if m.observer == nil {
		return
	}
	m.pending = append(m.pending, Event{
		Kind:      kind,
		SessionID: m.id,
		At:        m.now,
		Elapsed:   m.elapsed,
		Stage:     m.stage,
		Detail:    detail,
	})
}

func (m *Monitor) drain() []Event {
	events := m.pending
	m.pending = nil
	return events
}

func (m *Monitor) publish(events []Event) {
	for _, e := range events {
		m.observer.Observe(e)
	}
}
