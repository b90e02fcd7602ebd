package alarm

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/earlybird-app/earlybird/internal/session"
)

var (
	_ session.Notifier = (*Bell)(nil)
	_ session.Notifier = (*Async)(nil)
	_ session.Notifier = Multi(nil)
	_ session.Notifier = Nop{}
	_ session.Notifier = Func{}
)

func TestBell_Rings(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, 3)
	if err := b.Alert(context.Background()); err != nil {
		t.Fatalf("Alert: %v", err)
	}
	if buf.String() != "\a\a\a" {
		t.Errorf("wrote %q, want three bells", buf.String())
	}
}

func TestBell_NoWriter(t *testing.T) {
	b := &Bell{}
	if err := b.Alert(context.Background()); err == nil {
		t.Error("Alert with nil writer = nil, want error")
	}
}

func TestMulti_JoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	var calls int
	m := Multi{
		Func{OnAlert: func(context.Context) error { calls++; return errA }},
		Nop{},
		Func{OnAlert: func(context.Context) error { calls++; return errB }},
	}
	err := m.Alert(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Alert = %v, want both errors", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if err := m.Cancel(context.Background()); err != nil {
		t.Errorf("Cancel = %v", err)
	}
}

func TestAsync_ReturnsImmediatelyAndRetries(t *testing.T) {
	var attempts atomic.Int32
	release := make(chan struct{})
	inner := Func{OnAlert: func(context.Context) error {
		<-release
		if attempts.Add(1) < 3 {
			return errors.New("not yet")
		}
		return nil
	}}
	var failed atomic.Bool
	a := NewAsync(inner, AsyncConfig{
		Attempts:  5,
		Delay:     time.Millisecond,
		MaxDelay:  5 * time.Millisecond,
		OnFailure: func(error) { failed.Store(true) },
	})

	if err := a.Alert(context.Background()); err != nil {
		t.Fatalf("Alert: %v", err)
	}
	close(release)
	a.Wait()

	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if failed.Load() {
		t.Error("OnFailure called after eventual success")
	}
}

func TestAsync_ReportsFinalFailure(t *testing.T) {
	boom := errors.New("speaker missing")
	var mu sync.Mutex
	var got error
	a := NewAsync(Func{OnAlert: func(context.Context) error { return boom }}, AsyncConfig{
		Attempts: 2,
		Delay:    time.Millisecond,
		MaxDelay: time.Millisecond,
		OnFailure: func(err error) {
			mu.Lock()
			got = err
			mu.Unlock()
		},
	})
	_ = a.Alert(context.Background())
	a.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(got, boom) {
		t.Errorf("OnFailure got %v, want %v", got, boom)
	}
}

func TestAsync_CancelStopsDelivery(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	var cancelled atomic.Bool
	var failed atomic.Bool
	inner := Func{
		OnAlert: func(ctx context.Context) error {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return ctx.Err()
		},
		OnCancel: func(context.Context) error {
			cancelled.Store(true)
			return nil
		},
	}
	a := NewAsync(inner, AsyncConfig{Attempts: 3, Delay: time.Millisecond, OnFailure: func(error) { failed.Store(true) }})
	_ = a.Alert(context.Background())
	<-started

	done := make(chan error, 1)
	go func() { done <- a.Cancel(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Cancel = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Cancel did not return")
	}
	if !cancelled.Load() {
		t.Error("inner Cancel not called")
	}
	if failed.Load() {
		t.Error("cancelled delivery reported as failure")
	}
}

func TestAsync_FailureReachesSession(t *testing.T) {
	var m *session.Monitor
	a := NewAsync(Func{OnAlert: func(context.Context) error { return errors.New("no audio device") }}, AsyncConfig{
		Attempts:  1,
		OnFailure: func(err error) { m.ReportNotificationFailure(err) },
	})
	m = session.New(session.WithNotifier(a))

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if err := m.Start(start, nil, 1); err != nil {
		t.Fatal(err)
	}
	m.Tick(start.Add(2 * time.Hour))
	a.Wait()

	v := m.View()
	if v.State != session.StateAlarmTriggered {
		t.Errorf("State = %v", v.State)
	}
	if v.NotificationFailures != 1 {
		t.Errorf("NotificationFailures = %d, want 1", v.NotificationFailures)
	}
}
