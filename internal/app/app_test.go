package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/earlybird-app/earlybird/internal/alarm"
	"github.com/earlybird-app/earlybird/internal/config"
	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/router"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/store"
)

type lastWakeOnly struct {
	store.SettingsRepo
	at time.Time
}

func (l *lastWakeOnly) LastWake(context.Context) (time.Time, error) { return l.at, nil }
func (l *lastWakeOnly) LastSetup(context.Context) (*store.Setup, error) {
	return nil, nil
}

// closingScreen records Close calls.
type closingScreen struct {
	back   bool
	closed int
	got    []tea.Msg
}

func (c *closingScreen) Init() tea.Cmd { return nil }
func (c *closingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	c.got = append(c.got, msg)
	return c, nil
}
func (c *closingScreen) View(int, int) string { return "closing" }
func (c *closingScreen) Title() string        { return "Closing" }
func (c *closingScreen) Close()               { c.closed++ }
func (c *closingScreen) HandlesBack() bool    { return c.back }

func testDeps() screen.Deps {
	return screen.Deps{
		Config:  config.Default(),
		Profile: profile.NewLog(),
		Now:     time.Now,
	}
}

func TestStatus_LastWake(t *testing.T) {
	deps := testDeps()
	deps.Settings = &lastWakeOnly{at: time.Date(2026, 3, 3, 6, 30, 0, 0, time.UTC)}
	m := newAppModel(deps)
	if got := m.status(); got != "Last wake 6:30 AM" {
		t.Errorf("status = %q", got)
	}

	next, _ := m.Update(screen.WokeUpMsg{At: time.Date(2026, 3, 4, 7, 5, 0, 0, time.UTC)})
	if got := next.(AppModel).status(); got != "Last wake 7:05 AM" {
		t.Errorf("status after wake = %q", got)
	}
}

func TestStatus_NoWakeYet(t *testing.T) {
	if got := newAppModel(testDeps()).status(); got != "" {
		t.Errorf("status = %q, want empty", got)
	}
}

func TestEsc_PopsAndCloses(t *testing.T) {
	m := newAppModel(testDeps())
	top := &closingScreen{}
	m.Update(router.PushScreenMsg{Screen: top})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	m.Update(cmd())
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
	if top.closed != 1 {
		t.Errorf("closed = %d, want 1", top.closed)
	}
}

func TestEsc_BackHandlerGetsKey(t *testing.T) {
	m := newAppModel(testDeps())
	top := &closingScreen{back: true}
	m.Update(router.PushScreenMsg{Screen: top})

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 2 {
		t.Error("screen handling Esc should not be popped")
	}
	if len(top.got) != 1 {
		t.Errorf("screen got %d messages, want 1", len(top.got))
	}
}

func TestEsc_RootIgnored(t *testing.T) {
	m := newAppModel(testDeps())
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc on the root screen should do nothing")
	}
}

func TestCtrlC_ClosesScreens(t *testing.T) {
	m := newAppModel(testDeps())
	top := &closingScreen{}
	m.Update(router.PushScreenMsg{Screen: top})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
	if top.closed != 1 {
		t.Errorf("closed = %d, want 1", top.closed)
	}
}

func TestView_BeforeSize(t *testing.T) {
	v := newAppModel(testDeps()).View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}

// syncBuffer is a bytes.Buffer safe for the async bell goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestMonitorFactory_RingsBell(t *testing.T) {
	cfg := config.Default()
	cfg.Alarm.Repeat = 2
	bell := &syncBuffer{}

	var events []session.EventKind
	var mu sync.Mutex
	f := MonitorFactory{
		Config: cfg,
		Bell:   bell,
		Seed:   7,
		Observers: []session.Observer{session.ObserverFunc(func(e session.Event) {
			mu.Lock()
			events = append(events, e.Kind)
			mu.Unlock()
		})},
	}

	m := f.New()
	start := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	if err := m.Start(start, nil, 1); err != nil {
		t.Fatal(err)
	}
	m.Tick(start.Add(90 * time.Minute))

	eventually(t, func() bool { return bell.String() == "\a\a" })

	mu.Lock()
	defer mu.Unlock()
	if len(events) == 0 || events[0] != session.EventStarted {
		t.Errorf("events = %v, want started first", events)
	}
}

func TestMonitorFactory_ReportsFailedDelivery(t *testing.T) {
	cfg := config.Default()
	cfg.Alarm.Bell = false
	cfg.Alarm.Attempts = 2
	cfg.Alarm.Delay = time.Millisecond

	var calls int
	var mu sync.Mutex
	f := MonitorFactory{
		Config: cfg,
		Extra: []alarm.Notifier{alarm.Func{OnAlert: func(context.Context) error {
			mu.Lock()
			calls++
			mu.Unlock()
			return errors.New("speaker unplugged")
		}}},
	}

	m := f.New()
	start := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	if err := m.Start(start, nil, 1); err != nil {
		t.Fatal(err)
	}
	m.Tick(start.Add(90 * time.Minute))

	eventually(t, func() bool { return m.View().NotificationFailures == 1 })
	if fails := m.Failures(); !strings.Contains(fails[0].Err.Error(), "speaker unplugged") {
		t.Errorf("failure = %v", fails[0].Err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("alert attempts = %d, want 2", calls)
	}
}

func TestHints_FollowDepth(t *testing.T) {
	m := newAppModel(testDeps())
	root := m.hints()
	if len(root) == 0 {
		t.Fatal("expected hints")
	}

	m.Update(router.PushScreenMsg{Screen: &closingScreen{}})
	got := m.hints()
	if len(got) != 2 || got[0].Key != "Esc" || got[1].Key != "Ctrl+C" {
		t.Errorf("hints on a pushed screen = %+v", got)
	}
}
