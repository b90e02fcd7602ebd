package monitoring

import (
	"context"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/earlybird-app/earlybird/internal/router"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/screens/feedback"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/ui/layout"
)

type keyMap struct {
	Wake    key.Binding
	Abandon key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Wake: key.NewBinding(
			key.WithKeys("w", "W", "enter"),
			key.WithHelp("W", "Wake Up Now"),
		),
		// Esc is handled by the app, which pops and closes this screen.
		Abandon: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Abandon"),
		),
	}
}

// MonitoringScreen shows a running session. It owns the session: leaving
// the stack without waking up releases it.
type MonitoringScreen struct {
	deps     screen.Deps
	monitor  *session.Monitor
	view     session.View
	interval time.Duration
	keys     keyMap
	closed   bool
	errMsg   string
}

var _ screen.Screen = (*MonitoringScreen)(nil)
var _ screen.KeyHintProvider = (*MonitoringScreen)(nil)
var _ screen.Closer = (*MonitoringScreen)(nil)

// New creates a MonitoringScreen for an already started monitor.
func New(deps screen.Deps, m *session.Monitor) *MonitoringScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	interval := deps.Config.Session.TickInterval
	if interval <= 0 {
		interval = session.DefaultTickInterval
	}
	return &MonitoringScreen{
		deps:     deps,
		monitor:  m,
		view:     m.View(),
		interval: interval,
		keys:     newKeyMap(),
	}
}

// Init schedules the first tick.
func (s *MonitoringScreen) Init() tea.Cmd {
	return s.nextTick()
}

// nextTick schedules exactly one tick. The following one is scheduled
// only after this one has been handled.
func (s *MonitoringScreen) nextTick() tea.Cmd {
	id := s.view.SessionID
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return tickMsg{sessionID: id, at: t}
	})
}

func (s *MonitoringScreen) Title() string {
	return "Sleeping"
}

func (s *MonitoringScreen) KeyHints() []layout.KeyHint {
	wake := s.keys.Wake
	if s.view.AlarmTriggered {
		wake.SetHelp("W", "Stop Alarm & Wake Up")
	}
	return layout.Hints(wake, s.keys.Abandon)
}

func (s *MonitoringScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.closed || msg.sessionID != s.view.SessionID {
			return s, nil
		}
		s.monitor.Tick(msg.at)
		s.view = s.monitor.View()
		if !s.view.State.Live() {
			return s, nil
		}
		return s, s.nextTick()

	case tea.KeyMsg:
		if key.Matches(msg, s.keys.Wake) {
			return s, s.wakeUp()
		}
	}
	return s, nil
}

func (s *MonitoringScreen) wakeUp() tea.Cmd {
	sum, err := s.monitor.WakeUp(s.deps.Now())
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.view = s.monitor.View()

	if s.deps.Settings != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.deps.Settings.SetLastWake(ctx, sum.End); err != nil && s.deps.Logger != nil {
			s.deps.Logger.Warn("save last wake", "error", err)
		}
	}

	return tea.Batch(
		router.Replace(feedback.New(s.deps, sum)),
		func() tea.Msg { return screen.WokeUpMsg{At: sum.End} },
	)
}

// Close releases the session. Safe after WakeUp.
func (s *MonitoringScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.monitor.Release()
}

// Snapshot returns the latest session view.
func (s *MonitoringScreen) Snapshot() session.View {
	return s.view
}
