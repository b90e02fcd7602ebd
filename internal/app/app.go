package app

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/router"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/screens/home"
	"github.com/earlybird-app/earlybird/internal/ui/layout"
	"github.com/earlybird-app/earlybird/internal/wake"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	deps     screen.Deps
	lastWake time.Time
	width    int
	height   int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps screen.Deps) AppModel {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m := AppModel{
		router: router.New(home.New(deps)),
		deps:   deps,
	}
	if deps.Settings != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		at, err := deps.Settings.LastWake(ctx)
		if err != nil && deps.Logger != nil {
			deps.Logger.Warn("load last wake", "error", err)
		}
		m.lastWake = at
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

// globalKeys work on every screen.
var globalKeys = struct {
	Quit, Back, Navigate, Select key.Binding
}{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Quit")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	Navigate: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "Navigate")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Select")),
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case screen.WokeUpMsg:
		m.lastWake = msg.At
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, globalKeys.Quit) {
			m.router.Close()
			return m, tea.Quit
		}
		if key.Matches(msg, globalKeys.Back) && !m.screenTakesBack() {
			if m.router.Depth() == 1 {
				return m, nil
			}
			return m, router.Pop
		}
	}
	return m, m.router.Update(msg)
}

func (m AppModel) screenTakesBack() bool {
	bh, ok := m.router.Active().(screen.BackHandler)
	return ok && bh.HandlesBack()
}

// status is the right side of the header.
func (m AppModel) status() string {
	if m.lastWake.IsZero() {
		return ""
	}
	return "Last wake " + wake.Clock12(m.lastWake)
}

// hints prefers the active screen's own footer.
func (m AppModel) hints() []layout.KeyHint {
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return layout.Hints(globalKeys.Back, globalKeys.Quit)
	}
	return layout.Hints(globalKeys.Navigate, globalKeys.Select, globalKeys.Quit)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	switch {
	case m.width == 0 || m.height == 0:
		return v
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	body := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))

	v.SetContent(layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, deps screen.Deps) error {
	model := newAppModel(deps)
	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := p.Run()
	model.router.Close()
	if err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
