package setup

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/router"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/screens/monitoring"
	"github.com/earlybird-app/earlybird/internal/store"
	"github.com/earlybird-app/earlybird/internal/ui/components"
	"github.com/earlybird-app/earlybird/internal/ui/layout"
	"github.com/earlybird-app/earlybird/internal/ui/theme"
	"github.com/earlybird-app/earlybird/internal/wake"
)

// Mode is how the sleeper plans the night.
type Mode int

const (
	ModeTarget   Mode = iota // Set Wake-Up Time
	ModeSleepNow             // Sleep Now
)

var modeLabels = []string{"Set Wake-Up Time", "Sleep Now"}

// field is the focused picker in target mode.
type field int

const (
	fieldHour field = iota
	fieldMinute
	fieldMeridiem
	fieldCount
)

type keyMap struct {
	Mode  key.Binding
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	AM    key.Binding
	PM    key.Binding
	Start key.Binding
	Back  key.Binding
}

var keys = keyMap{
	Mode:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("Tab", "Mode")),
	Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "Field")),
	Right: key.NewBinding(key.WithKeys("right", "l")),
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Change")),
	Down:  key.NewBinding(key.WithKeys("down", "j")),
	AM:    key.NewBinding(key.WithKeys("a", "A")),
	PM:    key.NewBinding(key.WithKeys("p", "P")),
	Start: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Sleep")),
	Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
}

// minuteStep is the minute picker's increment.
const minuteStep = 5

// SetupScreen collects a target wake time or a cycle count. Only valid
// values can be selected, so Start never sees bad input from here.
type SetupScreen struct {
	deps   screen.Deps
	mode   Mode
	target wake.TargetWakeTime
	focus  field
	cycles int

	// preferred is the cycle count a target prediction starts from.
	preferred int
	errMsg    string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen prefilled from the last saved setup, falling
// back to the configured defaults.
func New(deps screen.Deps) *SetupScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &SetupScreen{
		deps:      deps,
		target:    wake.TargetWakeTime{Hour: 7, Minute: 0, Meridiem: wake.AM},
		cycles:    wake.DefaultCycles,
		preferred: wake.DefaultCycles,
	}

	cfg := deps.Config.Sleep
	if wake.ValidateCycles(cfg.DefaultCycles) == nil {
		s.cycles = cfg.DefaultCycles
		s.preferred = cfg.DefaultCycles
	}
	if t, err := wake.ParseTarget(cfg.DefaultTarget); err == nil {
		s.target = t
	}

	if deps.Settings != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		last, err := deps.Settings.LastSetup(ctx)
		if err != nil && deps.Logger != nil {
			deps.Logger.Warn("load last setup", "error", err)
		}
		if last != nil {
			s.apply(*last)
		}
	}
	return s
}

// apply copies the valid parts of a saved setup.
func (s *SetupScreen) apply(last store.Setup) {
	if last.Mode == store.SetupSleepNow {
		s.mode = ModeSleepNow
	}
	t := wake.TargetWakeTime{Hour: last.Hour, Minute: last.Minute, Meridiem: wake.Meridiem(last.Meridiem)}
	if t.Validate() == nil {
		s.target = t
	}
	if wake.ValidateCycles(last.Cycles) == nil {
		s.cycles = last.Cycles
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Plan Your Night"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.mode == ModeSleepNow {
		up := keys.Up
		up.SetHelp("↑↓", "Cycles")
		return layout.Hints(keys.Mode, up, keys.Start, keys.Back)
	}
	return layout.Hints(keys.Mode, keys.Left, keys.Up, keys.Start, keys.Back)
}

// Mode returns the active mode.
func (s *SetupScreen) Mode() Mode { return s.mode }

// Target returns the selected wake time.
func (s *SetupScreen) Target() wake.TargetWakeTime { return s.target }

// Cycles returns the selected "sleep now" cycle count.
func (s *SetupScreen) Cycles() int { return s.cycles }

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	s.errMsg = ""

	targetMode := s.mode == ModeTarget
	switch {
	case key.Matches(kmsg, keys.Mode):
		if targetMode {
			s.mode = ModeSleepNow
		} else {
			s.mode = ModeTarget
		}
	case key.Matches(kmsg, keys.Left) && targetMode:
		s.focus = (s.focus + fieldCount - 1) % fieldCount
	case key.Matches(kmsg, keys.Right) && targetMode:
		s.focus = (s.focus + 1) % fieldCount
	case key.Matches(kmsg, keys.Up):
		s.step(1)
	case key.Matches(kmsg, keys.Down):
		s.step(-1)
	case key.Matches(kmsg, keys.AM) && targetMode:
		s.target.Meridiem = wake.AM
	case key.Matches(kmsg, keys.PM) && targetMode:
		s.target.Meridiem = wake.PM
	case key.Matches(kmsg, keys.Start):
		return s, s.start()
	}
	return s, nil
}

// step moves the focused picker up (dir > 0) or down.
func (s *SetupScreen) step(dir int) {
	if s.mode == ModeSleepNow {
		s.cycles = min(wake.MaxSetupCycles, max(wake.MinCycles, s.cycles+dir))
		return
	}
	switch s.focus {
	case fieldHour:
		s.target.Hour = (s.target.Hour-1+dir+12)%12 + 1
	case fieldMinute:
		s.target.Minute = stepMinute(s.target.Minute, dir)
	case fieldMeridiem:
		if s.target.Meridiem == wake.AM {
			s.target.Meridiem = wake.PM
		} else {
			s.target.Meridiem = wake.AM
		}
	}
}

// stepMinute moves to the next multiple of minuteStep in dir, wrapping
// around the hour. Off-grid minutes snap to the grid first.
func stepMinute(m, dir int) int {
	if dir > 0 {
		return (m/minuteStep*minuteStep + minuteStep) % 60
	}
	if m%minuteStep != 0 {
		return m / minuteStep * minuteStep
	}
	return (m - minuteStep + 60) % 60
}

// Prediction is the wake time the current selection would produce if
// the sleeper lay down now.
func (s *SetupScreen) Prediction() (wake.Prediction, error) {
	if s.mode == ModeSleepNow {
		return wake.Predict(s.deps.Now(), nil, s.cycles)
	}
	t := s.target
	return wake.Predict(s.deps.Now(), &t, s.preferred)
}

func (s *SetupScreen) start() tea.Cmd {
	if s.deps.NewMonitor == nil {
		s.errMsg = "Monitoring is unavailable."
		return nil
	}

	var target *wake.TargetWakeTime
	cycles := s.cycles
	if s.mode == ModeTarget {
		t := s.target
		target = &t
		cycles = s.preferred
	}

	m := s.deps.NewMonitor()
	if err := m.Start(s.deps.Now(), target, cycles); err != nil {
		m.Release()
		s.errMsg = err.Error()
		return nil
	}

	if s.deps.Settings != nil {
		setup := store.Setup{
			Mode:     store.SetupTarget,
			Hour:     s.target.Hour,
			Minute:   s.target.Minute,
			Meridiem: string(s.target.Meridiem),
			Cycles:   s.cycles,
		}
		if s.mode == ModeSleepNow {
			setup.Mode = store.SetupSleepNow
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.deps.Settings.SaveSetup(ctx, setup); err != nil && s.deps.Logger != nil {
			s.deps.Logger.Warn("save setup", "error", err)
		}
	}

	return router.Replace(monitoring.New(s.deps, m))
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	tabs := components.NewChoice(modeLabels, int(s.mode)).View(cw/2 - 4)

	var picker string
	if s.mode == ModeTarget {
		picker = s.renderTargetPicker()
	} else {
		picker = s.renderCyclePicker()
	}

	sections := []string{
		tabs,
		components.Card(picker, cw),
		s.renderPrediction(),
	}
	if s.errMsg != "" {
		sections = append(sections, theme.Bad.Render(s.errMsg))
	}

	return components.Frame(width, height, sections...)
}

func (s *SetupScreen) renderTargetPicker() string {
	cells := []string{
		fmt.Sprintf("%2d", s.target.Hour),
		fmt.Sprintf("%02d", s.target.Minute),
		string(s.target.Meridiem),
	}
	for i, c := range cells {
		style := theme.Unselected
		if field(i) == s.focus {
			style = theme.Selected.Underline(true)
		}
		cells[i] = style.Render(c)
	}
	clock := cells[0] + theme.Body.Render(" : ") + cells[1] + "  " + cells[2]
	return theme.Subtitle.Render("I want to wake up by") + "\n\n" + theme.Big.Render(clock)
}

func (s *SetupScreen) renderCyclePicker() string {
	return theme.Subtitle.Render("Cycles of 90 minutes") + "\n\n" +
		theme.Big.Render(fmt.Sprintf("▲ %d ▼", s.cycles)) + "\n\n" +
		components.CycleCircles(s.cycles, wake.MaxSetupCycles)
}

func (s *SetupScreen) renderPrediction() string {
	p, err := s.Prediction()
	if err != nil {
		return theme.Bad.Render(err.Error())
	}
	line := fmt.Sprintf("Lie down now and wake at %s after %d %s",
		theme.Big.Render(wake.Clock12(p.Display)),
		p.Cycles, plural(p.Cycles),
	)
	if p.Clamped {
		line += "\n" + theme.Hint.Render("Less than one full cycle fits before your wake-up time.")
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render(line)
}

func plural(n int) string {
	if n == 1 {
		return "cycle"
	}
	return "cycles"
}
