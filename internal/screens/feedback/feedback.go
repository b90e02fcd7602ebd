package feedback

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/router"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/screens/analytics"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/ui/components"
	"github.com/earlybird-app/earlybird/internal/ui/layout"
	"github.com/earlybird-app/earlybird/internal/ui/theme"
	"github.com/earlybird-app/earlybird/internal/wake"
)

var keys = struct {
	Choose, Rate, Skip key.Binding
}{
	Choose: key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←→", "Choose")),
	Rate:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Rate")),
	Skip:   key.NewBinding(key.WithKeys("s", "S", "esc"), key.WithHelp("S", "Skip")),
}

// FeedbackScreen asks how the night felt.
type FeedbackScreen struct {
	deps   screen.Deps
	sum    *session.Summary
	choice components.Choice
}

var _ screen.Screen = (*FeedbackScreen)(nil)
var _ screen.KeyHintProvider = (*FeedbackScreen)(nil)
var _ screen.BackHandler = (*FeedbackScreen)(nil)

// New creates a FeedbackScreen for a completed session, with Okay
// preselected.
func New(deps screen.Deps, sum *session.Summary) *FeedbackScreen {
	labels := make([]string, len(profile.Ratings))
	for i, r := range profile.Ratings {
		labels[i] = r.Label()
	}
	return &FeedbackScreen{
		deps:   deps,
		sum:    sum,
		choice: components.NewChoice(labels, 1),
	}
}

func (s *FeedbackScreen) Init() tea.Cmd {
	return nil
}

func (s *FeedbackScreen) Title() string {
	return "Good Morning"
}

func (s *FeedbackScreen) KeyHints() []layout.KeyHint {
	return layout.Hints(keys.Choose, keys.Rate, keys.Skip)
}

// HandlesBack makes Esc a skip so the night is never lost.
func (s *FeedbackScreen) HandlesBack() bool { return true }

func (s *FeedbackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(kmsg, keys.Rate):
		return s, s.done(profile.Ratings[s.choice.Selected])
	case key.Matches(kmsg, keys.Skip):
		return s, s.done(profile.RatingSkipped)
	}
	s.choice = s.choice.Update(msg)
	return s, nil
}

func (s *FeedbackScreen) done(r profile.Rating) tea.Cmd {
	return router.Replace(analytics.New(s.deps, s.sum, r))
}

func (s *FeedbackScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sections := []string{
		theme.Title.Render("How did you sleep?"),
		theme.Subtitle.Render("You slept " + wake.FormatHoursMinutes(s.sum.ElapsedSeconds)),
		s.choice.View(cw/3 - 4),
		theme.Hint.Render("Press S to skip"),
	}
	return components.Frame(width, height, sections...)
}
