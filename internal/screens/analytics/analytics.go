package analytics

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/coach"
	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/router"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/ui/components"
	"github.com/earlybird-app/earlybird/internal/ui/layout"
	"github.com/earlybird-app/earlybird/internal/ui/theme"
	"github.com/earlybird-app/earlybird/internal/wake"
)

// adviceMsg delivers coach advice for the session it was asked for.
type adviceMsg struct {
	sessionID string
	advice    coach.Advice
}

// AnalyticsScreen breaks down a finished night.
type AnalyticsScreen struct {
	deps   screen.Deps
	sum    *session.Summary
	rating profile.Rating
	advice *coach.Advice
	saved  bool
}

var _ screen.Screen = (*AnalyticsScreen)(nil)
var _ screen.KeyHintProvider = (*AnalyticsScreen)(nil)
var _ screen.BackHandler = (*AnalyticsScreen)(nil)

// New creates an AnalyticsScreen.
func New(deps screen.Deps, sum *session.Summary, rating profile.Rating) *AnalyticsScreen {
	return &AnalyticsScreen{
		deps:   deps,
		sum:    sum,
		rating: rating,
	}
}

// Init asks the coach for advice in the background.
func (s *AnalyticsScreen) Init() tea.Cmd {
	advisor, sum, rating := s.deps.Advisor, s.sum, s.rating
	return func() tea.Msg {
		var adv coach.Advice
		if advisor == nil {
			adv = coach.Rules(sum, rating)
		} else {
			adv = advisor.Advise(context.Background(), sum, rating)
		}
		return adviceMsg{sessionID: sum.SessionID, advice: adv}
	}
}

func (s *AnalyticsScreen) Title() string {
	return "Last Night"
}

func (s *AnalyticsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
	}
}

// HandlesBack makes Esc save the night like Enter.
func (s *AnalyticsScreen) HandlesBack() bool { return true }

func (s *AnalyticsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceMsg:
		if msg.sessionID == s.sum.SessionID {
			adv := msg.advice
			s.advice = &adv
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			s.save()
			return s, router.PopToRoot
		}
	}
	return s, nil
}

// save adds the night to the profile log once.
func (s *AnalyticsScreen) save() {
	if s.saved || s.deps.Profile == nil {
		return
	}
	s.saved = true
	s.deps.Profile.Add(profile.Entry{Summary: s.sum, Rating: s.rating})
}

func (s *AnalyticsScreen) View(width, height int) string {
	sum := s.sum
	cw := components.ContentWidth(width)

	headline := fmt.Sprintf("%s in bed   %s   %s",
		theme.Big.Render(wake.FormatHoursMinutes(sum.ElapsedSeconds)),
		qualityStyle(sum.Quality).Render(sum.Quality.Label()),
		theme.Big.Render(fmt.Sprintf("%d", sum.QualityScore))+theme.Hint.Render("/100"),
	)

	stages := components.StageBars(sum.Breakdown, cw-8)
	if sum.FromFallback {
		stages += "\n" + theme.Hint.Render("Too short to track, showing a typical night.")
	}

	hypno := components.Hypnogram(sum.Hypnogram, cw-8)
	if hypno == "" {
		hypno = theme.Hint.Render("No stage timeline for this night.")
	}

	completed := min(sum.CompletedCycles, wake.MaxSetupCycles)
	cycles := components.CycleCircles(completed, wake.MaxSetupCycles) + "\n" +
		theme.Body.Render(session.CycleVerdict(sum.CompletedCycles))

	sections := []string{
		headline,
		components.Card(stages, cw),
		components.Card(hypno, cw),
		cycles,
		s.renderAdvice(cw),
	}
	return components.Frame(width, height, sections...)
}

func (s *AnalyticsScreen) renderAdvice(cw int) string {
	if s.advice == nil {
		return theme.Hint.Render("Thinking about your night...")
	}
	body := lipgloss.NewStyle().Width(cw - 6).Foreground(theme.Text).Render(s.advice.Tip)
	return components.Card(theme.Selected.Render(s.advice.Headline)+"\n"+body, cw)
}

func qualityStyle(q session.Quality) lipgloss.Style {
	switch q {
	case session.QualityExcellent, session.QualityGood:
		return theme.Good
	case session.QualityPoor:
		return theme.Bad
	default:
		return theme.Body
	}
}

// Rating is the sleeper's verdict this screen was opened with.
func (s *AnalyticsScreen) Rating() profile.Rating { return s.rating }

// Advice is the loaded advice, or nil while it is still loading.
func (s *AnalyticsScreen) Advice() *coach.Advice { return s.advice }
