package profile

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/ui/components"
	"github.com/earlybird-app/earlybird/internal/ui/layout"
	"github.com/earlybird-app/earlybird/internal/ui/theme"
	"github.com/earlybird-app/earlybird/internal/wake"
)

// ProfileScreen shows this run's averages and the nights behind them.
type ProfileScreen struct {
	log      *profile.Log
	entries  []profile.Entry
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a new ProfileScreen over log, which may be nil.
func New(log *profile.Log) *ProfileScreen {
	s := &ProfileScreen{
		log:      log,
		expanded: make(map[int]bool),
	}
	if log != nil {
		s.entries = log.Entries()
	}
	return s
}

func (s *ProfileScreen) Init() tea.Cmd {
	return nil
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter":
		if len(s.entries) > 0 {
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *ProfileScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true)

	if len(s.entries) == 0 {
		return dim.Render("\n\n  No nights yet. Your profile fills in as you sleep.")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderAverages(cw)))
	b.WriteString("\n\n")

	for i, e := range s.entries {
		sum := e.Summary
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %d cycles  %s  %s",
			prefix,
			sum.Start.Format("Mon Jan 02 3:04 PM"),
			wake.FormatHoursMinutes(sum.ElapsedSeconds),
			sum.CompletedCycles,
			sum.Quality.Label(),
			e.Rating.Label(),
		)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				components.StageBars(sum.Breakdown, cw-4)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *ProfileScreen) renderAverages(cw int) string {
	avg, ok := s.log.Averages()
	if !ok {
		return ""
	}

	score := "–"
	if avg.ScoredNights > 0 {
		score = fmt.Sprintf("%d", avg.QualityScore)
	}
	head := fmt.Sprintf("%s   %s   %s   %s",
		theme.Big.Render(fmt.Sprintf("%d", avg.Nights))+" nights",
		theme.Big.Render(wake.FormatHoursMinutes(int64(avg.Sleep/time.Second)))+" avg",
		theme.Big.Render(fmt.Sprintf("%.1f", avg.Cycles))+" cycles",
		theme.Big.Render(score)+" score",
	)

	var ratings []string
	for _, r := range profile.Ratings {
		ratings = append(ratings, fmt.Sprintf("%s %d", r.Label(), avg.Ratings[r]))
	}

	content := head + "\n\n" +
		components.StageBars(avg.Breakdown, cw-8) + "\n\n" +
		theme.Hint.Render(strings.Join(ratings, " · "))

	return components.Card(content, cw)
}
