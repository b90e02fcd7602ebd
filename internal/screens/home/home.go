package home

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/router"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/screens/about"
	profilescreen "github.com/earlybird-app/earlybird/internal/screens/profile"
	"github.com/earlybird-app/earlybird/internal/screens/setup"
	"github.com/earlybird-app/earlybird/internal/ui/components"
	"github.com/earlybird-app/earlybird/internal/ui/layout"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	menu    components.Menu
	profile *profile.Log
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. Screens behind the menu are built when
// selected so they see the latest settings.
func New(deps screen.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "SLEEP", Shortcut: "s", Action: func() tea.Cmd {
			return router.Push(setup.New(deps))
		}},
		{Label: "PROFILE", Shortcut: "p", Action: func() tea.Cmd {
			return router.Push(profilescreen.New(deps.Profile))
		}},
		{Label: "ABOUT", Shortcut: "a", Action: func() tea.Cmd {
			return router.Push(about.New())
		}},
		{Label: "QUIT", Shortcut: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		profile: deps.Profile,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height excludes the header and footer bars
	compact := layout.IsCompact(width, height+layout.HeaderHeight+layout.FooterHeight)

	cw := components.ContentWidth(width)
	s := h.stats()

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		v := MascotMoon
		if s.nights > 0 {
			v = MascotSunrise
		}
		sections = append(sections, RenderMascot(v))
	}
	sections = append(sections,
		renderStatsBar(s, cw, compact),
		h.menu.View(cw/2),
	)

	return components.Floating(width, height, sections...)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// stats is recomputed on every render since the log grows while the
// home screen sits at the bottom of the stack.
func (h *HomeScreen) stats() stats {
	if h.profile == nil {
		return stats{}
	}
	avg, ok := h.profile.Averages()
	if !ok {
		return stats{}
	}
	return stats{
		nights:       avg.Nights,
		avgSleepSecs: int64(avg.Sleep / time.Second),
		avgScore:     avg.QualityScore,
		scored:       avg.ScoredNights > 0,
	}
}
