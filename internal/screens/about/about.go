package about

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/ui/theme"
)

const body = `Sleep runs in cycles of about 90 minutes: light sleep, deep sleep,
then REM. Waking at the end of a cycle feels far easier than being
pulled out of deep sleep halfway through one.

Early Bird counts whole cycles from the moment you lie down.
Give it a wake-up time and it picks the latest cycle boundary that
is not after it. Choose "Sleep now" and it adds the cycles you ask for.

While you sleep it tracks an estimated stage every 30 seconds,
refreshes the prediction every five minutes and rings once when
the wake time arrives. Stage estimates follow the typical cycle shape.
They are not measured from your body.`

// AboutScreen explains the cycle method.
type AboutScreen struct{}

var _ screen.Screen = (*AboutScreen)(nil)

// New creates a new AboutScreen.
func New() *AboutScreen {
	return &AboutScreen{}
}

func (a *AboutScreen) Init() tea.Cmd {
	return nil
}

func (a *AboutScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return a, nil
}

func (a *AboutScreen) View(width, height int) string {
	heading := theme.Title.Render("The 90-minute cycle")
	text := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(body)

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(heading + "\n\n" + text)
}

func (a *AboutScreen) Title() string {
	return "About"
}
