package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/stage"
)

// Night palette, easy on eyes that are about to close.
var (
	Primary   = lipgloss.Color("#818CF8") // Indigo
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Accent    = lipgloss.Color("#FBBF24") // Sunrise amber
	Success   = lipgloss.Color("#34D399") // Mint
	Error     = lipgloss.Color("#FB7185") // Rose
	Text      = lipgloss.Color("#E2E8F0") // Mist
	TextDim   = lipgloss.Color("#64748B") // Slate
	BgDark    = lipgloss.Color("#020617") // Midnight
	BgCard    = lipgloss.Color("#0F172A") // Night
	Border    = lipgloss.Color("#1E293B") // Dusk
)

// stageColors paint the live stage, the breakdown bars and the hypnogram.
var stageColors = map[stage.Stage]color.Color{
	stage.Awake: Accent,
	stage.Light: Secondary,
	stage.Deep:  lipgloss.Color("#6366F1"),
	stage.REM:   lipgloss.Color("#C084FC"),
}

// StageColor returns the color for s; unknown stages render as light.
func StageColor(s stage.Stage) color.Color {
	if c, ok := stageColors[s]; ok {
		return c
	}
	return stageColors[stage.Light]
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Big = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Alarm = lipgloss.NewStyle().
		Foreground(BgDark).
		Background(Accent).
		Bold(true).
		Padding(0, 2)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
