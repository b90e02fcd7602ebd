package home

import (
	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotMoon    MascotVariant = iota // Nothing logged yet
	MascotSunrise                      // At least one night logged
)

const mascotMoon = `   _.._
 .' .-'` + "`" + `
/  /
|  |    z z
\  \
 '._'-._`

const mascotSunrise = `    \  |  /
  '. .---. .'
 -- (     ) --
  _.'-----'._
 ~~~~~~~~~~~~~`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotMoon, theme.Primary
	if v == MascotSunrise {
		art, fg = mascotSunrise, theme.Accent
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
