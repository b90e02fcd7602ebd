package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/ui/theme"
)

// ProgressBar shows how far the night has come, from a moon on the left
// to a sun on the right.
type ProgressBar struct {
	Percent     float64
	ShowPercent bool
	Width       int

	// Fill overrides the filled color. By default the bar turns amber
	// once the night is done.
	Fill color.Color
}

// Cells returns how many of width cells a percentage fills.
func Cells(percent float64, width int) int {
	filled := int(float64(width)*percent/100 + 0.5)
	return max(0, min(width, filled))
}

func (p ProgressBar) fill() color.Color {
	switch {
	case p.Fill != nil:
		return p.Fill
	case p.Percent >= 100:
		return theme.Accent
	default:
		return theme.Secondary
	}
}

func (p ProgressBar) View() string {
	const moon, sun = "☾ ", " ☀"

	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("  %3.0f%%", p.Percent)
	}
	barWidth := max(4, p.Width-lipgloss.Width(moon)-lipgloss.Width(sun)-len(suffix))
	filled := Cells(p.Percent, barWidth)

	var b strings.Builder
	b.WriteString(theme.Hint.Render(moon))
	b.WriteString(lipgloss.NewStyle().Background(p.fill()).Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(sun))
	if suffix != "" {
		b.WriteString(theme.Hint.Render(suffix))
	}
	return b.String()
}
