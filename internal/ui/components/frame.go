package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/ui/theme"
)

const (
	minContent = 20
	maxContent = 64
	// border plus horizontal padding on both sides
	frameChrome = 6
)

// ContentWidth is the inner width every card and bar on a screen shares.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-frameChrome, minContent), maxContent)
}

func stack(sections []string) string {
	return strings.Join(sections, "\n\n")
}

// Frame stacks sections with blank lines between them and centers the
// result inside a rounded border that fills width x height.
func Frame(width, height int, sections ...string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(stack(sections))
}

// Floating is Frame with the border hugging the content, placed in the
// middle of the area.
func Floating(width, height int, sections ...string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2).
		Render(stack(sections))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// Card is a bordered panel cw cells wide.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 2).
		Align(lipgloss.Center).
		Render(content)
}

// Button is a centered label; the selected one gets a pointer.
func Button(label string, selected bool, width int) string {
	style, text := theme.ButtonInactive, label
	if selected {
		style, text = theme.ButtonActive, "▸ "+label
	}
	return style.Width(width).Align(lipgloss.Center).Render(text)
}
