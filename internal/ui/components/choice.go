package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// Choice is a horizontal single-select row, e.g. Poor / Okay / Good.
type Choice struct {
	Options  []string
	Selected int
}

// NewChoice creates a choice with the given option preselected.
func NewChoice(options []string, selected int) Choice {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return Choice{Options: options, Selected: selected}
}

// Update moves the selection with left/right or a 1-based number key.
func (c Choice) Update(msg tea.Msg) Choice {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Options) == 0 {
		return c
	}
	switch key := kmsg.String(); key {
	case "left", "h":
		if c.Selected > 0 {
			c.Selected--
		}
	case "right", "l", "tab":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(c.Options) {
			c.Selected = int(key[0] - '1')
		}
	}
	return c
}

// View renders the options side by side.
func (c Choice) View(buttonWidth int) string {
	parts := make([]string, len(c.Options))
	for i, o := range c.Options {
		parts[i] = Button(o, i == c.Selected, buttonWidth)
	}
	return strings.Join(parts, "  ")
}
