package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/ui/theme"
)

// MenuItem is one button. Shortcut, when set, selects and fires the item
// from anywhere in the menu.
type MenuItem struct {
	Label    string
	Shortcut string
	Action   func() tea.Cmd
	Disabled bool
}

var menuKeys = struct {
	Up, Down, Select key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter", "space")),
}

// Menu is a vertical list of buttons. Disabled items are shown dimmed
// and never selected.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, menuKeys.Up):
		m.Selected = m.next(-1)
	case key.Matches(kmsg, menuKeys.Down):
		m.Selected = m.next(1)
	case key.Matches(kmsg, menuKeys.Select):
		return m, m.fire()
	default:
		for i, item := range m.Items {
			if item.Shortcut != "" && !item.Disabled && strings.EqualFold(kmsg.String(), item.Shortcut) {
				m.Selected = i
				return m, m.fire()
			}
		}
	}
	return m, nil
}

// next returns the nearest enabled item in dir, or the current one.
func (m Menu) next(dir int) int {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

func (m Menu) fire() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	item := m.Items[m.Selected]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

// View renders the buttons in a column.
func (m Menu) View(width int) string {
	dim := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)
	rows := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		if item.Disabled {
			rows = append(rows, dim.Render(item.Label))
			continue
		}
		rows = append(rows, Button(item.Label, i == m.Selected, width))
	}
	return strings.Join(rows, "\n")
}
