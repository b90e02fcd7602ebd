package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestCells(t *testing.T) {
	tests := []struct {
		pct   float64
		width int
		want  int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{140, 10, 10},
		{-5, 10, 0},
		{33.3, 30, 10},
	}
	for _, tt := range tests {
		if got := Cells(tt.pct, tt.width); got != tt.want {
			t.Errorf("Cells(%v, %d) = %d, want %d", tt.pct, tt.width, got, tt.want)
		}
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	fired := ""
	m := NewMenu([]MenuItem{
		{Label: "Sleep", Action: func() tea.Cmd { fired = "sleep"; return nil }},
		{Label: "Soon", Disabled: true},
		{Label: "About", Action: func() tea.Cmd { fired = "about"; return nil }},
	})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if fired != "about" {
		t.Errorf("fired = %q, want about", fired)
	}
	m, _ = m.Update(press('k'))
	if m.Selected != 0 {
		t.Errorf("Selected = %d, want 0", m.Selected)
	}
	if !strings.Contains(m.View(20), "Sleep") {
		t.Error("menu view missing label")
	}
}

func TestChoice(t *testing.T) {
	c := NewChoice([]string{"Poor", "Okay", "Good"}, 1)
	c = c.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", c.Selected)
	}
	c = c.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.Selected != 2 {
		t.Fatalf("Selected moved past the end: %d", c.Selected)
	}
	c = c.Update(press('1'))
	if c.Selected != 0 {
		t.Fatalf("Selected = %d, want 0", c.Selected)
	}
	c = c.Update(press('9'))
	if c.Selected != 0 {
		t.Fatalf("out of range number key changed selection: %d", c.Selected)
	}
	if NewChoice([]string{"a"}, 5).Selected != 0 {
		t.Error("out of range preselect not reset")
	}
}

func TestMenu_Shortcut(t *testing.T) {
	fired := ""
	m := NewMenu([]MenuItem{
		{Label: "SLEEP", Shortcut: "s", Action: func() tea.Cmd { fired = "sleep"; return nil }},
		{Label: "QUIT", Shortcut: "q", Action: func() tea.Cmd { fired = "quit"; return nil }},
		{Label: "LATER", Shortcut: "l", Disabled: true, Action: func() tea.Cmd { fired = "later"; return nil }},
	})

	m, _ = m.Update(press('Q'))
	if fired != "quit" || m.Selected != 1 {
		t.Errorf("fired = %q, Selected = %d; want quit, 1", fired, m.Selected)
	}
	fired = ""
	m, _ = m.Update(press('l'))
	if fired != "" || m.Selected != 1 {
		t.Errorf("disabled shortcut fired %q", fired)
	}
}

func TestProgressBar(t *testing.T) {
	v := ProgressBar{Percent: 50, ShowPercent: true, Width: 40}.View()
	if !strings.Contains(v, "50%") || !strings.Contains(v, "☾") || !strings.Contains(v, "☀") {
		t.Errorf("progress view = %q", v)
	}
}

func TestContentWidth(t *testing.T) {
	for frame, want := range map[int]int{10: 20, 46: 40, 200: 64} {
		if got := ContentWidth(frame); got != want {
			t.Errorf("ContentWidth(%d) = %d, want %d", frame, got, want)
		}
	}
}

func TestFrame_StacksSections(t *testing.T) {
	out := Frame(40, 12, "Light", "06:40")
	if !strings.Contains(out, "Light") || !strings.Contains(out, "06:40") {
		t.Fatalf("sections missing:\n%s", out)
	}
	if strings.Index(out, "Light") > strings.Index(out, "06:40") {
		t.Error("sections out of order")
	}
}
