package layout

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"
)

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Monitoring", "Last wake 6:30 AM", 100)
	for _, want := range []string{"Early Bird", "Monitoring", "Last wake 6:30 AM"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if lipgloss.Height(h) != HeaderHeight {
		t.Errorf("header height = %d, want %d", lipgloss.Height(h), HeaderHeight)
	}
}

func TestContentHeight(t *testing.T) {
	if got := ContentHeight(30); got != 24 {
		t.Errorf("ContentHeight(30) = %d, want 24", got)
	}
	if got := ContentHeight(4); got != 0 {
		t.Errorf("ContentHeight(4) = %d, want 0", got)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) {
		t.Error("expected too small")
	}
	if IsTooSmall(80, 24) {
		t.Error("80x24 should fit")
	}
}

func TestHints(t *testing.T) {
	wake := key.NewBinding(key.WithKeys("w"), key.WithHelp("W", "Wake Up Now"))
	hidden := key.NewBinding(key.WithKeys("x"))
	off := key.NewBinding(key.WithKeys("q"), key.WithHelp("Q", "Quit"), key.WithDisabled())

	got := Hints(wake, hidden, off)
	if len(got) != 1 || got[0] != (KeyHint{Key: "W", Description: "Wake Up Now"}) {
		t.Errorf("Hints = %+v", got)
	}
}

func TestIsCompact(t *testing.T) {
	if !IsCompact(89, 40) || !IsCompact(120, 29) {
		t.Error("expected compact")
	}
	if IsCompact(90, 30) {
		t.Error("90x30 should not be compact")
	}
}

func TestRenderFooter(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Enter", Description: "Sleep"}}, 80)
	if !strings.Contains(f, "Enter") || !strings.Contains(f, "Sleep") {
		t.Errorf("footer missing hint: %q", f)
	}
	if lipgloss.Height(f) != FooterHeight {
		t.Errorf("footer height = %d, want %d", lipgloss.Height(f), FooterHeight)
	}
}
