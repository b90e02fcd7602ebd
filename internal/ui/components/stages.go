package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/stage"
	"github.com/earlybird-app/earlybird/internal/ui/theme"
)

// StageBars renders one labelled bar per stage, in stage.All order.
func StageBars(b stage.Breakdown, width int) string {
	barWidth := max(4, width-14)
	rows := make([]string, 0, len(stage.All))
	for _, s := range stage.All {
		pct := b.Of(s)
		filled := Cells(pct, barWidth)
		rows = append(rows, theme.Body.Render(fmt.Sprintf("%-6s", s))+
			lipgloss.NewStyle().Background(theme.StageColor(s)).Render(strings.Repeat(" ", filled))+
			theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))+
			theme.Hint.Render(fmt.Sprintf("  %3.0f%%", pct)))
	}
	return strings.Join(rows, "\n")
}

// hypnogramLevel maps a stage to a block height, deepest lowest.
var hypnogramLevel = map[stage.Stage]string{
	stage.Awake: "█",
	stage.REM:   "▆",
	stage.Light: "▄",
	stage.Deep:  "▂",
}

// Hypnogram renders samples as a one-line strip. Long histories are
// downsampled to width by taking evenly spaced points.
func Hypnogram(samples []stage.Sample, width int) string {
	if len(samples) == 0 || width <= 0 {
		return ""
	}
	n := min(len(samples), width)
	var b strings.Builder
	for i := range n {
		s := samples[i*len(samples)/n].Stage
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.StageColor(s)).
			Render(hypnogramLevel[s]))
	}
	return b.String()
}

// CycleCircles renders total circles with the first completed filled.
func CycleCircles(completed, total int) string {
	parts := make([]string, total)
	for i := range total {
		if i < completed {
			parts[i] = lipgloss.NewStyle().Foreground(theme.Success).Render("●")
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render("○")
		}
	}
	return strings.Join(parts, " ")
}
