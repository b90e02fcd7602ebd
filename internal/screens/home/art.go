package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/ui/theme"
	"github.com/earlybird-app/earlybird/internal/wake"
)

const titleFull = ` ___          _        ___  _          _
| __|__ _ _ _| |_  _  | _ )(_)_ _ __| |
| _|/ _` + "`" + ` | '_| | || | | _ \| | '_/ _` + "`" + ` |
|___\__,_|_| |_|\_, | |___/|_|_| \__,_|
                |__/`

const titleCompact = "E A R L Y · B I R D"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// stats is what the home screen knows about this run's nights.
type stats struct {
	nights       int
	avgSleepSecs int64
	avgScore     int
	scored       bool
}

// renderStatsBar renders the nights summary in a box matching content width.
func renderStatsBar(s stats, cw int, compact bool) string {
	nightStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	sleepStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	scoreStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var line string
	switch {
	case s.nights == 0:
		line = dimStyle.Render("No nights logged yet. Pick Sleep to start one.")
	case compact:
		line = fmt.Sprintf("%s %s %s",
			nightStyle.Render(fmt.Sprintf("☾%d", s.nights)),
			sleepStyle.Render(wake.FormatHoursMinutes(s.avgSleepSecs)),
			scoreText(s, true, scoreStyle, dimStyle),
		)
	default:
		line = fmt.Sprintf("%s  %s  %s",
			nightStyle.Render(fmt.Sprintf("☾ %d %s", s.nights, plural(s.nights, "NIGHT", "NIGHTS"))),
			sleepStyle.Render("AVG "+wake.FormatHoursMinutes(s.avgSleepSecs)),
			scoreText(s, false, scoreStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Render(line)
}

func scoreText(s stats, compact bool, active, dim lipgloss.Style) string {
	if !s.scored {
		if compact {
			return dim.Render("–")
		}
		return dim.Render("NO SCORE YET")
	}
	if compact {
		return active.Render(fmt.Sprintf("★%d", s.avgScore))
	}
	return active.Render(fmt.Sprintf("★ SCORE %d", s.avgScore))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
