package monitoring

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/earlybird-app/earlybird/internal/ui/components"
	"github.com/earlybird-app/earlybird/internal/ui/theme"
	"github.com/earlybird-app/earlybird/internal/wake"
)

func (s *MonitoringScreen) View(width, height int) string {
	v := s.view
	cw := components.ContentWidth(width)

	var sections []string

	if v.AlarmTriggered {
		sections = append(sections, theme.Alarm.Render("⏰  Time to wake up!  Press W"))
	}

	sections = append(sections,
		theme.Subtitle.Render("Asleep for"),
		theme.Big.Render(v.ElapsedClock()),
	)

	stageLine := theme.Body.Render("Stage  ") +
		lipgloss.NewStyle().Foreground(theme.StageColor(v.Stage)).Bold(true).Render(v.Stage.String())
	wakeLine := theme.Body.Render("Wake at  ") + theme.Big.Render(v.WakeClock()) +
		theme.Hint.Render(fmt.Sprintf("  (%d %s)", v.Prediction.Cycles, cyclesWord(v.Prediction.Cycles)))
	sections = append(sections, components.Card(stageLine+"\n"+wakeLine, cw))

	bar := components.ProgressBar{
		Percent:     v.Progress,
		ShowPercent: true,
		Width:       cw,
	}
	sections = append(sections, bar.View())

	if rem := v.Remaining(); rem > 0 {
		sections = append(sections, theme.Hint.Render(
			wake.FormatHoursMinutes(int64(rem/time.Second))+" to go"))
	}

	if v.NotificationFailures > 0 {
		sections = append(sections, theme.Bad.Render(
			fmt.Sprintf("Alarm delivery failed %d time(s). Keep an eye on the clock.", v.NotificationFailures)))
	}
	if s.errMsg != "" {
		sections = append(sections, theme.Bad.Render(s.errMsg))
	}

	return components.Frame(width, height, sections...)
}

func cyclesWord(n int) string {
	if n == 1 {
		return "cycle"
	}
	return "cycles"
}
