package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/stage"
	"github.com/earlybird-app/earlybird/internal/wake"
)

var (
	headColor  = color.New(color.FgYellow, color.Bold)
	labelColor = color.New(color.FgHiBlack)
	warnColor  = color.New(color.FgYellow)
	goodColor  = color.New(color.FgGreen, color.Bold)
	badColor   = color.New(color.FgRed, color.Bold)
)

// stageColors match the TUI's stage palette as closely as ANSI allows.
var stageColors = map[stage.Stage]*color.Color{
	stage.Awake: color.New(color.FgYellow),
	stage.Light: color.New(color.FgCyan),
	stage.Deep:  color.New(color.FgBlue),
	stage.REM:   color.New(color.FgMagenta),
}

func cyclesWord(n int) string {
	if n == 1 {
		return "cycle"
	}
	return "cycles"
}

// printPrediction writes a prediction made at now.
func printPrediction(w io.Writer, now time.Time, p wake.Prediction) {
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Wake up at"), headColor.Sprint(wake.Clock12(p.Display)))
	slept := int64(p.Exact.Sub(now) / time.Second)
	fmt.Fprintf(w, "%s %d %s, %s of sleep\n",
		labelColor.Sprint("After     "), p.Cycles, cyclesWord(p.Cycles), wake.FormatHoursMinutes(slept))
	if p.HasTarget() {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Target    "), wake.Clock12(p.Target))
	}
	if p.Clamped {
		warnColor.Fprintln(w, "Less than one full cycle fits before the target. The alarm is pinned to it.")
	}
}

// printOptions lists the wake time for every cycle count on offer.
func printOptions(w io.Writer, now time.Time) {
	fmt.Fprintln(w, labelColor.Sprint("Going to sleep now:"))
	for n := wake.MinCycles; n <= wake.MaxSetupCycles; n++ {
		p, err := wake.Predict(now, nil, n)
		if err != nil {
			continue
		}
		line := fmt.Sprintf("  %d %-6s  %8s  %s", n, cyclesWord(n), wake.Clock12(p.Display),
			wake.FormatHoursMinutes(int64(p.Exact.Sub(now)/time.Second)))
		if n == wake.DefaultCycles {
			line = goodColor.Sprint(line)
		}
		fmt.Fprintln(w, line)
	}
}

// printSummary writes a completed night.
func printSummary(w io.Writer, sum *session.Summary) {
	headColor.Fprintln(w, "Good morning!")
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Session   "), sum.SessionID)
	fmt.Fprintf(w, "%s %s (%s to %s)\n", labelColor.Sprint("Slept     "),
		wake.FormatHoursMinutes(sum.ElapsedSeconds), wake.Clock12(sum.Start), wake.Clock12(sum.End))
	fmt.Fprintf(w, "%s %d\n", labelColor.Sprint("Cycles    "), sum.CompletedCycles)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("          "), session.CycleVerdict(sum.CompletedCycles))

	q := fmt.Sprintf("%s (%d/100)", sum.Quality.Label(), sum.QualityScore)
	switch sum.Quality {
	case session.QualityExcellent, session.QualityGood:
		q = goodColor.Sprint(q)
	case session.QualityPoor:
		q = badColor.Sprint(q)
	}
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Quality   "), q)

	var parts []string
	for _, s := range stage.All {
		parts = append(parts, stageColors[s].Sprintf("%s %.1f%%", s, sum.Breakdown.Of(s)))
	}
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Stages    "), strings.Join(parts, "  "))
	if sum.FromFallback {
		warnColor.Fprintln(w, "           Too short to track, showing a typical night.")
	}
	if len(sum.Hypnogram) > 0 {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Timeline  "), hypnogram(sum.Hypnogram))
	}

	alarm := "no"
	if sum.AlarmTriggered {
		alarm = "yes"
	}
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Alarm rang"), alarm)
	if sum.NotificationFailures > 0 {
		badColor.Fprintf(w, "Alarm delivery failed %d time(s)\n", sum.NotificationFailures)
	}
}

// hypnogram renders one letter per point: A, L, D or R.
func hypnogram(samples []stage.Sample) string {
	var b strings.Builder
	for _, s := range samples {
		b.WriteString(stageColors[s.Stage].Sprint(s.Stage.String()[:1]))
	}
	return b.String()
}
