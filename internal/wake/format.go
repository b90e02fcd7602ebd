package wake

import (
	"fmt"
	"time"
)

// Clock12 formats t as a 12-hour clock reading, e.g. "7:30 AM".
func Clock12(t time.Time) string {
	return TargetFromTime(t).String()
}

// FormatElapsed renders whole seconds as HH:MM:SS. Negative input renders as zero.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHoursMinutes renders a duration as "7h 30m".
func FormatHoursMinutes(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}
