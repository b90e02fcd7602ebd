package session

import "time"

// progressPercent is elapsed over the planned span, clamped to 0..100.
// A non-positive span counts as complete.
func progressPercent(elapsed int64, span time.Duration) float64 {
	if span <= 0 {
		return 100
	}
	p := float64(elapsed) / span.Seconds() * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
