package session

import (
	"time"

	"github.com/earlybird-app/earlybird/internal/stage"
	"github.com/earlybird-app/earlybird/internal/wake"
)

// State is the lifecycle phase of a monitoring session.
type State int

const (
	StateIdle           State = iota // Created, not yet started
	StateRunning                     // Ticking toward the predicted wake time
	StateAlarmTriggered              // Predicted wake time reached, alert fired
	StateCompleted                   // User woke up, summary produced
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateAlarmTriggered:
		return "alarm_triggered"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Live reports whether the session is accepting ticks.
func (s State) Live() bool {
	return s == StateRunning || s == StateAlarmTriggered
}

// View is a read-only snapshot of a Monitor for display.
type View struct {
	State     State
	SessionID string
	Start     time.Time

	// Elapsed is whole seconds since Start, never negative.
	Elapsed int64

	Stage      stage.Stage
	Prediction wake.Prediction

	// Progress is 0..100 toward the predicted wake time.
	Progress float64

	AlarmTriggered       bool
	NotificationFailures int
	Released             bool
}

// ElapsedClock renders Elapsed as HH:MM:SS.
func (v View) ElapsedClock() string {
	return wake.FormatElapsed(v.Elapsed)
}

// WakeClock renders the display wake time on a 12-hour clock.
func (v View) WakeClock() string {
	if v.Prediction.Display.IsZero() {
		return "--:--"
	}
	return wake.Clock12(v.Prediction.Display)
}

// Remaining is the time left until the exact predicted wake instant.
func (v View) Remaining() time.Duration {
	if v.Prediction.Exact.IsZero() {
		return 0
	}
	d := v.Prediction.Exact.Sub(v.Start) - time.Duration(v.Elapsed)*time.Second
	if d < 0 {
		return 0
	}
	return d
}
