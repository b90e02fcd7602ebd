package monitoring

import "time"

// tickMsg drives one Monitor.Tick. It carries the session ID so a tick
// scheduled by a screen that has since left the stack is ignored.
type tickMsg struct {
	sessionID string
	at        time.Time
}
