package session

import (
	"time"

	"github.com/earlybird-app/earlybird/internal/stage"
)

// EventKind names a session lifecycle event.
type EventKind string

const (
	EventStarted             EventKind = "started"
	EventStageChanged        EventKind = "stage_changed"
	EventPredictionRefreshed EventKind = "prediction_refreshed"
	EventAlarmTriggered      EventKind = "alarm_triggered"
	EventNotificationFailed  EventKind = "notification_failed"
	EventCompleted           EventKind = "completed"
	EventReleased            EventKind = "released"
)

// Event is published to the session's Observer after the state change it
// describes has been applied.
type Event struct {
	Kind      EventKind
	SessionID string
	At        time.Time
	Elapsed   int64
	Stage     stage.Stage
	Detail    string
}

// Observer receives session events. Observe is called outside the
// session lock and must not block for long.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type multiObserver []Observer

func (m multiObserver) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// Observers fans events out to every non-nil observer, in order.
func Observers(obs ...Observer) Observer {
	var out multiObserver
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}
