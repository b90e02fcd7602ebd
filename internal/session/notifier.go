package session

import (
	"context"
	"fmt"
	"time"
)

// Notifier is the alarm collaborator. Alert is invoked once when the
// predicted wake time is reached; Cancel once when the session ends.
type Notifier interface {
	Alert(ctx context.Context) error
	Cancel(ctx context.Context) error
}

// NotificationFailure records an alert that could not be delivered.
type NotificationFailure struct {
	At  time.Time
	Err error
}

type nopNotifier struct{}

func (nopNotifier) Alert(context.Context) error  { return nil }
func (nopNotifier) Cancel(context.Context) error { return nil }

// callNotifier runs fn and turns a panic into an error.
func callNotifier(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return fn(ctx)
}
