package session

import "errors"

var (
	// ErrNotStarted is returned by WakeUp before Start.
	ErrNotStarted = errors.New("session not started")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrReleased is returned once a session has been torn down without completing.
	ErrReleased = errors.New("session released")

	// ErrRunnerActive is returned by a second Runner.Start.
	ErrRunnerActive = errors.New("runner already started")
)
