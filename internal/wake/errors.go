package wake

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a setup value that is out of its domain.
type InputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }
