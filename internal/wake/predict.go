package wake

import "time"

const (
	// CycleLength is the length of one sleep cycle.
	CycleLength = 90 * time.Minute

	// MinCycles and MaxSetupCycles bound what the setup screen offers.
	MinCycles      = 1
	MaxSetupCycles = 6
	DefaultCycles  = 5

	// MaxCycles caps the upward search toward a distant target.
	MaxCycles = 10

	// DisplayRounding is the granularity of Prediction.Display.
	DisplayRounding = 5 * time.Minute
)

// Prediction is the outcome of Predict.
type Prediction struct {
	// Exact is the unrounded wake instant; alarms compare against it.
	Exact time.Time

	// Display is Exact rounded to the nearest DisplayRounding boundary.
	Display time.Time

	// Target is the resolved target instant, zero when no target was given.
	Target time.Time

	// Cycles is the number of cycles the prediction settled on.
	Cycles int

	// Clamped is set when a single cycle overshot the target and Exact
	// was pinned to the target instead.
	Clamped bool
}

// HasTarget reports whether the prediction was made against a target.
func (p Prediction) HasTarget() bool {
	return !p.Target.IsZero()
}

// ValidateCycles checks a cycle count against the setup range.
func ValidateCycles(n int) error {
	if n < MinCycles || n > MaxSetupCycles {
		return &InputError{Field: "cycles", Value: n, Reason: "must be between 1 and 6"}
	}
	return nil
}

// Predict computes the wake instant for a sleeper starting at now.
//
// Without a target the result is now plus cycles full cycles. With a target
// the cycle count is walked down until the wake instant is not after the
// target, or up (to MaxCycles) until the target is less than one cycle away.
// The result never lands after the target.
func Predict(now time.Time, target *TargetWakeTime, cycles int) (Prediction, error) {
	if cycles < MinCycles || cycles > MaxCycles {
		return Prediction{}, &InputError{Field: "cycles", Value: cycles, Reason: "must be between 1 and 10"}
	}

	at := func(n int) time.Time { return now.Add(time.Duration(n) * CycleLength) }

	if target == nil {
		return newPrediction(at(cycles), time.Time{}, cycles, false), nil
	}
	if err := target.Validate(); err != nil {
		return Prediction{}, err
	}

	deadline := target.Resolve(now)
	n := cycles
	exact := at(n)

	switch {
	case exact.After(deadline):
		for n > MinCycles && exact.After(deadline) {
			n--
			exact = at(n)
		}
		if exact.After(deadline) {
			return newPrediction(deadline, deadline, n, true), nil
		}
	case deadline.Sub(exact) >= CycleLength:
		for n < MaxCycles && deadline.Sub(exact) >= CycleLength {
			n++
			exact = at(n)
		}
	}

	return newPrediction(exact, deadline, n, false), nil
}

func newPrediction(exact, target time.Time, cycles int, clamped bool) Prediction {
	return Prediction{
		Exact:   exact,
		Display: exact.Round(DisplayRounding),
		Target:  target,
		Cycles:  cycles,
		Clamped: clamped,
	}
}
