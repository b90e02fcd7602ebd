package wake

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Meridiem is the AM/PM half of a 12-hour clock reading.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// TargetWakeTime is a wall-clock wake-up time on a 12-hour clock.
type TargetWakeTime struct {
	Hour     int // 1-12
	Minute   int // 0-59
	Meridiem Meridiem
}

// Validate reports an *InputError if any field is out of range.
func (t TargetWakeTime) Validate() error {
	if t.Hour < 1 || t.Hour > 12 {
		return &InputError{Field: "hour", Value: t.Hour, Reason: "must be between 1 and 12"}
	}
	if t.Minute < 0 || t.Minute > 59 {
		return &InputError{Field: "minute", Value: t.Minute, Reason: "must be between 0 and 59"}
	}
	if t.Meridiem != AM && t.Meridiem != PM {
		return &InputError{Field: "meridiem", Value: t.Meridiem, Reason: "must be AM or PM"}
	}
	return nil
}

// Hour24 converts the 12-hour reading to 0-23.
func (t TargetWakeTime) Hour24() int {
	h := t.Hour % 12
	if t.Meridiem == PM {
		h += 12
	}
	return h
}

func (t TargetWakeTime) String() string {
	return fmt.Sprintf("%d:%02d %s", t.Hour, t.Minute, t.Meridiem)
}

// Resolve returns the absolute instant for t on now's calendar day in now's
// location, rolled forward one day when that instant is not after now.
func (t TargetWakeTime) Resolve(now time.Time) time.Time {
	y, m, d := now.Date()
	at := time.Date(y, m, d, t.Hour24(), t.Minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// TargetFromTime converts a wall-clock time into a TargetWakeTime.
func TargetFromTime(at time.Time) TargetWakeTime {
	h := at.Hour()
	mer := AM
	if h >= 12 {
		mer = PM
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return TargetWakeTime{Hour: h, Minute: at.Minute(), Meridiem: mer}
}

// ParseTarget parses "7:30 AM", "7:30am" or "07:30 PM".
func ParseTarget(s string) (TargetWakeTime, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	var mer Meridiem
	switch {
	case strings.HasSuffix(raw, "AM"):
		mer = AM
	case strings.HasSuffix(raw, "PM"):
		mer = PM
	default:
		return TargetWakeTime{}, &InputError{Field: "target", Value: s, Reason: "missing AM/PM"}
	}
	clock := strings.TrimSpace(raw[:len(raw)-2])

	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return TargetWakeTime{}, &InputError{Field: "target", Value: s, Reason: "expected H:MM"}
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return TargetWakeTime{}, &InputError{Field: "hour", Value: hh, Reason: "not a number"}
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return TargetWakeTime{}, &InputError{Field: "minute", Value: mm, Reason: "expected two digits"}
	}

	t := TargetWakeTime{Hour: hour, Minute: minute, Meridiem: mer}
	if err := t.Validate(); err != nil {
		return TargetWakeTime{}, err
	}
	return t, nil
}
