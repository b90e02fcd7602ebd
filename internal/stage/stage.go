package stage

import (
	"fmt"
	"strings"
	"time"
)

// Stage is a coarse sleep stage.
type Stage int

const (
	Awake Stage = iota
	Light
	Deep
	REM
)

// All lists every stage in display order.
var All = []Stage{Awake, Light, Deep, REM}

func (s Stage) String() string {
	switch s {
	case Awake:
		return "Awake"
	case Light:
		return "Light"
	case Deep:
		return "Deep"
	case REM:
		return "REM"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ParseStage is the inverse of String, case-insensitive.
func ParseStage(s string) (Stage, error) {
	for _, st := range All {
		if strings.EqualFold(st.String(), s) {
			return st, nil
		}
	}
	return Awake, fmt.Errorf("unknown sleep stage %q", s)
}

// Sample is one stage estimate at an offset from session start.
type Sample struct {
	At    time.Duration
	Stage Stage
}
