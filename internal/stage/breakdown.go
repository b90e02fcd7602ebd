package stage

import (
	"math"
	"sort"
)

// Breakdown is the share of the night spent in each stage, in percent.
// A computed Breakdown always sums to 100.
type Breakdown struct {
	Awake float64
	Light float64
	Deep  float64
	REM   float64
}

// FallbackBreakdown is used when a session ends before any stage was tracked.
var FallbackBreakdown = Breakdown{Awake: 5, Light: 50, Deep: 20, REM: 25}

// Of returns the percentage for s.
func (b Breakdown) Of(s Stage) float64 {
	switch s {
	case Awake:
		return b.Awake
	case Light:
		return b.Light
	case Deep:
		return b.Deep
	case REM:
		return b.REM
	}
	return 0
}

// DeepREM is the restorative share used for quality scoring.
func (b Breakdown) DeepREM() float64 { return b.Deep + b.REM }

// Total sums all stages.
func (b Breakdown) Total() float64 { return b.Awake + b.Light + b.Deep + b.REM }

// BreakdownFromCounts converts per-stage counts (indexed by Stage) into
// percentages rounded to one decimal. Rounding uses the largest-remainder
// method so the result sums to exactly 100.0 when any count is positive.
func BreakdownFromCounts(counts [4]float64) (Breakdown, bool) {
	var total float64
	for _, c := range counts {
		if c > 0 {
			total += c
		}
	}
	if total == 0 {
		return Breakdown{}, false
	}

	// Work in tenths of a percent.
	const units = 1000
	type part struct {
		idx  int
		base int
		rem  float64
	}
	parts := make([]part, len(counts))
	assigned := 0
	for i, c := range counts {
		if c < 0 {
			c = 0
		}
		exact := c / total * units
		base := int(math.Floor(exact))
		parts[i] = part{idx: i, base: base, rem: exact - float64(base)}
		assigned += base
	}
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].rem > parts[j].rem })
	for i := 0; assigned < units; i++ {
		parts[i%len(parts)].base++
		assigned++
	}

	var out [4]float64
	for _, p := range parts {
		out[p.idx] = float64(p.base) / 10
	}
	return Breakdown{Awake: out[Awake], Light: out[Light], Deep: out[Deep], REM: out[REM]}, true
}
