package stage

import "time"

// Tracker records every estimate it hands out so the night can be
// summarised afterwards.
type Tracker struct {
	est     Estimator
	samples []Sample
}

// NewTracker wraps est. A nil estimator falls back to CycleEstimator.
func NewTracker(est Estimator) *Tracker {
	if est == nil {
		est = CycleEstimator{}
	}
	return &Tracker{est: est}
}

// Record estimates the stage at elapsed and appends it to the history.
func (t *Tracker) Record(elapsed time.Duration) Stage {
	s := t.est.Estimate(elapsed)
	t.samples = append(t.samples, Sample{At: elapsed, Stage: s})
	return s
}

// Len reports how many samples have been recorded.
func (t *Tracker) Len() int { return len(t.samples) }

// Samples returns a copy of the recorded history.
func (t *Tracker) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// Breakdown returns stage percentages over the recorded history.
// The bool is false when nothing has been recorded.
func (t *Tracker) Breakdown() (Breakdown, bool) {
	var counts [4]float64
	for _, s := range t.samples {
		if s.Stage >= Awake && s.Stage <= REM {
			counts[s.Stage]++
		}
	}
	return BreakdownFromCounts(counts)
}

// Hypnogram downsamples the history to one point per step boundary, up to
// the last recorded sample. Each point carries the stage of the latest
// sample at or before the boundary.
func (t *Tracker) Hypnogram(step time.Duration) []Sample {
	if step <= 0 || len(t.samples) == 0 {
		return nil
	}
	var out []Sample
	next := step
	prev := t.samples[0]
	for _, s := range t.samples {
		for s.At > next {
			out = append(out, Sample{At: next, Stage: prev.Stage})
			next += step
		}
		if s.At == next {
			out = append(out, Sample{At: next, Stage: s.Stage})
			next += step
		}
		prev = s
	}
	return out
}
