package session

import (
	"time"

	"github.com/earlybird-app/earlybird/internal/stage"
	"github.com/earlybird-app/earlybird/internal/wake"
)

// CycleSeconds is one 90-minute sleep cycle in seconds.
const CycleSeconds = int64(wake.CycleLength / time.Second)

// Summary is the immutable result of a completed session. It holds no
// reference back to the Monitor that produced it. Treat Hypnogram as
// read-only.
type Summary struct {
	SessionID      string
	Start          time.Time
	End            time.Time
	ElapsedSeconds int64

	// Target is nil for a "sleep now" session.
	Target     *wake.TargetWakeTime
	Prediction wake.Prediction

	Breakdown stage.Breakdown
	// FromFallback is set when no stage history was tracked and
	// Breakdown is stage.FallbackBreakdown.
	FromFallback bool

	CompletedCycles int
	QualityScore    int
	Quality         Quality

	// Hypnogram has one point per HypnogramStep.
	Hypnogram []stage.Sample

	AlarmTriggered       bool
	NotificationFailures int
}

// Duration is the time slept.
func (s *Summary) Duration() time.Duration {
	return time.Duration(s.ElapsedSeconds) * time.Second
}

// buildSummary snapshots the session. Callers hold m.mu.
func (m *Monitor) buildSummary() *Summary {
	b, ok := m.tracker.Breakdown()
	if !ok {
		b = stage.FallbackBreakdown
		m.logger.Info("no stage history tracked, using fallback breakdown", "session_id", m.id)
	}
	score, quality := Score(m.elapsed, b)

	var target *wake.TargetWakeTime
	if m.target != nil {
		t := *m.target
		target = &t
	}
	return &Summary{
		SessionID:            m.id,
		Start:                m.start,
		End:                  m.start.Add(time.Duration(m.elapsed) * time.Second),
		ElapsedSeconds:       m.elapsed,
		Target:               target,
		Prediction:           m.prediction,
		Breakdown:            b,
		FromFallback:         !ok,
		CompletedCycles:      CompletedCycles(m.elapsed),
		QualityScore:         score,
		Quality:              quality,
		Hypnogram:            m.tracker.Hypnogram(HypnogramStep),
		AlarmTriggered:       m.alarmTriggered,
		NotificationFailures: len(m.failures),
	}
}

// CompletedCycles is the number of whole 90-minute cycles in elapsed seconds.
func CompletedCycles(elapsed int64) int {
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / CycleSeconds)
}
