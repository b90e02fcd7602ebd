// Package profile keeps the nights slept during this run of the app.
package profile

import (
	"math"
	"sync"
	"time"

	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/stage"
)

// Entry is one completed night and how it felt.
type Entry struct {
	Summary *session.Summary
	Rating  Rating
}

// Log is an in-memory, goroutine-safe list of entries.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Add records a night. Entries without a summary are ignored.
func (l *Log) Add(e Entry) {
	if e.Summary == nil {
		return
	}
	if e.Rating == "" {
		e.Rating = RatingSkipped
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Len is the number of logged nights.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Latest returns the most recent entry.
func (l *Log) Latest() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Averages summarizes every logged night.
type Averages struct {
	Nights int
	Sleep  time.Duration
	Cycles float64

	// QualityScore averages only nights long enough to be scored.
	QualityScore int
	ScoredNights int

	// Breakdown weights each night by its length.
	Breakdown stage.Breakdown

	Ratings map[Rating]int
}

// Averages computes the log's averages. ok is false for an empty log.
func (l *Log) Averages() (Averages, bool) {
	l.mu.Lock()
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	l.mu.Unlock()

	if len(entries) == 0 {
		return Averages{}, false
	}

	avg := Averages{Nights: len(entries), Ratings: make(map[Rating]int)}
	var (
		seconds, cycles, score float64
		counts, equal          [4]float64
	)
	for _, e := range entries {
		s := e.Summary
		seconds += float64(s.ElapsedSeconds)
		cycles += float64(s.CompletedCycles)
		if s.Quality != session.QualityInsufficient {
			score += float64(s.QualityScore)
			avg.ScoredNights++
		}
		for _, st := range stage.All {
			share := s.Breakdown.Of(st)
			counts[st] += share * float64(s.ElapsedSeconds)
			equal[st] += share
		}
		avg.Ratings[e.Rating]++
	}

	n := float64(len(entries))
	avg.Sleep = time.Duration(seconds/n) * time.Second
	avg.Cycles = cycles / n
	if avg.ScoredNights > 0 {
		avg.QualityScore = int(math.Round(score / float64(avg.ScoredNights)))
	}
	b, ok := stage.BreakdownFromCounts(counts)
	if !ok {
		// Every night was zero length.
		b, ok = stage.BreakdownFromCounts(equal)
	}
	if !ok {
		b = stage.FallbackBreakdown
	}
	avg.Breakdown = b
	return avg, true
}
