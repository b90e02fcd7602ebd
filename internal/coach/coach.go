// Package coach turns a finished night into a short piece of advice.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/earlybird-app/earlybird/internal/llm"
	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/wake"
)

// Advice sources.
const (
	SourceLLM   = "llm"
	SourceRules = "rules"
)

// Purpose labels coach requests in the LLM request log.
const Purpose = "coach"

// Advice is what the analytics screen shows under the score.
type Advice struct {
	Headline string `json:"headline"`
	Tip      string `json:"tip"`
	Source   string `json:"-"`
}

var adviceSchema = &llm.Schema{
	Name:        "sleep-advice",
	Description: "A short headline and one practical tip about last night's sleep",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{"type": "string", "maxLength": 80},
			"tip":      map[string]any{"type": "string", "maxLength": 280},
		},
		"required":             []any{"headline", "tip"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a friendly sleep coach. The user sleeps in 90-minute cycles
and just woke up. Reply with a JSON object holding a headline of at most eight words
and one concrete, practical tip of one or two sentences. Never give medical advice.`

// Option configures an Advisor.
type Option func(*Advisor)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Advisor) { a.logger = l }
}

// WithTimeout bounds a single LLM call.
func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) { a.timeout = d }
}

// Advisor produces advice, preferring the LLM when one is configured.
type Advisor struct {
	provider llm.Provider
	logger   *slog.Logger
	timeout  time.Duration
}

// New returns an Advisor. provider may be nil, in which case only the
// built-in rules are used.
func New(provider llm.Provider, opts ...Option) *Advisor {
	a := &Advisor{
		provider: provider,
		logger:   slog.New(slog.DiscardHandler),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.timeout <= 0 {
		a.timeout = 30 * time.Second
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	return a
}

// Advise never fails. Any LLM problem falls back to the rules.
func (a *Advisor) Advise(ctx context.Context, sum *session.Summary, rating profile.Rating) Advice {
	if sum == nil {
		return Advice{Headline: "No night recorded", Tip: "Start a session before bed to get advice.", Source: SourceRules}
	}
	if a.provider == nil {
		return Rules(sum, rating)
	}

	ctx, cancel := context.WithTimeout(llm.WithTag(ctx, llm.Tag{Purpose: Purpose, SessionID: sum.SessionID}), a.timeout)
	defer cancel()

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: Prompt(sum, rating)}},
		Schema:      adviceSchema,
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		a.logger.Warn("llm advice failed, using rules", "session_id", sum.SessionID, "error", err)
		return Rules(sum, rating)
	}

	var adv Advice
	if err := resp.Decode(&adv); err != nil || strings.TrimSpace(adv.Headline) == "" {
		a.logger.Warn("unusable llm advice, using rules", "session_id", sum.SessionID, "error", err)
		return Rules(sum, rating)
	}
	adv.Headline = strings.TrimSpace(adv.Headline)
	adv.Tip = strings.TrimSpace(adv.Tip)
	adv.Source = SourceLLM
	return adv
}

// Prompt describes the night in plain text for the model.
func Prompt(sum *session.Summary, rating profile.Rating) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Time asleep: %s\n", wake.FormatHoursMinutes(sum.ElapsedSeconds))
	fmt.Fprintf(&b, "Completed cycles: %d\n", sum.CompletedCycles)
	if !sum.Prediction.Exact.IsZero() {
		fmt.Fprintf(&b, "Planned wake time: %s (%d cycles)\n", wake.Clock12(sum.Prediction.Display), sum.Prediction.Cycles)
	}
	fmt.Fprintf(&b, "Stages: awake %.1f%%, light %.1f%%, deep %.1f%%, REM %.1f%%\n",
		sum.Breakdown.Awake, sum.Breakdown.Light, sum.Breakdown.Deep, sum.Breakdown.REM)
	fmt.Fprintf(&b, "Quality: %s (%d/100)\n", sum.Quality.Label(), sum.QualityScore)
	if sum.AlarmTriggered {
		b.WriteString("Woke up after the alarm.\n")
	} else {
		b.WriteString("Woke up before the alarm.\n")
	}
	if rating != profile.RatingSkipped && rating != "" {
		fmt.Fprintf(&b, "The user says they slept: %s\n", rating)
	}
	return b.String()
}
