package store

import (
	"context"
	"time"
)

// JournalEntry is one session lifecycle event in the audit log.
type JournalEntry struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	SessionID string
	Kind      string
	Elapsed   int64
	Stage     string
	Detail    string
}

// JournalRepo is an append-only audit trail of monitoring sessions.
type JournalRepo interface {
	// Append stores an entry and assigns its Sequence.
	Append(ctx context.Context, e JournalEntry) (JournalEntry, error)

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)

	// BySession returns a session's entries in the order they were written.
	BySession(ctx context.Context, sessionID string) ([]JournalEntry, error)

	// Prune deletes all but the keep most recent entries.
	Prune(ctx context.Context, keep int) error
}

// SetupMode is how the user chose to plan the night.
type SetupMode string

const (
	SetupTarget   SetupMode = "target"
	SetupSleepNow SetupMode = "sleep_now"
)

// Setup is the last configuration chosen on the setup screen.
type Setup struct {
	Mode     SetupMode `json:"mode"`
	Hour     int       `json:"hour"`
	Minute   int       `json:"minute"`
	Meridiem string    `json:"meridiem"`
	Cycles   int       `json:"cycles"`
}

// SettingsRepo stores small user preferences.
type SettingsRepo interface {
	// SaveSetup replaces the remembered setup.
	SaveSetup(ctx context.Context, s Setup) error

	// LastSetup returns the remembered setup, or nil if none was saved.
	LastSetup(ctx context.Context) (*Setup, error)

	// SetLastWake remembers when the user last woke up.
	SetLastWake(ctx context.Context, at time.Time) error

	// LastWake returns the last wake-up time, or the zero time.
	LastWake(ctx context.Context) (time.Time, error)

	// Reset clears all settings and the journal.
	Reset(ctx context.Context) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentLLMRequests returns up to limit requests, newest first.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)
}
