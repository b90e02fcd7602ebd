package store

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/earlybird-app/earlybird/internal/session"
)

// JournalObserver writes session events to the journal. Write failures
// are logged and dropped so the session never sees them.
type JournalObserver struct {
	repo    JournalRepo
	logger  *slog.Logger
	timeout time.Duration
}

// NewJournalObserver returns an observer appending to repo.
func NewJournalObserver(repo JournalRepo, logger *slog.Logger) *JournalObserver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &JournalObserver{repo: repo, logger: logger, timeout: 2 * time.Second}
}

func (o *JournalObserver) Observe(e session.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	_, err := o.repo.Append(ctx, JournalEntry{
		Timestamp: e.At,
		SessionID: e.SessionID,
		Kind:      string(e.Kind),
		Elapsed:   e.Elapsed,
		Stage:     e.Stage.String(),
		Detail:    e.Detail,
	})
	if err != nil {
		o.logger.Warn("journal write failed", "session_id", e.SessionID, "kind", e.Kind, "error", err)
	}
}
