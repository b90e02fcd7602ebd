package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var journalColumns = []string{
	"id", "sequence", "timestamp_ms", "session_id", "kind", "elapsed_secs", "stage", "detail",
}

// journalRepo implements JournalRepo with the ent SQL builder.
type journalRepo struct {
	drv *entsql.Driver
	seq *sequence
}

func (r *journalRepo) Append(ctx context.Context, e JournalEntry) (JournalEntry, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("next sequence: %w", err)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	e.Sequence = seqNum

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableJournal).
		Columns("sequence", "timestamp_ms", "session_id", "kind", "elapsed_secs", "stage", "detail").
		Values(e.Sequence, e.Timestamp.UnixMilli(), e.SessionID, e.Kind, e.Elapsed, e.Stage, e.Detail).
		Query()

	var res entsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return JournalEntry{}, fmt.Errorf("append journal entry: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return e, nil
}

func (r *journalRepo) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(journalColumns...).
		From(entsql.Table(tableJournal)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	entries, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query recent journal: %w", err)
	}
	return entries, nil
}

func (r *journalRepo) BySession(ctx context.Context, sessionID string) ([]JournalEntry, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(journalColumns...).
		From(entsql.Table(tableJournal)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence")
	entries, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query session journal: %w", err)
	}
	return entries, nil
}

func (r *journalRepo) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	// Find the newest sequence that falls outside the kept window.
	query, args := entsql.Dialect(dialect.SQLite).
		Select("sequence").
		From(entsql.Table(tableJournal)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query journal for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	rows.Close()
	if !found {
		return nil // fewer than keep entries exist
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete(tableJournal).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune journal: %w", err)
	}
	return nil
}

func (r *journalRepo) query(ctx context.Context, sel *entsql.Selector) ([]JournalEntry, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			e  JournalEntry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ms, &e.SessionID, &e.Kind, &e.Elapsed, &e.Stage, &e.Detail); err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(ms)
		out = append(out, e)
	}
	return out, rows.Err()
}
