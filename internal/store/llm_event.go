package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the SQL builder and the global sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequence
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	success := 0
	if data.Success {
		success = 1
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableLLMRequests).
		Columns("sequence", "timestamp_ms", "provider", "model", "purpose", "session_id",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose, data.SessionID,
			data.InputTokens, data.OutputTokens, data.LatencyMs, success, data.ErrorMessage).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp_ms", "provider", "model", "purpose", "session_id",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		From(entsql.Table(tableLLMRequests)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var (
			e       LLMRequestEvent
			ms      int64
			success int
		)
		if err := rows.Scan(&e.Sequence, &ms, &e.Provider, &e.Model, &e.Purpose, &e.SessionID,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &success, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan LLM request: %w", err)
		}
		e.Timestamp = time.UnixMilli(ms)
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}
