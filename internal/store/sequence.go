package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequence hands out one increasing number shared by the journal and the
// LLM request log, so rows from both tables interleave in the order they
// were written. The mutex serializes writers in this process and the
// single-statement UPDATE ... RETURNING keeps other processes honest.
type sequence struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

func newSequence(ctx context.Context, drv *entsql.Driver) (*sequence, error) {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS global_sequence (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_val INTEGER NOT NULL DEFAULT 1
		)`,
		`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
	} {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return nil, fmt.Errorf("init sequence: %w", err)
		}
	}
	return &sequence{drv: drv}, nil
}

// Next returns the current value and advances the counter.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows entsql.Rows
	err := s.drv.Query(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{}, &rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, fmt.Errorf("scan sequence: %w", err)
	}
	return n, nil
}

// reset starts numbering from 1 again.
func (s *sequence) reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.drv.Exec(ctx, `UPDATE global_sequence SET next_val = 1 WHERE id = 1`, []any{}, nil); err != nil {
		return fmt.Errorf("reset sequence: %w", err)
	}
	return nil
}
