package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	keyLastSetup = "last_setup"
	keyLastWake  = "last_wake"
)

// settingsRepo implements SettingsRepo as a key/value table of JSON values.
type settingsRepo struct {
	drv *entsql.Driver
	seq *sequence
}

func (r *settingsRepo) SaveSetup(ctx context.Context, s Setup) error {
	return r.put(ctx, keyLastSetup, s)
}

func (r *settingsRepo) LastSetup(ctx context.Context) (*Setup, error) {
	var s Setup
	ok, err := r.get(ctx, keyLastSetup, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) SetLastWake(ctx context.Context, at time.Time) error {
	return r.put(ctx, keyLastWake, at.UnixMilli())
}

func (r *settingsRepo) LastWake(ctx context.Context) (time.Time, error) {
	var ms int64
	ok, err := r.get(ctx, keyLastWake, &ms)
	if err != nil || !ok {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (r *settingsRepo) Reset(ctx context.Context) error {
	b := entsql.Dialect(dialect.SQLite)
	for _, table := range []string{tableSettings, tableJournal, tableLLMRequests} {
		query, args := b.Delete(table).Query()
		if err := r.drv.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return r.seq.reset(ctx)
}

func (r *settingsRepo) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSettings).
		Columns("key", "value", "updated_ms").
		Values(key, string(raw), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// get decodes the value stored under key into v. It reports false when
// the key is absent.
func (r *settingsRepo) get(ctx context.Context, key string, v any) (bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(tableSettings)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return false, fmt.Errorf("query %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return false, rows.Err()
	}
	var raw string
	if err := rows.Scan(&raw); err != nil {
		return false, fmt.Errorf("scan %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
