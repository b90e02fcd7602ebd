package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	_ "modernc.org/sqlite" // registers "sqlite", no cgo
)

// Store is the SQLite database behind the journal, settings and event
// repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequence
}

// pragmas tune SQLite for one local writer.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
	"PRAGMA synchronous = NORMAL",
}

// Open connects to the database at dsn and creates any missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	ctx := context.Background()
	drv := entsql.OpenDB(dialect.SQLite, db)
	fail := func(err error) (*Store, error) {
		drv.Close()
		return nil, err
	}
	if err := migrate(ctx, drv); err != nil {
		return fail(fmt.Errorf("migrate: %w", err))
	}
	seq, err := newSequence(ctx, drv)
	if err != nil {
		return fail(err)
	}
	return &Store{db: db, drv: drv, seq: seq}, nil
}

func (s *Store) Driver() *entsql.Driver { return s.drv }

// DB exposes the raw handle for ad hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

func (s *Store) JournalRepo() JournalRepo {
	return &journalRepo{drv: s.drv, seq: s.seq}
}

func (s *Store) SettingsRepo() SettingsRepo {
	return &settingsRepo{drv: s.drv, seq: s.seq}
}

func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv, seq: s.seq}
}

// DefaultDBPath is $EARLYBIRD_DB when set, otherwise earlybird.db under
// the XDG data directory. The parent directory is created.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("EARLYBIRD_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "earlybird", "earlybird.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
