package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/stage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Driver() == nil {
		t.Fatal("expected non-nil driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestFileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earlybird.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	if _, err := s.JournalRepo().Append(context.Background(), JournalEntry{SessionID: "a", Kind: "started"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	// Reopening keeps data and the sequence.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	e, err := s.JournalRepo().Append(context.Background(), JournalEntry{SessionID: "a", Kind: "completed"})
	if err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	if e.Sequence != 2 {
		t.Errorf("Sequence after reopen = %d, want 2", e.Sequence)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for want := int64(1); want <= 5; want++ {
		got, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Errorf("Next = %d, want %d", got, want)
		}
	}
}

func TestJournalAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.JournalRepo()
	ctx := context.Background()

	base := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	for i, kind := range []string{"started", "stage_changed", "completed"} {
		_, err := repo.Append(ctx, JournalEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			SessionID: "night-1",
			Kind:      kind,
			Elapsed:   int64(i * 60),
			Stage:     "Light",
		})
		if err != nil {
			t.Fatalf("append %s: %v", kind, err)
		}
	}
	if _, err := repo.Append(ctx, JournalEntry{SessionID: "night-2", Kind: "started"}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.BySession(ctx, "night-1")
	if err != nil {
		t.Fatalf("BySession: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("BySession len = %d, want 3", len(got))
	}
	if got[0].Kind != "started" || got[2].Kind != "completed" {
		t.Errorf("order = %s..%s", got[0].Kind, got[2].Kind)
	}
	if !got[1].Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("Timestamp = %v, want %v", got[1].Timestamp, base.Add(time.Minute))
	}
	if got[2].Elapsed != 120 {
		t.Errorf("Elapsed = %d, want 120", got[2].Elapsed)
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].SessionID != "night-2" {
		t.Errorf("Recent = %+v", recent)
	}
	if recent[0].Sequence <= recent[1].Sequence {
		t.Error("Recent not newest first")
	}
}

func TestJournalPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.JournalRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.Append(ctx, JournalEntry{SessionID: "n", Kind: fmt.Sprintf("k%d", i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Prune(ctx, 10); err != nil {
		t.Fatalf("prune (no-op): %v", err)
	}
	if err := repo.Prune(ctx, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}
	all, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("after prune len = %d, want 2", len(all))
	}
	if all[0].Kind != "k4" || all[1].Kind != "k3" {
		t.Errorf("kept %s, %s; want k4, k3", all[0].Kind, all[1].Kind)
	}
}

func TestSettings_Setup(t *testing.T) {
	s := openTestStore(t)
	repo := s.SettingsRepo()
	ctx := context.Background()

	got, err := repo.LastSetup(ctx)
	if err != nil {
		t.Fatalf("LastSetup (empty): %v", err)
	}
	if got != nil {
		t.Fatalf("LastSetup = %+v, want nil", got)
	}

	first := Setup{Mode: SetupTarget, Hour: 6, Minute: 45, Meridiem: "AM", Cycles: 5}
	if err := repo.SaveSetup(ctx, first); err != nil {
		t.Fatalf("SaveSetup: %v", err)
	}
	second := Setup{Mode: SetupSleepNow, Hour: 6, Minute: 45, Meridiem: "AM", Cycles: 4}
	if err := repo.SaveSetup(ctx, second); err != nil {
		t.Fatalf("SaveSetup overwrite: %v", err)
	}
	got, err = repo.LastSetup(ctx)
	if err != nil {
		t.Fatalf("LastSetup: %v", err)
	}
	if got == nil || *got != second {
		t.Errorf("LastSetup = %+v, want %+v", got, second)
	}
}

func TestSettings_LastWakeAndReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.SettingsRepo()
	ctx := context.Background()

	at := time.Date(2024, 3, 11, 6, 30, 0, 0, time.UTC)
	if err := repo.SetLastWake(ctx, at); err != nil {
		t.Fatal(err)
	}
	got, err := repo.LastWake(ctx)
	if err != nil || !got.Equal(at) {
		t.Errorf("LastWake = %v, %v; want %v", got, err, at)
	}
	if _, err := s.JournalRepo().Append(ctx, JournalEntry{SessionID: "x", Kind: "started"}); err != nil {
		t.Fatal(err)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	got, err = repo.LastWake(ctx)
	if err != nil || !got.IsZero() {
		t.Errorf("LastWake after reset = %v, %v", got, err)
	}
	entries, err := s.JournalRepo().Recent(ctx, 0)
	if err != nil || len(entries) != 0 {
		t.Errorf("journal after reset = %d entries, %v", len(entries), err)
	}
	if seq, _ := s.seq.Next(ctx); seq != 1 {
		t.Errorf("sequence after reset = %d, want 1", seq)
	}
}

func TestLLMRequests(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku", Purpose: "coach", SessionID: "night-2",
		InputTokens: 120, OutputTokens: 40, LatencyMs: 350, Success: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku", Purpose: "coach", ErrorMessage: "rate limited",
	}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.RecentLLMRequests(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Success || got[0].ErrorMessage != "rate limited" {
		t.Errorf("newest = %+v", got[0])
	}
	if !got[1].Success || got[1].InputTokens != 120 || got[1].SessionID != "night-2" {
		t.Errorf("oldest = %+v", got[1])
	}
}

func TestJournalObserver_RecordsSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	obs := NewJournalObserver(s.JournalRepo(), nil)

	start := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	m := session.New(
		session.WithObserver(obs),
		session.WithIDGenerator(func() string { return "night-7" }),
	)
	if err := m.Start(start, nil, 1); err != nil {
		t.Fatal(err)
	}
	m.Tick(start.Add(6 * time.Minute))
	if _, err := m.WakeUp(start.Add(20 * time.Minute)); err != nil {
		t.Fatal(err)
	}

	entries, err := s.JournalRepo().BySession(context.Background(), "night-7")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) < 3 {
		t.Fatalf("entries = %d, want at least 3", len(entries))
	}
	if entries[0].Kind != string(session.EventStarted) {
		t.Errorf("first = %s, want started", entries[0].Kind)
	}
	last := entries[len(entries)-1]
	if last.Kind != string(session.EventCompleted) {
		t.Errorf("last = %s, want completed", last.Kind)
	}
	if last.Elapsed != 1200 {
		t.Errorf("completed elapsed = %d, want 1200", last.Elapsed)
	}
	var sawStage bool
	for _, e := range entries {
		if e.Kind == string(session.EventStageChanged) && e.Stage == stage.Light.String() {
			sawStage = true
		}
	}
	if !sawStage {
		t.Error("no stage_changed to Light recorded")
	}
}
