package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pickchess.db")
	s, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return s, path
}

// reopen closes s, which flushes queued writes, and opens the same file again
func reopen(t *testing.T, s *Store, path string) *Store {
	t.Helper()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	s2, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s2.Close() })
	return s2
}

func TestRecordAndQueryResults(t *testing.T) {
	s, path := newTestStore(t)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.RecordGameStart(GameRecord{GameID: "g1", Round: 1, StartTimeUTC: start})
	s.RecordGameStart(GameRecord{GameID: "g1", Round: 2, StartTimeUTC: start.Add(time.Hour)})
	s.RecordGameStart(GameRecord{GameID: "g2", Round: 1, StartTimeUTC: start})
	s.RecordResult(ResultRecord{
		GameID: "g1", Round: 1, Winner: "w", Termination: TerminationKingCaptured,
		Moves: 7, WhiteCaptured: "pawn,king", EndTimeUTC: start.Add(10 * time.Minute),
	})
	s.RecordResult(ResultRecord{
		GameID: "g2", Round: 1, Winner: "", Termination: TerminationEnded,
		Moves: 2, EndTimeUTC: start.Add(20 * time.Minute),
	})

	s = reopen(t, s, path)

	all, err := s.QueryResults("*", "")
	if err != nil {
		t.Fatalf("QueryResults: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d results, want 2", len(all))
	}
	// newest first
	if all[0].GameID != "g2" || all[1].GameID != "g1" {
		t.Errorf("order = %s, %s", all[0].GameID, all[1].GameID)
	}

	won, err := s.QueryResults("", "w")
	if err != nil {
		t.Fatalf("QueryResults: %v", err)
	}
	if len(won) != 1 {
		t.Fatalf("got %d white wins, want 1", len(won))
	}
	r := won[0]
	if r.GameID != "g1" || r.Round != 1 || r.Moves != 7 || r.WhiteCaptured != "pawn,king" {
		t.Errorf("unexpected record %+v", r)
	}
	if !r.StartTimeUTC.Equal(start) {
		t.Errorf("start time = %v, want %v", r.StartTimeUTC, start)
	}
}

func TestRecordResultUpserts(t *testing.T) {
	s, path := newTestStore(t)
	now := time.Now().UTC()

	s.RecordGameStart(GameRecord{GameID: "g1", Round: 1, StartTimeUTC: now})
	s.RecordResult(ResultRecord{GameID: "g1", Round: 1, Termination: TerminationEnded, EndTimeUTC: now})
	s.RecordResult(ResultRecord{GameID: "g1", Round: 1, Winner: "b", Termination: TerminationKingCaptured, Moves: 4, EndTimeUTC: now})

	s = reopen(t, s, path)
	got, err := s.QueryResults("g1", "*")
	if err != nil {
		t.Fatalf("QueryResults: %v", err)
	}
	if len(got) != 1 || got[0].Winner != "b" || got[0].Moves != 4 {
		t.Fatalf("got %+v", got)
	}
	if !s.IsHealthy() {
		t.Error("store degraded")
	}
}

func TestResultWithoutStartDegrades(t *testing.T) {
	s, _ := newTestStore(t)
	t.Cleanup(func() { s.Close() })

	s.RecordResult(ResultRecord{GameID: "orphan", Round: 1, Termination: TerminationEnded, EndTimeUTC: time.Now()})

	deadline := time.Now().Add(2 * time.Second)
	for s.IsHealthy() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsHealthy() {
		t.Fatal("foreign key violation did not degrade the store")
	}
	// degraded store drops writes without error
	if err := s.RecordGameStart(GameRecord{GameID: "g", Round: 1}); err != nil {
		t.Errorf("RecordGameStart on degraded store: %v", err)
	}
}

func TestDeleteDB(t *testing.T) {
	s, path := newTestStore(t)
	if err := s.DeleteDB(); err != nil {
		t.Fatalf("DeleteDB: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database file still present: %v", err)
	}
}

func TestOpen(t *testing.T) {
	a, err := Open("", "", false)
	if err != nil || a != nil {
		t.Fatalf("Open with nothing configured = %v, %v", a, err)
	}

	a, err = Open("", filepath.Join(t.TempDir(), "open.db"), false)
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer a.Close()
	if _, ok := a.(*Store); !ok {
		t.Errorf("Open returned %T, want *Store", a)
	}
}

func TestNewPGArchiveRequiresURL(t *testing.T) {
	if _, err := NewPGArchive("  "); err == nil {
		t.Error("expected error for empty database url")
	}
}
