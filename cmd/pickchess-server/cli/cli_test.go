package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pickchess/internal/storage"
)

func TestInitQueryDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	var out bytes.Buffer

	if err := run([]string{"init", "-path", path}, &out); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out.String(), "Database initialized at: "+path) {
		t.Errorf("init output = %q", out.String())
	}

	out.Reset()
	if err := run([]string{"query", "-path", path}, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(out.String(), "No results found") {
		t.Errorf("empty query output = %q", out.String())
	}

	// Close flushes the async writer
	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.RecordGameStart(storage.GameRecord{GameID: "0123456789abcdef", Round: 1, StartTimeUTC: start})
	store.RecordResult(storage.ResultRecord{
		GameID: "0123456789abcdef", Round: 1, Winner: "b",
		Termination: storage.TerminationKingCaptured, Moves: 6,
		EndTimeUTC: start.Add(5 * time.Minute),
	})
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out.Reset()
	if err := run([]string{"query", "-path", path, "-winner", "b"}, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	for _, want := range []string{"01234567...", storage.TerminationKingCaptured, "2026-03-01 12:05:00", "Found 1 result(s)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("query output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := run([]string{"query", "-path", path, "-winner", "w"}, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(out.String(), "No results found") {
		t.Errorf("filtered query output = %q", out.String())
	}

	if err := run([]string{"delete", "-path", path}, &out); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database file still present: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	tests := [][]string{
		nil,
		{"bogus"},
		{"init"},
		{"query", "-path"},
	}
	for _, args := range tests {
		if err := run(args, &out); err == nil {
			t.Errorf("run(%v) succeeded", args)
		}
	}
}
