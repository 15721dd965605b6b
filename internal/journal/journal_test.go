package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	root := t.TempDir()
	j, err := OpenAt(root)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	defer j.Close()

	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(DefaultFile))); err != nil {
		t.Errorf("journal file not created: %v", err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	fixed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	for _, op := range []string{"new", "promote", "fix"} {
		if err := j.Record(op, "req_001_x", "detail for "+op); err != nil {
			t.Fatalf("Record %s: %v", op, err)
		}
	}

	events, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Most recent first.
	if events[0].Op != "fix" || events[1].Op != "promote" {
		t.Errorf("order = %s, %s", events[0].Op, events[1].Op)
	}
	if events[0].At != "2026-08-25T12:00:00Z" {
		t.Errorf("At = %q", events[0].At)
	}
}

func TestRecent_DefaultLimit(t *testing.T) {
	j := openTestJournal(t)
	for i := 0; i < 25; i++ {
		if err := j.Record("new", "req_001_x", ""); err != nil {
			t.Fatal(err)
		}
	}
	events, err := j.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 20 {
		t.Errorf("got %d events, want default limit 20", len(events))
	}
}

func TestHistory_FiltersByRefOldestFirst(t *testing.T) {
	j := openTestJournal(t)
	if err := j.Record("new", "req_001_a", ""); err != nil {
		t.Fatal(err)
	}
	if err := j.Record("new", "req_002_b", ""); err != nil {
		t.Fatal(err)
	}
	if err := j.Record("promote", "req_001_a", "to item_001_a"); err != nil {
		t.Fatal(err)
	}

	events, err := j.History("req_001_a")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Op != "new" || events[1].Op != "promote" {
		t.Errorf("order = %s, %s", events[0].Op, events[1].Op)
	}
	if events[1].Detail != "to item_001_a" {
		t.Errorf("Detail = %q", events[1].Detail)
	}
}

func TestHistory_UnknownRefEmpty(t *testing.T) {
	j := openTestJournal(t)
	events, err := j.History("req_099_ghost")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %v, want none", events)
	}
}
