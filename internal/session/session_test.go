package session

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecentRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	r := Run{
		ID:              NewID(),
		SourcePath:      "nat.st",
		SourceHash:      "abc123",
		StartedAt:       time.Now().Truncate(time.Second),
		DiagnosticCount: 0,
		Iterations:      3,
	}
	if err := store.Record(r); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != r.ID || runs[0].SourcePath != r.SourcePath {
		t.Fatalf("expected recorded run to round-trip, got %+v", runs[0])
	}
}

func TestNewIDProducesDistinctValues(t *testing.T) {
	if NewID() == NewID() {
		t.Fatalf("expected distinct session ids")
	}
}
