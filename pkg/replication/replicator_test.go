package replication

import (
	"context"
	"testing"
	"time"

	"voice-journal/pkg/db"
	"voice-journal/pkg/domain"
)

func openMemory(t *testing.T) *db.SQLiteStore {
	t.Helper()
	s, err := db.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestReplicator_CopiesAndSkipsExisting(t *testing.T) {
	ctx := context.Background()
	source := openMemory(t)
	target := openMemory(t)

	created := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	for _, title := range []string{"one", "two", "three"} {
		if err := source.CreateJournal(ctx, &domain.Journal{Title: title, CreatedAt: created}); err != nil {
			t.Fatalf("seed journal: %v", err)
		}
	}
	start := created.Add(time.Hour)
	if err := source.CreateTask(ctx, &domain.Task{Title: "call", StartTime: start, EndTime: start.Add(time.Hour)}); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	// One journal already exists in the target.
	journals, err := source.ListJournals(ctx, 0)
	if err != nil {
		t.Fatalf("ListJournals failed: %v", err)
	}
	dup := journals[0]
	if err := target.CreateJournal(ctx, &dup); err != nil {
		t.Fatalf("seed target: %v", err)
	}

	r, err := NewReplicator(Config{Source: source, Target: target, Workers: 2})
	if err != nil {
		t.Fatalf("NewReplicator failed: %v", err)
	}
	res, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.JournalsRead != 3 || res.JournalsInserted != 2 {
		t.Errorf("journals: got %+v", res)
	}
	if res.TasksRead != 1 || res.TasksInserted != 1 {
		t.Errorf("tasks: got %+v", res)
	}

	copied, err := target.ListJournals(ctx, 0)
	if err != nil {
		t.Fatalf("ListJournals failed: %v", err)
	}
	if len(copied) != 3 {
		t.Fatalf("expected 3 journals in target, got %d", len(copied))
	}

	// A second run inserts nothing.
	res, err = r.Run(ctx)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if res.JournalsInserted != 0 || res.TasksInserted != 0 {
		t.Errorf("expected idempotent second run, got %+v", res)
	}
}

func TestNewReplicator_RequiresStores(t *testing.T) {
	if _, err := NewReplicator(Config{}); err == nil {
		t.Error("expected error without stores")
	}
	if _, err := NewReplicator(Config{Source: openMemory(t)}); err == nil {
		t.Error("expected error without target")
	}
}
