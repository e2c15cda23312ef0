package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantora/councilgo/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndQueryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := models.MemoryRecord{
		ID:        "rec-1",
		RunID:     "run-1",
		Situation: "AAPL rallying on strong earnings",
		Decision:  models.ActionBuy,
		Outcome:   "+5.00% over 7d; decision BUY was consistent",
		Lesson:    "Earnings-driven momentum tends to persist for a week.",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := s.Query(ctx, "AAPL strong earnings rally", 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rec-1" {
		t.Fatalf("expected the stored record back, got %+v", got)
	}
	if got[0].Lesson != rec.Lesson {
		t.Fatalf("lesson did not round-trip: %q", got[0].Lesson)
	}
}

func TestAppendIgnoresDuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := models.MemoryRecord{ID: "dup", RunID: "run-2", Situation: "one", Decision: models.ActionHold, CreatedAt: time.Now()}
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	rec.Situation = "two"
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("Append (duplicate): %v", err)
	}

	got, err := s.Query(ctx, "one", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("duplicate ID must be ignored, got %d records", len(got))
	}
	if got[0].Situation != "one" {
		t.Fatalf("first write wins, got %q", got[0].Situation)
	}
}

func TestQueryRanksBySimilarity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recs := []models.MemoryRecord{
		{ID: "close", RunID: "r1", Situation: "NVDA surging on datacenter demand growth", CreatedAt: time.Now()},
		{ID: "far", RunID: "r2", Situation: "utility dividend stocks drifting sideways", CreatedAt: time.Now()},
	}
	for _, r := range recs {
		r.Decision = models.ActionHold
		if err := s.Append(ctx, r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := s.Query(ctx, "NVDA datacenter demand keeps surging", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 || got[0].ID != "close" {
		t.Fatalf("expected the similar record first, got %+v", got)
	}
}
