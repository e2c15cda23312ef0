package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quantora/councilgo/internal/models"
)

func rec(id, situation string) models.MemoryRecord {
	return models.MemoryRecord{
		ID:        id,
		RunID:     "run-" + id,
		Situation: situation,
		Decision:  models.ActionHold,
		Lesson:    "lesson " + id,
		CreatedAt: time.Now(),
	}
}

func TestQueryReturnsMostSimilarFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Append(ctx, rec("a", "AAPL earnings beat with resilient demand"))
	_ = s.Append(ctx, rec("b", "TSLA deliveries miss amid price cuts"))
	_ = s.Append(ctx, rec("c", "AAPL demand weak despite earnings beat"))

	got, err := s.Query(ctx, "AAPL earnings beat and resilient demand", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected topK=2 records, got %d", len(got))
	}
	if got[0].ID != "a" {
		t.Fatalf("most similar record should come first, got %s", got[0].ID)
	}
	for _, r := range got {
		if r.ID == "b" {
			t.Fatalf("the unrelated record should rank last and fall outside topK")
		}
	}
}

func TestAppendIgnoresDuplicateIDs(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Append(ctx, rec("x", "situation one"))
	_ = s.Append(ctx, rec("x", "situation two"))
	if s.Len() != 1 {
		t.Fatalf("duplicate ID should be ignored, store holds %d", s.Len())
	}
}

func TestQueryClampsTopK(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Append(ctx, rec("only", "a single situation"))

	got, err := s.Query(ctx, "a single situation", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got, _ := s.Query(ctx, "anything", 0); got != nil {
		t.Fatalf("topK=0 should return nothing")
	}
}

func TestConcurrentAppendAndQuery(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.Append(ctx, rec(fmt.Sprintf("r%d", i), fmt.Sprintf("situation number %d", i)))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = s.Query(ctx, "situation", 3)
		}()
	}
	wg.Wait()
	if s.Len() != 20 {
		t.Fatalf("expected 20 records, got %d", s.Len())
	}
}

func TestSimilarityBounds(t *testing.T) {
	if got := Similarity("", "anything at all"); got != 0 {
		t.Fatalf("empty text has zero similarity, got %f", got)
	}
	if got := Similarity("apple banana cherry", "apple banana cherry"); got != 1 {
		t.Fatalf("identical texts should score 1, got %f", got)
	}
	mid := Similarity("apple banana cherry", "apple banana grape")
	if mid <= 0 || mid >= 1 {
		t.Fatalf("partial overlap should land strictly between 0 and 1, got %f", mid)
	}
}
