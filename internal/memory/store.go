// Package memory provides the in-process reference implementation of the
// memory port, plus the token-overlap similarity used by both it and the
// sqlite-backed adapter. Good enough for tests, the offline CLI, and
// single-host runs; a vector store belongs behind the same interface.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/quantora/councilgo/internal/models"
)

// Store is an append-only, concurrency-safe in-process lesson store.
type Store struct {
	mu   sync.RWMutex
	recs []models.MemoryRecord
	seen map[string]bool
}

func NewStore() *Store {
	return &Store{seen: make(map[string]bool)}
}

// Append adds a record, ignoring IDs already present.
func (s *Store) Append(_ context.Context, rec models.MemoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[rec.ID] {
		return nil
	}
	s.seen[rec.ID] = true
	s.recs = append(s.recs, rec)
	return nil
}

// Query returns up to topK records, most similar to the situation first.
func (s *Store) Query(_ context.Context, situation string, topK int) ([]models.MemoryRecord, error) {
	if topK <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		rec   models.MemoryRecord
		score float64
	}
	candidates := make([]scored, 0, len(s.recs))
	for _, rec := range s.recs {
		candidates = append(candidates, scored{rec: rec, score: Similarity(situation, rec.Situation)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rec.CreatedAt.After(candidates[j].rec.CreatedAt)
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	out := make([]models.MemoryRecord, 0, topK)
	for _, c := range candidates[:topK] {
		out = append(out, c.rec)
	}
	return out, nil
}

// Len reports how many records the store holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// Similarity scores token overlap between two texts in [0, 1].
func Similarity(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

func tokens(s string) map[string]bool {
	out := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,;:!?()[]\"'")
		if len(f) > 2 {
			out[f] = true
		}
	}
	return out
}
