// Package sqlite is the durable memory-port adapter. Similarity ranking
// happens in process after loading candidates; the table exists so
// lessons survive across processes, not to push search into SQL.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quantora/councilgo/internal/memory"
	"github.com/quantora/councilgo/internal/models"
)

type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and
// ensures the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS memory_records (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	situation  TEXT NOT NULL,
	decision   TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	lesson     TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memory_run_id ON memory_records(run_id);
`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// Append inserts a record, silently ignoring an ID already present.
func (s *Store) Append(ctx context.Context, rec models.MemoryRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO memory_records (id, run_id, situation, decision, outcome, lesson, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RunID, rec.Situation, rec.Decision, rec.Outcome, rec.Lesson,
		rec.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append memory record: %w", err)
	}
	return nil
}

// Query loads all records and ranks them by situation similarity.
func (s *Store) Query(ctx context.Context, situation string, topK int) ([]models.MemoryRecord, error) {
	if topK <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, run_id, situation, decision, outcome, lesson, created_at
FROM memory_records`)
	if err != nil {
		return nil, fmt.Errorf("query memory records: %w", err)
	}
	defer rows.Close()

	type scored struct {
		rec   models.MemoryRecord
		score float64
	}
	var candidates []scored
	for rows.Next() {
		var rec models.MemoryRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Situation, &rec.Decision, &rec.Outcome, &rec.Lesson, &createdAt); err != nil {
			return nil, fmt.Errorf("scan memory record: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		candidates = append(candidates, scored{rec: rec, score: memory.Similarity(situation, rec.Situation)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
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
