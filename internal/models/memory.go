package models

import "time"

// MemoryRecord is a persisted lesson from a past run. Records are
// append-only: created once by the reflection engine, read by future runs
// through similarity lookup, never mutated. ID is derived from the run
// identifier so re-reflecting the same run is a no-op at the store.
type MemoryRecord struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Situation string    `json:"situation"`
	Decision  string    `json:"decision"`
	Outcome   string    `json:"outcome"`
	Lesson    string    `json:"lesson"`
	CreatedAt time.Time `json:"created_at"`
}
