// Package ports defines the capability contracts the decision graph
// consumes. Concrete transports (LLM vendor clients, market data
// providers, durable memory stores) live behind these interfaces and are
// supplied by the caller.
package ports

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/quantora/councilgo/internal/models"
)

// ModelBinding selects which model serves a role's completion call.
type ModelBinding struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

// InferencePort is one chat completion against a reasoning model.
type InferencePort interface {
	Complete(ctx context.Context, msgs []*schema.Message, binding ModelBinding) (string, error)
}

// Category selects which slice of market context a retrieval returns.
type Category string

const (
	CategoryPriceSeries  Category = "price-series"
	CategoryFundamentals Category = "fundamentals"
	CategoryNews         Category = "news"
	CategorySocial       Category = "social"
)

// Snapshot is retrieved market context. Stale snapshots are usable with a
// caveat, not errors: the analyst annotates rather than fails.
type Snapshot struct {
	Ticker   string    `json:"ticker"`
	Date     string    `json:"date"`
	Category Category  `json:"category"`
	Content  string    `json:"content"`
	Stale    bool      `json:"stale"`
	AsOf     time.Time `json:"as_of"`
}

// RetrievalPort fetches market/news/fundamental context for one
// instrument and date.
type RetrievalPort interface {
	Fetch(ctx context.Context, ticker, date string, category Category) (*Snapshot, error)
}

// MemoryPort is the lesson store shared across runs. Query returns the
// most similar records first; an empty result is valid. Append must
// ignore a record whose ID is already present and be safe for concurrent
// callers from different runs.
type MemoryPort interface {
	Query(ctx context.Context, situation string, topK int) ([]models.MemoryRecord, error)
	Append(ctx context.Context, rec models.MemoryRecord) error
}
