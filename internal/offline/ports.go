// Package offline provides deterministic stand-in ports so the engine can
// run end to end without vendor adapters: dry runs, demos, and the
// reference CLI. Real deployments plug LLM and market-data adapters into
// the same interfaces.
package offline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/quantora/councilgo/internal/ports"
)

// Inference echoes a deterministic, hold-leaning response shaped by the
// role's system prompt. No randomness: identical prompts yield identical
// text.
type Inference struct{}

func (Inference) Complete(_ context.Context, msgs []*schema.Message, binding ports.ModelBinding) (string, error) {
	role := "participant"
	if len(msgs) > 0 {
		role = headline(msgs[0].Content)
	}
	return fmt.Sprintf(
		"[offline %s] Speaking as %s: the available material is mixed and conviction is limited. "+
			"Momentum signals are balanced and no catalyst stands out, so the prudent course is to hold and wait for fresh data.",
		binding.Model, role), nil
}

// Retrieval returns a synthetic snapshot for any category.
type Retrieval struct {
	Now func() time.Time
}

func (r Retrieval) Fetch(_ context.Context, ticker, date string, category ports.Category) (*ports.Snapshot, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return &ports.Snapshot{
		Ticker:   ticker,
		Date:     date,
		Category: category,
		Content:  fmt.Sprintf("Synthetic %s data for %s as of %s. No live provider is configured.", category, ticker, date),
		AsOf:     now(),
	}, nil
}

func headline(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".\n"); i > 0 {
		s = s[:i]
	}
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
