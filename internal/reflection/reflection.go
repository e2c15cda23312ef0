// Package reflection turns a finished run plus its realized outcome into
// a persisted lesson. It runs out of band, after the horizon has passed
// and the actual price move is known.
package reflection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quantora/councilgo/internal/config"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/ports"
)

// Outcome is the realized result observed after a run's decision, as a
// fractional return over the stated horizon (0.05 means +5%).
type Outcome struct {
	Horizon        string          `json:"horizon"`
	RealizedReturn decimal.Decimal `json:"realized_return"`
}

// holdBand is the move size within which a HOLD counts as vindicated.
var holdBand = decimal.NewFromFloat(0.02)

// Engine generates and persists memory records. The lesson narrative is
// model-written when the inference port cooperates and synthesized
// locally when it does not; reflection never fails because the model did.
type Engine struct {
	inference ports.InferencePort
	memory    ports.MemoryPort
	cfg       *config.Config
	now       func() time.Time
}

func New(inference ports.InferencePort, memory ports.MemoryPort, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Engine{inference: inference, memory: memory, cfg: cfg, now: time.Now}
}

// Reflect compares the run's final verdict against the observed outcome
// and appends the lesson to the memory store. The record ID is derived
// from the run ID, so reflecting the same run twice leaves exactly one
// retrievable record.
func (e *Engine) Reflect(ctx context.Context, res *models.RunResult, outcome Outcome) (*models.MemoryRecord, error) {
	if res == nil || res.State == nil {
		return nil, fmt.Errorf("reflect: nil run result")
	}
	if res.State.FinalVerdict == nil {
		return nil, fmt.Errorf("reflect: run %s has no final verdict", res.RunID)
	}

	action := res.State.FinalVerdict.Decision
	consistent := Consistent(action, outcome.RealizedReturn)

	outcomeText := fmt.Sprintf("%s over %s; decision %s was %s", formatReturn(outcome.RealizedReturn),
		outcome.Horizon, action, map[bool]string{true: "consistent", false: "inconsistent"}[consistent])

	rec := models.MemoryRecord{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("reflection:"+res.RunID)).String(),
		RunID:     res.RunID,
		Situation: fingerprint(res.State),
		Decision:  action,
		Outcome:   outcomeText,
		Lesson:    e.lesson(ctx, res, outcome, consistent),
		CreatedAt: e.now(),
	}

	if e.memory != nil {
		if err := e.memory.Append(ctx, rec); err != nil {
			return nil, fmt.Errorf("reflect: append memory: %w", err)
		}
	}
	return &rec, nil
}

// Consistent reports whether an action agreed with the realized move. A
// HOLD is consistent while the move stays inside the hold band.
func Consistent(action string, realized decimal.Decimal) bool {
	switch action {
	case models.ActionBuy:
		return realized.IsPositive()
	case models.ActionSell:
		return realized.IsNegative()
	default:
		return realized.Abs().LessThanOrEqual(holdBand)
	}
}

func (e *Engine) lesson(ctx context.Context, res *models.RunResult, outcome Outcome, consistent bool) string {
	if e.inference != nil {
		msgs, err := buildLessonPrompt(ctx, res, outcome, consistent)
		if err == nil {
			cctx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
			out, err := e.inference.Complete(cctx, msgs, e.cfg.DeepThink)
			cancel()
			if err == nil && strings.TrimSpace(out) != "" {
				return out
			}
		}
	}
	return fallbackLesson(res, outcome, consistent)
}

func fallbackLesson(res *models.RunResult, outcome Outcome, consistent bool) string {
	verdict := res.State.FinalVerdict
	if consistent {
		return fmt.Sprintf("The %s decision on %s was vindicated by a realized move of %s. The deciding rationale held up: %s",
			verdict.Decision, res.State.Ticker, formatReturn(outcome.RealizedReturn), firstSentence(verdict.Rationale))
	}
	return fmt.Sprintf("The %s decision on %s was contradicted by a realized move of %s. Revisit the weight given to: %s",
		verdict.Decision, res.State.Ticker, formatReturn(outcome.RealizedReturn), firstSentence(verdict.Rationale))
}

// fingerprint is the minimal situation summary future runs use for
// similarity lookup: ticker, date, and the leading slice of each report.
func fingerprint(state *models.AgentState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", state.Ticker, state.TradeDate)
	for _, name := range state.AnalystOrder {
		report, ok := state.Reports[name]
		if !ok || report == models.ReportUnavailable {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", name, truncate(report, 200))
	}
	return b.String()
}

func formatReturn(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".\n"); i > 0 {
		return s[:i+1]
	}
	return truncate(s, 200)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
