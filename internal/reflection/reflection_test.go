package reflection

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/shopspring/decimal"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/config"
	"github.com/quantora/councilgo/internal/memory"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/ports"
)

type stubInference struct {
	reply string
	err   error
	calls int
}

func (s *stubInference) Complete(context.Context, []*schema.Message, ports.ModelBinding) (string, error) {
	s.calls++
	return s.reply, s.err
}

func completedResult(runID, action string) *models.RunResult {
	state := models.NewAgentState("AAPL", "2024-05-10", []string{consts.MarketAnalyst}, time.Now())
	_ = state.SetReport(consts.MarketAnalyst, "market looks steady with modest volume")
	state.FinalVerdict = &models.Verdict{
		Role:      consts.RiskJudge,
		Decision:  action,
		Rationale: "Momentum and fundamentals both point the same way. Position sizing stays moderate.",
	}
	state.Freeze()
	return &models.RunResult{RunID: runID, State: state, Status: models.StatusCompleted}
}

func TestReflectIsIdempotentPerRun(t *testing.T) {
	store := memory.NewStore()
	engine := New(&stubInference{reply: "Lesson: trust the trend."}, store, config.DefaultConfig())
	res := completedResult("run-1", models.ActionBuy)
	outcome := Outcome{Horizon: "7d", RealizedReturn: decimal.NewFromFloat(0.05)}

	first, err := engine.Reflect(context.Background(), res, outcome)
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	second, err := engine.Reflect(context.Background(), res, outcome)
	if err != nil {
		t.Fatalf("Reflect (second): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("record ID must be stable per run, got %s vs %s", first.ID, second.ID)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one retrievable record, store holds %d", store.Len())
	}
}

func TestConsistencyClassification(t *testing.T) {
	cases := []struct {
		action   string
		realized string
		want     bool
	}{
		{models.ActionBuy, "0.05", true},
		{models.ActionBuy, "-0.03", false},
		{models.ActionSell, "-0.04", true},
		{models.ActionSell, "0.02", false},
		{models.ActionHold, "0.01", true},
		{models.ActionHold, "-0.015", true},
		{models.ActionHold, "0.08", false},
	}
	for _, tc := range cases {
		realized, _ := decimal.NewFromString(tc.realized)
		if got := Consistent(tc.action, realized); got != tc.want {
			t.Fatalf("Consistent(%s, %s) = %v, want %v", tc.action, tc.realized, got, tc.want)
		}
	}
}

func TestLessonFallsBackWhenModelFails(t *testing.T) {
	stub := &stubInference{err: fmt.Errorf("model down")}
	engine := New(stub, memory.NewStore(), config.DefaultConfig())
	res := completedResult("run-2", models.ActionSell)

	rec, err := engine.Reflect(context.Background(), res, Outcome{
		Horizon:        "7d",
		RealizedReturn: decimal.NewFromFloat(0.04),
	})
	if err != nil {
		t.Fatalf("Reflect must not fail because the model did: %v", err)
	}
	if stub.calls == 0 {
		t.Fatalf("the model should have been asked first")
	}
	if !strings.Contains(rec.Lesson, "contradicted") {
		t.Fatalf("fallback lesson should note the inconsistency, got %q", rec.Lesson)
	}
	if !strings.Contains(rec.Outcome, "inconsistent") {
		t.Fatalf("outcome text should classify the result, got %q", rec.Outcome)
	}
}

func TestReflectRejectsRunsWithoutVerdict(t *testing.T) {
	engine := New(nil, memory.NewStore(), config.DefaultConfig())
	state := models.NewAgentState("AAPL", "2024-05-10", nil, time.Now())
	res := &models.RunResult{RunID: "run-3", State: state, Status: models.StatusFailed}

	if _, err := engine.Reflect(context.Background(), res, Outcome{}); err == nil {
		t.Fatalf("a run without a final verdict cannot be reflected")
	}
}
