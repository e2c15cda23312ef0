package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/config"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/ports"
)

type captureInference struct {
	lastMsgs []*schema.Message
	reply    string
	err      error
}

func (c *captureInference) Complete(_ context.Context, msgs []*schema.Message, _ ports.ModelBinding) (string, error) {
	c.lastMsgs = msgs
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type scriptedRetrieval struct {
	snap *ports.Snapshot
	err  error
}

func (s *scriptedRetrieval) Fetch(context.Context, string, string, ports.Category) (*ports.Snapshot, error) {
	return s.snap, s.err
}

type erroringMemory struct{}

func (erroringMemory) Query(context.Context, string, int) ([]models.MemoryRecord, error) {
	return nil, fmt.Errorf("memory store unreachable")
}

func (erroringMemory) Append(context.Context, models.MemoryRecord) error {
	return fmt.Errorf("memory store unreachable")
}

func testPorts(inf *captureInference, ret *scriptedRetrieval, mem ports.MemoryPort) Ports {
	cfg := config.DefaultConfig()
	cfg.CallTimeout = 5 * time.Second
	return Ports{Inference: inf, Retrieval: ret, Memory: mem, Config: cfg}
}

func testState() *models.AgentState {
	return models.NewAgentState("AAPL", "2024-05-10", []string{consts.MarketAnalyst}, time.Now())
}

func TestAnalystAnnotatesStaleData(t *testing.T) {
	inf := &captureInference{reply: "report text"}
	ret := &scriptedRetrieval{snap: &ports.Snapshot{
		Category: ports.CategoryPriceSeries,
		Content:  "old candles",
		Stale:    true,
		AsOf:     time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC),
	}}

	_, err := NewMarketAnalyst().Execute(context.Background(), testState(), testPorts(inf, ret, nil))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	user := inf.lastMsgs[len(inf.lastMsgs)-1].Content
	if !strings.Contains(user, "CAUTION") || !strings.Contains(user, "old candles") {
		t.Fatalf("stale data must be passed through with a caveat, got %q", user)
	}
}

func TestAnalystFailsOnRetrievalError(t *testing.T) {
	inf := &captureInference{reply: "unused"}
	ret := &scriptedRetrieval{err: &ports.RetrievalError{Kind: ports.RetrievalUnavailable}}

	_, err := NewNewsAnalyst().Execute(context.Background(), testState(), testPorts(inf, ret, nil))
	if err == nil {
		t.Fatalf("a failed retrieval must fail the analyst")
	}
	if inf.lastMsgs != nil {
		t.Fatalf("no completion should be attempted without data")
	}
}

func TestResearcherSurvivesMemoryFailure(t *testing.T) {
	inf := &captureInference{reply: "bull argument"}
	state := testState()
	_ = state.SetReport(consts.MarketAnalyst, "steady uptrend on rising volume")

	contrib, err := NewBullResearcher().Execute(context.Background(), state, testPorts(inf, nil, erroringMemory{}))
	if err != nil {
		t.Fatalf("memory lookup is best effort, got %v", err)
	}
	if contrib.Content != "bull argument" {
		t.Fatalf("unexpected contribution %q", contrib.Content)
	}
	user := inf.lastMsgs[len(inf.lastMsgs)-1].Content
	if !strings.Contains(user, "no comparable past situations") {
		t.Fatalf("empty recall should be stated in the prompt, got %q", user)
	}
}

func TestBlankCompletionIsInvalid(t *testing.T) {
	inf := &captureInference{reply: "   "}
	state := testState()
	_ = state.SetReport(consts.MarketAnalyst, "report")

	_, err := NewBearResearcher().Execute(context.Background(), state, testPorts(inf, nil, nil))
	if err == nil {
		t.Fatalf("a blank completion must count as a failure")
	}
	var infErr *ports.InferenceError
	if !errors.As(err, &infErr) || infErr.Kind != ports.InferenceInvalidResponse {
		t.Fatalf("expected invalid_response, got %v", err)
	}
}

func TestJudgesProduceStructuredVerdicts(t *testing.T) {
	state := testState()
	_ = state.SetReport(consts.MarketAnalyst, "report")
	state.TraderPlan = &models.TraderPlan{Action: models.ActionBuy, Rationale: "buy the dip"}

	inf := &captureInference{reply: "The bullish case wins; upside dominates."}
	contrib, err := NewResearchManager().Execute(context.Background(), state, testPorts(inf, nil, nil))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if contrib.Verdict == nil || contrib.Verdict.Decision != models.StanceBullish {
		t.Fatalf("expected a BULLISH verdict, got %+v", contrib.Verdict)
	}

	inf = &captureInference{reply: "Final call: sell and exit the position."}
	contrib, err = NewRiskJudge().Execute(context.Background(), state, testPorts(inf, nil, nil))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if contrib.Verdict == nil || contrib.Verdict.Decision != models.ActionSell {
		t.Fatalf("expected a SELL verdict, got %+v", contrib.Verdict)
	}
	if contrib.Verdict.Confidence < 0.1 || contrib.Verdict.Confidence > 1.0 {
		t.Fatalf("confidence out of range: %f", contrib.Verdict.Confidence)
	}
}
