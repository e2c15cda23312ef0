// Package agents holds the role executors: stateless behaviors that read a
// slice of the shared state, call out through the capability ports, and
// return one contribution. Retry policy lives with the orchestrator; every
// helper here makes exactly one attempt under the configured timeout.
package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/quantora/councilgo/internal/config"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/ports"
)

// NoNewArgument is substituted for a debate participant that failed after
// retry. The debate continues around it.
const NoNewArgument = "(no new argument)"

// Contribution is the output of one executor invocation. Judges also fill
// in the structured Verdict.
type Contribution struct {
	Role    string
	Content string
	Verdict *models.Verdict
}

// Ports bundles the capability ports and the run configuration an
// executor needs. Executors must not retain it past their invocation.
type Ports struct {
	Inference ports.InferencePort
	Retrieval ports.RetrievalPort
	Memory    ports.MemoryPort
	Config    *config.Config
}

// Executor is the single contract all roles implement. Execute is
// deterministic given identical inputs and identical port responses.
type Executor interface {
	Role() string
	Execute(ctx context.Context, state *models.AgentState, p Ports) (Contribution, error)
}

// complete makes one completion attempt under the configured timeout. A
// blank response counts as invalid: the orchestrator's retry policy
// treats it like any other port failure.
func complete(ctx context.Context, p Ports, role string, deep bool, msgs []*schema.Message) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, p.Config.CallTimeout)
	defer cancel()

	out, err := p.Inference.Complete(cctx, msgs, p.Config.BindingFor(role, deep))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &ports.InferenceError{Kind: ports.InferenceTimeout, Err: err}
		}
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", &ports.InferenceError{Kind: ports.InferenceInvalidResponse}
	}
	return out, nil
}

// fetchSnapshot makes one retrieval attempt under the configured timeout.
func fetchSnapshot(ctx context.Context, p Ports, ticker, date string, category ports.Category) (*ports.Snapshot, error) {
	cctx, cancel := context.WithTimeout(ctx, p.Config.CallTimeout)
	defer cancel()

	snap, err := p.Retrieval.Fetch(cctx, ticker, date, category)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ports.RetrievalError{Kind: ports.RetrievalUnavailable, Err: err}
		}
		return nil, err
	}
	if snap == nil {
		return nil, &ports.RetrievalError{Kind: ports.RetrievalUnavailable}
	}
	return snap, nil
}

// recallLessons queries the memory store for past lessons matching the
// current situation. Best effort: a failed lookup or an empty result both
// yield no lessons and never fail the executor.
func recallLessons(ctx context.Context, p Ports, situation string) string {
	if p.Memory == nil {
		return ""
	}
	cctx, cancel := context.WithTimeout(ctx, p.Config.CallTimeout)
	defer cancel()

	recs, err := p.Memory.Query(cctx, situation, p.Config.MemoryTopK)
	if err != nil || len(recs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, rec := range recs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Lesson)
	}
	return b.String()
}

// situationOf is the retrieval key for memory lookups: the grounded
// analyst reports joined into one situation summary.
func situationOf(state *models.AgentState) string {
	grounded := state.GroundedReports()
	if len(grounded) == 0 {
		return fmt.Sprintf("%s on %s: no grounded analyst reports", state.Ticker, state.TradeDate)
	}
	return strings.Join(grounded, "\n\n")
}

// formatTranscript renders debate history for a prompt.
func formatTranscript(entries []models.TranscriptEntry) string {
	if len(entries) == 0 {
		return "(the debate has not started)"
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "[round %d] %s: %s\n", e.Round, e.Role, e.Content)
	}
	return b.String()
}

// reportsSection renders the analyst reports for a prompt, flagging the
// case where nothing grounded is available so the role says so instead of
// inventing data.
func reportsSection(state *models.AgentState) string {
	var b strings.Builder
	for _, name := range state.AnalystOrder {
		report, ok := state.Reports[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n%s\n\n", name, report)
	}
	if len(state.GroundedReports()) == 0 {
		b.WriteString("NOTE: no analyst report is available. State explicitly that grounding is insufficient.\n")
	}
	return b.String()
}
