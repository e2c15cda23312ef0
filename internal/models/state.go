package models

import (
	"fmt"
	"time"
)

// ReportUnavailable is recorded for an analyst whose executor failed after
// retry. Downstream roles see it and note the missing grounding instead of
// aborting.
const ReportUnavailable = "(analysis unavailable: the analyst did not produce a report)"

// TranscriptEntry is one turn of a debate. Entries are ordered by round,
// then by the fixed speaker order within the round.
type TranscriptEntry struct {
	Round   int    `json:"round"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AgentState is the single shared record threaded through one run. Each
// phase appends to the sections it owns and reads the sections written by
// earlier phases; a written section is never modified afterwards. The
// engine is the only component that holds the state across phases.
type AgentState struct {
	Ticker    string `json:"ticker"`
	TradeDate string `json:"trade_date"`

	// Analyst reports in enabled-analyst order. Each report is written
	// exactly once, by its own analyst's fan-out task.
	AnalystOrder []string          `json:"analyst_order"`
	Reports      map[string]string `json:"reports"`

	ResearchDebate  []TranscriptEntry `json:"research_debate"`
	ResearchVerdict *Verdict          `json:"research_verdict,omitempty"`

	TraderPlan *TraderPlan `json:"trader_plan,omitempty"`

	RiskDebate   []TranscriptEntry `json:"risk_debate"`
	FinalVerdict *Verdict          `json:"final_verdict,omitempty"`

	// Non-fatal trouble recorded along the way (failed analysts, retried
	// participants, degraded data).
	Warnings []string `json:"warnings,omitempty"`

	StartedAt time.Time `json:"started_at"`

	frozen bool
}

func NewAgentState(ticker, tradeDate string, analysts []string, now time.Time) *AgentState {
	order := make([]string, len(analysts))
	copy(order, analysts)
	return &AgentState{
		Ticker:       ticker,
		TradeDate:    tradeDate,
		AnalystOrder: order,
		Reports:      make(map[string]string, len(order)),
		StartedAt:    now,
	}
}

// SetReport records an analyst report. Reports are write-once.
func (s *AgentState) SetReport(analyst, report string) error {
	if s.frozen {
		return fmt.Errorf("state is frozen")
	}
	if _, ok := s.Reports[analyst]; ok {
		return fmt.Errorf("report for %s already written", analyst)
	}
	s.Reports[analyst] = report
	return nil
}

// GroundedReports returns the reports that are not the unavailable
// placeholder, in analyst order.
func (s *AgentState) GroundedReports() []string {
	out := make([]string, 0, len(s.AnalystOrder))
	for _, name := range s.AnalystOrder {
		if r, ok := s.Reports[name]; ok && r != ReportUnavailable {
			out = append(out, r)
		}
	}
	return out
}

func (s *AgentState) AddWarning(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// Freeze marks the state immutable. Called by the engine once the final
// verdict is in (or the run failed); the frozen state is what RunResult
// carries back to the caller.
func (s *AgentState) Freeze() { s.frozen = true }

func (s *AgentState) Frozen() bool { return s.frozen }
