// Package graph drives one decision run through the fixed phase sequence:
// analysts fan out in parallel, the research debate and risk discussion
// run strictly in turn order, judges close each debate, and the frozen
// state comes back as the run result. The engine performs no I/O of its
// own; every external effect goes through the capability ports.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantora/councilgo/internal/agents"
	"github.com/quantora/councilgo/internal/config"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/ports"
)

// Phase enumerates the engine's states. Transitions are unconditional
// except inside the two debate phases, whose rounds are bounded by
// configuration.
type Phase string

const (
	PhaseAnalysts       Phase = "analysts"
	PhaseResearchDebate Phase = "research_debate"
	PhaseResearchJudge  Phase = "research_judge"
	PhaseTrader         Phase = "trader"
	PhaseRiskDebate     Phase = "risk_debate"
	PhaseRiskJudge      Phase = "risk_judge"
	PhaseDone           Phase = "done"
	PhaseFailed         Phase = "failed"
)

// ConvergedFn is an optional early-termination predicate checked after
// each debate round. The default is none: debates run their full round
// cap.
type ConvergedFn func(round int, transcript []models.TranscriptEntry) bool

// Engine owns the shared state for the duration of one Run call and
// holds nothing across calls.
type Engine struct {
	inference ports.InferencePort
	retrieval ports.RetrievalPort
	memory    ports.MemoryPort

	log zerolog.Logger
	now func() time.Time

	researchConverged ConvergedFn
	riskConverged     ConvergedFn
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides the engine clock, used by tests and backtests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithResearchConvergence installs an early-termination predicate for the
// bull/bear debate.
func WithResearchConvergence(fn ConvergedFn) Option {
	return func(e *Engine) { e.researchConverged = fn }
}

// WithRiskConvergence installs an early-termination predicate for the
// risk discussion.
func WithRiskConvergence(fn ConvergedFn) Option {
	return func(e *Engine) { e.riskConverged = fn }
}

func New(inference ports.InferencePort, retrieval ports.RetrievalPort, memory ports.MemoryPort, opts ...Option) *Engine {
	e := &Engine{
		inference: inference,
		retrieval: retrieval,
		memory:    memory,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the full pipeline for one ticker and trade date. The
// returned result carries the frozen state and terminal status; an error
// is returned only for invalid input.
func (e *Engine) Run(ctx context.Context, ticker, tradeDate string, cfg *config.Config) (*models.RunResult, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if ticker == "" {
		return nil, fmt.Errorf("ticker must not be empty")
	}
	date, err := time.Parse("2006-01-02", tradeDate)
	if err != nil {
		return nil, fmt.Errorf("invalid trade date %q: %w", tradeDate, err)
	}
	if date.After(e.now()) {
		return nil, fmt.Errorf("trade date %s is in the future", tradeDate)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	state := models.NewAgentState(ticker, tradeDate, cfg.EnabledAnalysts, e.now())
	p := agents.Ports{
		Inference: e.inference,
		Retrieval: e.retrieval,
		Memory:    e.memory,
		Config:    cfg,
	}
	log := e.log.With().Str("run_id", runID).Str("ticker", ticker).Str("date", tradeDate).Logger()

	phase := PhaseAnalysts
	failure := models.FailureNone

	for phase != PhaseDone && phase != PhaseFailed {
		if ctx.Err() != nil {
			log.Warn().Str("phase", string(phase)).Msg("run cancelled")
			state.AddWarning("cancelled during %s phase", phase)
			failure = models.FailureCancelled
			phase = PhaseFailed
			break
		}

		log.Info().Str("phase", string(phase)).Msg("phase started")
		switch phase {
		case PhaseAnalysts:
			if e.runAnalysts(ctx, p, state, log) {
				phase = PhaseResearchDebate
			} else {
				failure = models.FailureInsufficientGrounding
				if ctx.Err() != nil {
					failure = models.FailureCancelled
				}
				phase = PhaseFailed
			}

		case PhaseResearchDebate:
			e.runDebate(ctx, p, state, debateSpec{
				name:         "research",
				participants: []agents.Executor{agents.NewBullResearcher(), agents.NewBearResearcher()},
				maxRounds:    cfg.MaxDebateRounds,
				converged:    e.researchConverged,
				section:      &state.ResearchDebate,
			}, log)
			phase = PhaseResearchJudge

		case PhaseResearchJudge:
			contrib, err := e.invokeWithRetry(ctx, p, state, agents.NewResearchManager(), log)
			if err != nil || contrib.Verdict == nil {
				log.Error().Err(err).Msg("research manager produced no verdict")
				state.AddWarning("research manager produced no verdict")
				failure = models.FailurePhase
				phase = PhaseFailed
				break
			}
			state.ResearchVerdict = contrib.Verdict
			phase = PhaseTrader

		case PhaseTrader:
			contrib, err := e.invokeWithRetry(ctx, p, state, agents.NewTrader(), log)
			if err != nil {
				log.Error().Err(err).Msg("trader produced no proposal")
				state.AddWarning("trader produced no proposal")
				failure = models.FailurePhase
				phase = PhaseFailed
				break
			}
			state.TraderPlan = agents.PlanFrom(contrib)
			phase = PhaseRiskDebate

		case PhaseRiskDebate:
			e.runDebate(ctx, p, state, debateSpec{
				name:         "risk",
				participants: []agents.Executor{agents.NewRiskyAnalyst(), agents.NewSafeAnalyst(), agents.NewNeutralAnalyst()},
				maxRounds:    cfg.MaxRiskDiscussRounds,
				converged:    e.riskConverged,
				section:      &state.RiskDebate,
			}, log)
			phase = PhaseRiskJudge

		case PhaseRiskJudge:
			contrib, err := e.invokeWithRetry(ctx, p, state, agents.NewRiskJudge(), log)
			if err != nil || contrib.Verdict == nil {
				log.Error().Err(err).Msg("risk judge produced no verdict")
				state.AddWarning("risk judge produced no verdict")
				failure = models.FailurePhase
				phase = PhaseFailed
				break
			}
			state.FinalVerdict = contrib.Verdict
			phase = PhaseDone
		}
	}

	state.Freeze()

	status := models.StatusCompleted
	switch {
	case phase == PhaseFailed:
		status = models.StatusFailed
	case len(state.Warnings) > 0:
		status = models.StatusPartial
	}

	log.Info().Str("status", string(status)).Int("warnings", len(state.Warnings)).Msg("run finished")
	return &models.RunResult{
		RunID:   runID,
		State:   state,
		Status:  status,
		Failure: failure,
	}, nil
}

type analystOutcome struct {
	name    string
	contrib agents.Contribution
	err     error
}

// runAnalysts fans out every enabled analyst concurrently and joins on
// all of them. Analyst sections are disjoint, so results are collected
// over a channel and written in configured order once the barrier is
// passed. Returns false only when zero analysts produced a report.
func (e *Engine) runAnalysts(ctx context.Context, p agents.Ports, state *models.AgentState, log zerolog.Logger) bool {
	enabled := make([]agents.Executor, 0, len(state.AnalystOrder))
	for _, name := range state.AnalystOrder {
		ex, ok := agents.ByName(name)
		if !ok {
			// Config.Validate rejects unknown names before this point.
			continue
		}
		enabled = append(enabled, ex)
	}

	results := make(chan analystOutcome, len(enabled))
	for _, ex := range enabled {
		go func(ex agents.Executor) {
			contrib, err := e.invokeWithRetry(ctx, p, state, ex, log)
			results <- analystOutcome{name: ex.Role(), contrib: contrib, err: err}
		}(ex)
	}

	byName := make(map[string]analystOutcome, len(enabled))
	for range enabled {
		r := <-results
		byName[r.name] = r
	}

	succeeded := 0
	for _, name := range state.AnalystOrder {
		r, ok := byName[name]
		if !ok {
			continue
		}
		if r.err != nil {
			log.Warn().Err(r.err).Str("analyst", name).Msg("analyst failed, recording placeholder")
			state.AddWarning("analyst %s failed: %v", name, r.err)
			_ = state.SetReport(name, models.ReportUnavailable)
			continue
		}
		_ = state.SetReport(name, r.contrib.Content)
		succeeded++
	}
	return succeeded > 0
}

// invokeWithRetry applies the shared call-site policy: one retry with the
// same inputs, never retrying past caller cancellation.
func (e *Engine) invokeWithRetry(ctx context.Context, p agents.Ports, state *models.AgentState, ex agents.Executor, log zerolog.Logger) (agents.Contribution, error) {
	var (
		contrib agents.Contribution
		err     error
	)
	for attempt := 0; attempt <= p.Config.MaxRetries; attempt++ {
		contrib, err = ex.Execute(ctx, state, p)
		if err == nil {
			return contrib, nil
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < p.Config.MaxRetries {
			log.Warn().Err(err).Str("role", ex.Role()).Int("attempt", attempt+1).Msg("role failed, retrying")
		}
	}
	return contrib, err
}
