package agents

import (
	"context"
	"fmt"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/models"
)

// RiskDebater is one voice in the three-way risk discussion: aggressive,
// conservative, or neutral.
type RiskDebater struct {
	name        string
	temperament string
	slant       string
}

func NewRiskyAnalyst() *RiskDebater {
	return &RiskDebater{
		name:        consts.RiskyAnalyst,
		temperament: "aggressive",
		slant:       "Push for upside capture; challenge excessive caution with concrete reward arguments.",
	}
}

func NewSafeAnalyst() *RiskDebater {
	return &RiskDebater{
		name:        consts.SafeAnalyst,
		temperament: "conservative",
		slant:       "Protect capital first; surface tail risks and downside scenarios the proposal glosses over.",
	}
}

func NewNeutralAnalyst() *RiskDebater {
	return &RiskDebater{
		name:        consts.NeutralAnalyst,
		temperament: "neutral",
		slant:       "Balance both sides; call out where either the aggressive or conservative case overreaches.",
	}
}

func (r *RiskDebater) Role() string { return r.name }

func (r *RiskDebater) Execute(ctx context.Context, state *models.AgentState, p Ports) (Contribution, error) {
	action := models.ActionHold
	rationale := "(no trader proposal available)"
	if state.TraderPlan != nil {
		action = state.TraderPlan.Action
		rationale = state.TraderPlan.Rationale
	}

	msgs, err := buildMessages(ctx, riskDebaterSystem, riskDebaterUser, map[string]any{
		"temperament": r.temperament,
		"slant":       r.slant,
		"ticker":      state.Ticker,
		"action":      action,
		"rationale":   rationale,
		"history":     formatTranscript(state.RiskDebate),
	})
	if err != nil {
		return Contribution{Role: r.name}, err
	}

	out, err := complete(ctx, p, r.name, false, msgs)
	if err != nil {
		return Contribution{Role: r.name}, fmt.Errorf("%s: %w", r.name, err)
	}
	return Contribution{Role: r.name, Content: out}, nil
}
