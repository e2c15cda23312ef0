package agents

import (
	"context"
	"fmt"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/processing"
)

// ResearchManager judges the bull/bear debate and commits to a stance.
type ResearchManager struct{}

func NewResearchManager() *ResearchManager { return &ResearchManager{} }

func (m *ResearchManager) Role() string { return consts.ResearchManager }

func (m *ResearchManager) Execute(ctx context.Context, state *models.AgentState, p Ports) (Contribution, error) {
	msgs, err := buildMessages(ctx, researchManagerSystem, researchManagerUser, map[string]any{
		"reports": reportsSection(state),
		"history": formatTranscript(state.ResearchDebate),
	})
	if err != nil {
		return Contribution{Role: consts.ResearchManager}, err
	}

	out, err := complete(ctx, p, consts.ResearchManager, true, msgs)
	if err != nil {
		return Contribution{Role: consts.ResearchManager}, fmt.Errorf("%s: %w", consts.ResearchManager, err)
	}

	stance := processing.ExtractStance(out)
	return Contribution{
		Role:    consts.ResearchManager,
		Content: out,
		Verdict: &models.Verdict{
			Role:       consts.ResearchManager,
			Decision:   stance,
			Rationale:  out,
			Confidence: processing.Confidence(out, stance),
		},
	}, nil
}

// RiskJudge has final authority: it closes the risk discussion with the
// run's BUY/SELL/HOLD decision.
type RiskJudge struct{}

func NewRiskJudge() *RiskJudge { return &RiskJudge{} }

func (j *RiskJudge) Role() string { return consts.RiskJudge }

func (j *RiskJudge) Execute(ctx context.Context, state *models.AgentState, p Ports) (Contribution, error) {
	action := models.ActionHold
	rationale := "(no trader proposal available)"
	if state.TraderPlan != nil {
		action = state.TraderPlan.Action
		rationale = state.TraderPlan.Rationale
	}

	msgs, err := buildMessages(ctx, riskJudgeSystem, riskJudgeUser, map[string]any{
		"action":    action,
		"rationale": rationale,
		"history":   formatTranscript(state.RiskDebate),
	})
	if err != nil {
		return Contribution{Role: consts.RiskJudge}, err
	}

	out, err := complete(ctx, p, consts.RiskJudge, true, msgs)
	if err != nil {
		return Contribution{Role: consts.RiskJudge}, fmt.Errorf("%s: %w", consts.RiskJudge, err)
	}

	final := processing.ExtractAction(out)
	return Contribution{
		Role:    consts.RiskJudge,
		Content: out,
		Verdict: &models.Verdict{
			Role:       consts.RiskJudge,
			Decision:   final,
			Rationale:  out,
			Confidence: processing.Confidence(out, final),
		},
	}, nil
}
