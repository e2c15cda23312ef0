package agents

import (
	"context"
	"fmt"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/processing"
)

// Trader turns the research verdict into a concrete proposal for the risk
// team. Memory-augmented like the researchers.
type Trader struct{}

func NewTrader() *Trader { return &Trader{} }

func (t *Trader) Role() string { return consts.Trader }

func (t *Trader) Execute(ctx context.Context, state *models.AgentState, p Ports) (Contribution, error) {
	stance := models.StanceNeutral
	rationale := "(no research verdict available)"
	if state.ResearchVerdict != nil {
		stance = state.ResearchVerdict.Decision
		rationale = state.ResearchVerdict.Rationale
	}

	lessons := recallLessons(ctx, p, situationOf(state))
	if lessons == "" {
		lessons = "(no comparable past situations on record)"
	}

	msgs, err := buildMessages(ctx, traderSystem, traderUser, map[string]any{
		"stance":    stance,
		"rationale": rationale,
		"reports":   reportsSection(state),
		"lessons":   lessons,
	})
	if err != nil {
		return Contribution{Role: consts.Trader}, err
	}

	out, err := complete(ctx, p, consts.Trader, true, msgs)
	if err != nil {
		return Contribution{Role: consts.Trader}, fmt.Errorf("%s: %w", consts.Trader, err)
	}
	return Contribution{Role: consts.Trader, Content: out}, nil
}

// PlanFrom converts the trader's prose into the structured proposal the
// risk phase reads.
func PlanFrom(c Contribution) *models.TraderPlan {
	return &models.TraderPlan{
		Action:    processing.ExtractAction(c.Content),
		Rationale: c.Content,
	}
}
