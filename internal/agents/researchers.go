package agents

import (
	"context"
	"fmt"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/models"
)

// Researcher argues one side of the investment debate. Memory-augmented:
// it recalls lessons from similar past situations before speaking.
type Researcher struct {
	name   string
	stance string
}

func NewBullResearcher() *Researcher {
	return &Researcher{name: consts.BullResearcher, stance: "bull"}
}

func NewBearResearcher() *Researcher {
	return &Researcher{name: consts.BearResearcher, stance: "bear"}
}

func (r *Researcher) Role() string { return r.name }

func (r *Researcher) Execute(ctx context.Context, state *models.AgentState, p Ports) (Contribution, error) {
	lessons := recallLessons(ctx, p, situationOf(state))
	if lessons == "" {
		lessons = "(no comparable past situations on record)"
	}

	msgs, err := buildMessages(ctx, researcherSystem, researcherUser, map[string]any{
		"stance":  r.stance,
		"ticker":  state.Ticker,
		"reports": reportsSection(state),
		"history": formatTranscript(state.ResearchDebate),
		"lessons": lessons,
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
