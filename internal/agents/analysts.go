package agents

import (
	"context"
	"fmt"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/models"
	"github.com/quantora/councilgo/internal/ports"
)

// Analyst is one member of the analyst team. The four variants differ in
// the retrieval category they draw on and the focus of their report.
type Analyst struct {
	name     string
	category ports.Category
	focus    string
}

func NewMarketAnalyst() *Analyst {
	return &Analyst{name: consts.MarketAnalyst, category: ports.CategoryPriceSeries, focus: "market analyst reading price action and technical structure"}
}

func NewSocialMediaAnalyst() *Analyst {
	return &Analyst{name: consts.SocialMediaAnalyst, category: ports.CategorySocial, focus: "social media analyst reading retail sentiment"}
}

func NewNewsAnalyst() *Analyst {
	return &Analyst{name: consts.NewsAnalyst, category: ports.CategoryNews, focus: "news analyst reading headlines and macro events"}
}

func NewFundamentalsAnalyst() *Analyst {
	return &Analyst{name: consts.FundamentalsAnalyst, category: ports.CategoryFundamentals, focus: "fundamentals analyst reading financials and valuation"}
}

// ByName returns the analyst executor for a configured analyst name.
func ByName(name string) (*Analyst, bool) {
	switch name {
	case consts.MarketAnalyst:
		return NewMarketAnalyst(), true
	case consts.SocialMediaAnalyst:
		return NewSocialMediaAnalyst(), true
	case consts.NewsAnalyst:
		return NewNewsAnalyst(), true
	case consts.FundamentalsAnalyst:
		return NewFundamentalsAnalyst(), true
	}
	return nil, false
}

func (a *Analyst) Role() string { return a.name }

// Execute fetches the analyst's data category and writes a report over
// it. A retrieval failure fails the executor; a stale snapshot is usable
// with a caveat the model is told about.
func (a *Analyst) Execute(ctx context.Context, state *models.AgentState, p Ports) (Contribution, error) {
	snap, err := fetchSnapshot(ctx, p, state.Ticker, state.TradeDate, a.category)
	if err != nil {
		return Contribution{Role: a.name}, fmt.Errorf("%s: %w", a.name, err)
	}

	data := snap.Content
	if snap.Stale {
		data = fmt.Sprintf("CAUTION: this data is stale (as of %s). Qualify conclusions accordingly.\n\n%s",
			snap.AsOf.Format("2006-01-02 15:04"), snap.Content)
	}

	msgs, err := buildMessages(ctx, analystSystem, analystUser, map[string]any{
		"focus":    a.focus,
		"ticker":   state.Ticker,
		"date":     state.TradeDate,
		"category": string(a.category),
		"data":     data,
	})
	if err != nil {
		return Contribution{Role: a.name}, err
	}

	out, err := complete(ctx, p, a.name, false, msgs)
	if err != nil {
		return Contribution{Role: a.name}, fmt.Errorf("%s: %w", a.name, err)
	}
	return Contribution{Role: a.name, Content: out}, nil
}
