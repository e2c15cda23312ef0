package reflection

import (
	"context"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/quantora/councilgo/internal/models"
)

const lessonSystem = `You are reviewing a past trading decision now that the outcome is known. Write one short lesson a future analyst of a similar situation should keep in mind. Be specific about what the decision rationale got right or wrong; do not restate the outcome.`

const lessonUser = `Decision: {decision} on {ticker} ({date})
Rationale: {rationale}
Realized return over {horizon}: {realized}
Outcome was {verdict_fit} with the decision.

Write the lesson.`

func buildLessonPrompt(ctx context.Context, res *models.RunResult, outcome Outcome, consistent bool) ([]*schema.Message, error) {
	fit := "inconsistent"
	if consistent {
		fit = "consistent"
	}
	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage(lessonSystem),
		schema.UserMessage(lessonUser),
	)
	return tpl.Format(ctx, map[string]any{
		"decision":    res.State.FinalVerdict.Decision,
		"ticker":      res.State.Ticker,
		"date":        res.State.TradeDate,
		"rationale":   truncate(res.State.FinalVerdict.Rationale, 2000),
		"horizon":     outcome.Horizon,
		"realized":    formatReturn(outcome.RealizedReturn),
		"verdict_fit": fit,
	})
}
