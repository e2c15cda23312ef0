package graph

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quantora/councilgo/internal/agents"
	"github.com/quantora/councilgo/internal/models"
)

// debateSpec describes one bounded round-robin debate: the participants
// in fixed speaking order, the round cap, the optional convergence
// predicate, and the state section the transcript is appended to.
type debateSpec struct {
	name         string
	participants []agents.Executor
	maxRounds    int
	converged    ConvergedFn
	section      *[]models.TranscriptEntry
}

// runDebate runs rounds 1..maxRounds strictly in turn order: each entry
// is appended to the owning section before the next speaker runs, so a
// participant always sees every earlier contribution of the same round
// and all prior rounds. A participant that fails after retry contributes
// a neutral placeholder; the debate never aborts on a participant.
func (e *Engine) runDebate(ctx context.Context, p agents.Ports, state *models.AgentState, spec debateSpec, log zerolog.Logger) {
	for round := 1; round <= spec.maxRounds; round++ {
		for _, ex := range spec.participants {
			if ctx.Err() != nil {
				// The engine's phase-boundary check turns this into a
				// cancelled run; stop speaking turns immediately.
				return
			}

			content := agents.NoNewArgument
			contrib, err := e.invokeWithRetry(ctx, p, state, ex, log)
			if err != nil {
				log.Warn().Err(err).Str("debate", spec.name).Str("role", ex.Role()).Int("round", round).
					Msg("participant failed after retry, substituting placeholder")
				state.AddWarning("%s debate: %s failed in round %d: %v", spec.name, ex.Role(), round, err)
			} else {
				content = contrib.Content
			}

			*spec.section = append(*spec.section, models.TranscriptEntry{
				Round:   round,
				Role:    ex.Role(),
				Content: content,
			})
		}

		if spec.converged != nil && round < spec.maxRounds && spec.converged(round, *spec.section) {
			log.Info().Str("debate", spec.name).Int("round", round).Msg("debate converged early")
			return
		}
	}
}
