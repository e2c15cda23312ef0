// Package processing extracts structured decisions from judge prose. The
// verdict enums are closed; free text from the model is scored against
// keyword patterns and the strongest signal wins.
package processing

import (
	"regexp"
	"strings"

	"github.com/quantora/councilgo/internal/models"
)

// SignalProcessor scores decision text against predefined patterns.
type SignalProcessor struct {
	patterns map[string][]*regexp.Regexp
}

// NewSignalProcessor creates a processor with patterns for both the
// trading actions and the research stances.
func NewSignalProcessor() *SignalProcessor {
	return &SignalProcessor{
		patterns: map[string][]*regexp.Regexp{
			models.ActionBuy: {
				regexp.MustCompile(`(?i)\b(buy|purchase|long|accumulate|invest)\b`),
				regexp.MustCompile(`(?i)\b(strong buy|buy recommendation|enter a position)\b`),
			},
			models.ActionSell: {
				regexp.MustCompile(`(?i)\b(sell|short|exit|divest|liquidate)\b`),
				regexp.MustCompile(`(?i)\b(strong sell|sell recommendation|close the position)\b`),
			},
			models.ActionHold: {
				regexp.MustCompile(`(?i)\b(hold|maintain|wait|stay put|no action)\b`),
			},
			models.StanceBullish: {
				regexp.MustCompile(`(?i)\b(bullish|upside|undervalued|growth potential|opportunity)\b`),
			},
			models.StanceBearish: {
				regexp.MustCompile(`(?i)\b(bearish|downside|overvalued|deteriorating|decline)\b`),
			},
			models.StanceNeutral: {
				regexp.MustCompile(`(?i)\b(neutral|mixed|balanced|uncertain|inconclusive)\b`),
			},
		},
	}
}

func (sp *SignalProcessor) score(text, label string) int {
	n := 0
	for _, pat := range sp.patterns[label] {
		n += len(pat.FindAllString(text, -1))
	}
	return n
}

// ExtractAction picks BUY, SELL, or HOLD from decision text. Ties and
// silence default to HOLD.
func (sp *SignalProcessor) ExtractAction(text string) string {
	text = strings.ToLower(text)
	buy, sell := sp.score(text, models.ActionBuy), sp.score(text, models.ActionSell)
	hold := sp.score(text, models.ActionHold)
	if buy > sell && buy > hold {
		return models.ActionBuy
	}
	if sell > buy && sell > hold {
		return models.ActionSell
	}
	return models.ActionHold
}

// ExtractStance picks BULLISH, BEARISH, or NEUTRAL from research text.
func (sp *SignalProcessor) ExtractStance(text string) string {
	text = strings.ToLower(text)
	bull, bear := sp.score(text, models.StanceBullish), sp.score(text, models.StanceBearish)
	neutral := sp.score(text, models.StanceNeutral)
	if bull > bear && bull > neutral {
		return models.StanceBullish
	}
	if bear > bull && bear > neutral {
		return models.StanceBearish
	}
	return models.StanceNeutral
}

// Confidence estimates how strongly the text supports the chosen label,
// as the density of matching signal words. Clamped to [0.1, 1.0].
func (sp *SignalProcessor) Confidence(text, label string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0.1
	}
	conf := float64(sp.score(strings.ToLower(text), label)) / float64(words) * 10
	if conf > 1.0 {
		conf = 1.0
	}
	if conf < 0.1 {
		conf = 0.1
	}
	return conf
}

var defaultProcessor = NewSignalProcessor()

func ExtractAction(text string) string { return defaultProcessor.ExtractAction(text) }

func ExtractStance(text string) string { return defaultProcessor.ExtractStance(text) }

func Confidence(text, label string) float64 { return defaultProcessor.Confidence(text, label) }
