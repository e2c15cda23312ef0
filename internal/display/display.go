// Package display renders a run result for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quantora/councilgo/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	verdictStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 2)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))
)

// Render formats the full decision chain of one run.
func Render(res *models.RunResult) string {
	var b strings.Builder
	state := res.State

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s — %s", state.Ticker, state.TradeDate)))
	b.WriteString(fmt.Sprintf("\nrun %s  status %s", res.RunID, res.Status))
	if res.Failure != models.FailureNone {
		b.WriteString("  " + failStyle.Render(string(res.Failure)))
	}
	b.WriteString("\n\n")

	if state.FinalVerdict != nil {
		b.WriteString(verdictStyle.Render(fmt.Sprintf("FINAL: %s (confidence %.2f)",
			state.FinalVerdict.Decision, state.FinalVerdict.Confidence)))
		b.WriteString("\n\n")
	}

	b.WriteString(sectionStyle.Render("Analyst reports") + "\n")
	for _, name := range state.AnalystOrder {
		report, ok := state.Reports[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s: %s\n", name, clip(report, 160))
	}
	b.WriteString("\n")

	writeDebate(&b, "Research debate", state.ResearchDebate)
	if state.ResearchVerdict != nil {
		fmt.Fprintf(&b, "  verdict: %s — %s\n\n", state.ResearchVerdict.Decision, clip(state.ResearchVerdict.Rationale, 160))
	}

	if state.TraderPlan != nil {
		b.WriteString(sectionStyle.Render("Trader proposal") + "\n")
		fmt.Fprintf(&b, "  %s — %s\n\n", state.TraderPlan.Action, clip(state.TraderPlan.Rationale, 160))
	}

	writeDebate(&b, "Risk discussion", state.RiskDebate)
	if state.FinalVerdict != nil {
		fmt.Fprintf(&b, "  verdict: %s — %s\n\n", state.FinalVerdict.Decision, clip(state.FinalVerdict.Rationale, 160))
	}

	if len(state.Warnings) > 0 {
		b.WriteString(sectionStyle.Render("Warnings") + "\n")
		for _, w := range state.Warnings {
			b.WriteString("  " + warnStyle.Render(w) + "\n")
		}
	}

	return b.String()
}

func writeDebate(b *strings.Builder, title string, entries []models.TranscriptEntry) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render(title) + "\n")
	for _, e := range entries {
		fmt.Fprintf(b, "  [r%d] %s: %s\n", e.Round, e.Role, clip(e.Content, 140))
	}
	b.WriteString("\n")
}

func clip(s string, n int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
