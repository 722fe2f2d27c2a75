package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the search header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Search " + state.Query
	if elapsed := elapsedFor(state, now); elapsed != "" {
		line += " | Elapsed: " + elapsed
	}
	if state.Finished {
		line += " | finished"
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// elapsedFor stops the clock once the search has ended.
func elapsedFor(state State, now time.Time) string {
	if state.StartedAt.IsZero() {
		return ""
	}
	end := now
	if state.Finished && !state.EndedAt.IsZero() {
		end = state.EndedAt
	}
	return end.Sub(state.StartedAt).Round(100 * time.Millisecond).String()
}

// renderSummary renders the stage counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Queued: " + fmtInt(counts.Queued) +
		" Checking: " + fmtInt(counts.Checking) +
		" Waiting: " + fmtInt(counts.Waiting) +
		" Done: " + fmtInt(counts.Done) +
		" Available: " + fmtInt(counts.Accepted) +
		" Skipped: " + fmtInt(counts.Skipped) +
		" Failed: " + fmtInt(counts.Failed)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
