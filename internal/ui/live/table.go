package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"domainscout/internal/search"
)

// defaultColumns returns the column layout for an 80 column terminal.
func defaultColumns() []table.Column {
	return columnsForWidth(80)
}

// columnsForWidth gives the domain and status columns whatever width is left.
func columnsForWidth(width int) []table.Column {
	const fixed = 4 + 18 + 6 + 6 + 8 + 6
	flexible := max(width-fixed-14, 24)
	domainWidth := flexible * 2 / 5
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Domain", Width: domainWidth},
		{Title: "Status", Width: flexible - domainWidth},
		{Title: "Price", Width: 18},
		{Title: "Read", Width: 6},
		{Title: "Brand", Width: 6},
		{Title: "Time", Width: 8},
		{Title: "Waits", Width: 6},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatIndex(row.Index),
			row.Domain,
			formatStatus(row, noColor),
			formatPrice(row),
			formatScore(row, readability),
			formatScore(row, brandability),
			formatRowDuration(row, now),
			formatWaits(row.WaitCount),
		})
	}
	return rows
}

func readability(meta search.CandidateMetadata) int { return meta.Readability }
func brandability(meta search.CandidateMetadata) int { return meta.Brandability }

// PlainRows renders the table cells for state without styling.
func PlainRows(state State, now time.Time) [][]string {
	rows := rowsForState(state, now, true)
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = []string(row)
	}
	return out
}
