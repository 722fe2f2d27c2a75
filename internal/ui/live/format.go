package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"domainscout/internal/search"
)

// formatIndex formats a row index.
func formatIndex(index int) string {
	return pad2(index + 1)
}

// pad2 left-pads a number to two digits when needed.
func pad2(value int) string {
	if value >= 10 {
		return fmtInt(value)
	}
	return "0" + fmtInt(value)
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatStatus renders a status string for a row.
func formatStatus(row CandidateRow, noColor bool) string {
	return stylizeStatus(formatPrimaryStatus(row), row, noColor)
}

// formatPrimaryStatus renders the status text.
func formatPrimaryStatus(row CandidateRow) string {
	switch row.Stage {
	case "":
		return "queued"
	case search.StageChecking:
		if row.Waiting {
			if row.WaitFor > 0 {
				return "waiting rate limit (" + formatDuration(row.WaitFor) + ")"
			}
			return "waiting rate limit"
		}
		return "checking"
	case search.StageAccepted:
		return "available"
	case search.StageSkipped, search.StageFailed:
		if row.Reason != "" {
			return string(row.Stage) + ": " + row.Reason
		}
		return string(row.Stage)
	default:
		return string(row.Stage)
	}
}

// formatPrice renders USD and platform prices for accepted rows.
func formatPrice(row CandidateRow) string {
	if row.Candidate == nil {
		return ""
	}
	price := formatUSD(row.Candidate.Pricing.USD) + " / " + strconv.FormatInt(row.Candidate.Pricing.PlatformAmount, 10)
	if row.Candidate.Pricing.Premium {
		price += " *"
	}
	return price
}

// formatUSD renders a dollar amount.
func formatUSD(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', 2, 64)
}

// formatScore renders a score, blank when the row has no candidate.
func formatScore(row CandidateRow, score func(search.CandidateMetadata) int) string {
	if row.Candidate == nil {
		return ""
	}
	return fmtInt(score(row.Candidate.Metadata))
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row CandidateRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return row.FinishedAt.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	if !row.StartedAt.IsZero() {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}

// formatWaits formats rate-limit wait counts for display.
func formatWaits(waits int) string {
	if waits <= 0 {
		return ""
	}
	return fmtInt(waits)
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, row CandidateRow, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(row).Render(text)
}

// statusStyle selects a style for a row.
func statusStyle(row CandidateRow) lipgloss.Style {
	color := lipgloss.Color("246")
	switch row.Stage {
	case search.StageAccepted:
		color = lipgloss.Color("42")
	case search.StageSkipped:
		color = lipgloss.Color("220")
	case search.StageFailed:
		color = lipgloss.Color("196")
	case search.StageChecking:
		color = lipgloss.Color("33")
		if row.Waiting {
			color = lipgloss.Color("39")
		}
	}
	return lipgloss.NewStyle().Foreground(color)
}
