package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"domainscout/internal/search"
)

// writeJSON prints value as indented JSON.
func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// renderTable draws a bordered table.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

// renderCandidates renders the ranked results of a search.
func renderCandidates(result search.SearchResult) string {
	rows := make([][]string, 0, len(result.Candidates))
	for i, cand := range result.Candidates {
		premium := ""
		if cand.Pricing.Premium {
			premium = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cand.Domain,
			fmt.Sprintf("$%.2f", cand.Pricing.USD),
			strconv.FormatInt(cand.Pricing.PlatformAmount, 10),
			premium,
			strconv.Itoa(cand.Metadata.Length),
			strconv.Itoa(cand.Metadata.Readability),
			strconv.Itoa(cand.Metadata.Brandability),
		})
	}
	return renderTable([]string{"#", "Domain", "USD", "Units", "Premium", "Len", "Read", "Brand"}, rows)
}

// printSearchResult writes the ranked table followed by skipped domains.
func printSearchResult(w io.Writer, result search.SearchResult) {
	fmt.Fprintf(w, "Search %q: %d found in %dms\n", result.Query, result.TotalFound, result.SearchTimeMs)
	if len(result.Candidates) > 0 {
		fmt.Fprintln(w, renderCandidates(result))
	}
	for _, skipped := range result.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", skipped.Domain, skipped.Reason)
	}
}

// plainProgress prints one line per finished candidate.
type plainProgress struct {
	w io.Writer
}

func (p plainProgress) OnSearchStart(query string, domains []string) {
	fmt.Fprintf(p.w, "Searching %d domains for %q\n", len(domains), query)
}

func (p plainProgress) OnCandidate(event search.CandidateEvent) {
	if event.Stage == search.StageChecking {
		return
	}
	line := fmt.Sprintf("[%d/%d] %s %s", event.Index+1, event.Total, event.Domain, event.Stage)
	if event.Reason != "" {
		line += ": " + event.Reason
	}
	fmt.Fprintln(p.w, line)
}

func (p plainProgress) OnSearchEnd(search.SearchResult, error) {}
