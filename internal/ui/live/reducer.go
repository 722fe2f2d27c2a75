package live

import (
	"fmt"
	"time"

	"domainscout/internal/search"
)

// Reduce applies an event to the UI state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventSearchStart:
		state = startSearch(event)
	case EventCandidate:
		state = ensureRow(state, event.Candidate.Index)
		state = applyCandidateEvent(state, event.Candidate)
	case EventRateLimitWait, EventRetry:
		state = applyWait(state, event)
	case EventSearchEnd:
		state.Finished = true
		state.EndedAt = event.At
		state.Found = event.Found
		state.Err = event.Err
	}
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// startSearch resets the state with one queued row per domain.
func startSearch(event Event) State {
	state := State{Query: event.Query, StartedAt: event.At}
	state.Rows = make([]CandidateRow, len(event.Domains))
	for i, domain := range event.Domains {
		state.Rows[i] = CandidateRow{Index: i, Domain: domain}
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, index int) State {
	if index < 0 || index < len(state.Rows) {
		return state
	}
	rows := make([]CandidateRow, index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = CandidateRow{Index: i}
	}
	state.Rows = rows
	return state
}

// applyCandidateEvent updates a row with the given event.
func applyCandidateEvent(state State, event search.CandidateEvent) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	if row.Domain == "" {
		row.Domain = event.Domain
	}
	row.Stage = event.Stage
	row.Reason = event.Reason
	row.Waiting = false
	if event.Stage == search.StageChecking {
		if row.StartedAt.IsZero() {
			row.StartedAt = event.At
		}
	} else {
		row.FinishedAt = event.At
		row.Candidate = event.Candidate
	}
	state.Rows[event.Index] = row
	return state
}

// applyWait marks the in-flight row as waiting on the upstream.
func applyWait(state State, event Event) State {
	index := activeRow(state.Rows)
	if index < 0 {
		return state
	}
	row := state.Rows[index]
	row.Waiting = true
	row.WaitCount++
	row.WaitFor = event.Wait
	state.Rows[index] = row
	return state
}

// activeRow returns the last row still being checked, or -1.
func activeRow(rows []CandidateRow) int {
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Stage == search.StageChecking {
			return i
		}
	}
	return -1
}

// recount recomputes stage counts for the current rows.
func recount(rows []CandidateRow) StageCounts {
	var counts StageCounts
	for _, row := range rows {
		switch row.Stage {
		case "":
			counts.Queued++
		case search.StageChecking:
			if row.Waiting {
				counts.Waiting++
			} else {
				counts.Checking++
			}
		case search.StageAccepted:
			counts.Done++
			counts.Accepted++
		case search.StageSkipped:
			counts.Done++
			counts.Skipped++
		case search.StageFailed:
			counts.Done++
			counts.Failed++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event Event) string {
	switch event.Kind {
	case EventSearchStart:
		return fmt.Sprintf("searching %d domains for %q", len(event.Domains), event.Query)
	case EventRateLimitWait:
		if event.Wait > 0 {
			return fmt.Sprintf("%s rate limited (retry in %s)", event.Endpoint, formatDuration(event.Wait))
		}
		return event.Endpoint + " rate limited"
	case EventRetry:
		return fmt.Sprintf("%s retry %d in %s", event.Endpoint, event.Attempt, formatDuration(event.Wait))
	case EventSearchEnd:
		if event.Err != "" {
			return "search failed: " + event.Err
		}
		return fmt.Sprintf("search complete: %d found", event.Found)
	}
	candidate := event.Candidate
	switch candidate.Stage {
	case search.StageAccepted:
		if candidate.Candidate != nil {
			return fmt.Sprintf("%s available at %s", candidate.Domain, formatUSD(candidate.Candidate.Pricing.USD))
		}
		return candidate.Domain + " accepted"
	case search.StageSkipped:
		return fmt.Sprintf("%s skipped: %s", candidate.Domain, candidate.Reason)
	case search.StageFailed:
		return fmt.Sprintf("%s failed: %s", candidate.Domain, candidate.Reason)
	}
	return ""
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}
