package live

import (
	"strings"
	"testing"
	"time"

	"domainscout/internal/search"
	"domainscout/internal/testutil"
)

// TestReduceCandidateLifecycle verifies stage transitions are recorded.
func TestReduceCandidateLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		start := time.Now()
		state := Reduce(State{}, startEvent(start, "coolapp.com", "coolapp.io"))
		if state.Counts.Queued != 2 {
			t.Fatalf("expected two queued rows, got %+v", state.Counts)
		}

		state = Reduce(state, candidateEvent(0, "coolapp.com", search.StageChecking, "", nil, start))
		if state.Counts.Checking != 1 || state.Counts.Queued != 1 {
			t.Fatalf("expected one checking row, got %+v", state.Counts)
		}

		accepted := &search.DomainCandidate{
			Domain:    "coolapp.com",
			Available: true,
			Pricing:   search.CandidatePricing{USD: 9.68, PlatformAmount: 1065},
			Metadata:  search.CandidateMetadata{Length: 11, Readability: 80, Brandability: 70},
		}
		state = Reduce(state, candidateEvent(0, "coolapp.com", search.StageAccepted, "", accepted, start.Add(150*time.Millisecond)))

		row := state.Rows[0]
		if row.Stage != search.StageAccepted || row.Candidate != accepted {
			t.Fatalf("expected accepted row with candidate, got %+v", row)
		}
		if got := formatRowDuration(row, time.Time{}); got != "200ms" {
			t.Fatalf("expected rounded row duration, got %q", got)
		}
		if state.Counts.Accepted != 1 || state.Counts.Done != 1 {
			t.Fatalf("expected accepted count, got %+v", state.Counts)
		}
		if state.LastEvent != "coolapp.com available at $9.68" {
			t.Fatalf("unexpected footer %q", state.LastEvent)
		}
	})
}

// TestReduceWaitsTrackActiveRow verifies rate-limit waits land on the checking row.
func TestReduceWaitsTrackActiveRow(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		now := time.Now()
		state := Reduce(State{}, startEvent(now, "a.com", "b.com"))
		state = Reduce(state, candidateEvent(1, "b.com", search.StageChecking, "", nil, now))
		state = Reduce(state, Event{Kind: EventRateLimitWait, Endpoint: "domain/checkDomain", Wait: 1500 * time.Millisecond, At: now})
		state = Reduce(state, Event{Kind: EventRetry, Endpoint: "domain/checkDomain", Attempt: 1, Wait: time.Second, At: now})

		row := state.Rows[1]
		if row.WaitCount != 2 || !row.Waiting {
			t.Fatalf("expected two waits on the active row, got %+v", row)
		}
		if state.Rows[0].WaitCount != 0 {
			t.Fatalf("queued row should not count waits")
		}
		if state.Counts.Waiting != 1 || state.Counts.Checking != 0 {
			t.Fatalf("expected waiting bucket, got %+v", state.Counts)
		}
		if state.LastEvent != "domain/checkDomain retry 1 in 1s" {
			t.Fatalf("unexpected footer %q", state.LastEvent)
		}

		state = Reduce(state, candidateEvent(1, "b.com", search.StageSkipped, "unavailable", nil, now))
		if state.Rows[1].Waiting {
			t.Fatalf("expected waiting cleared on completion")
		}
		if state.Rows[1].WaitCount != 2 {
			t.Fatalf("expected wait count kept, got %d", state.Rows[1].WaitCount)
		}
	})
}

// TestReduceWaitWithoutActiveRow verifies waits outside a check only update the footer.
func TestReduceWaitWithoutActiveRow(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Reduce(State{}, startEvent(time.Now(), "a.com"))
		state = Reduce(state, Event{Kind: EventRateLimitWait, Endpoint: "pricing/get", Wait: 2 * time.Second})
		if state.Rows[0].WaitCount != 0 {
			t.Fatalf("expected no row change, got %+v", state.Rows[0])
		}
		if state.LastEvent != "pricing/get rate limited (retry in 2s)" {
			t.Fatalf("unexpected footer %q", state.LastEvent)
		}
	})
}

// TestReduceSkippedAndFailed verifies terminal counts and reasons.
func TestReduceSkippedAndFailed(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		now := time.Now()
		state := Reduce(State{}, startEvent(now, "a.com", "b.com", "c.com"))
		state = Reduce(state, candidateEvent(0, "a.com", search.StageSkipped, "premium", nil, now))
		state = Reduce(state, candidateEvent(1, "b.com", search.StageFailed, "rate limited", nil, now))

		if state.Counts.Skipped != 1 || state.Counts.Failed != 1 || state.Counts.Done != 2 || state.Counts.Queued != 1 {
			t.Fatalf("unexpected counts %+v", state.Counts)
		}
		if got := formatPrimaryStatus(state.Rows[0]); got != "skipped: premium" {
			t.Fatalf("unexpected status %q", got)
		}
		if state.LastEvent != "b.com failed: rate limited" {
			t.Fatalf("unexpected footer %q", state.LastEvent)
		}
	})
}

// TestReduceGrowsRowsForUnknownIndex verifies events past the start list are kept.
func TestReduceGrowsRowsForUnknownIndex(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Reduce(State{}, candidateEvent(2, "late.com", search.StageChecking, "", nil, time.Now()))
		if len(state.Rows) != 3 {
			t.Fatalf("expected rows grown to 3, got %d", len(state.Rows))
		}
		if state.Rows[2].Domain != "late.com" || state.Rows[1].Index != 1 {
			t.Fatalf("unexpected rows %+v", state.Rows)
		}
	})
}

// TestReduceSearchEnd verifies completion and restart handling.
func TestReduceSearchEnd(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		now := time.Now()
		state := Reduce(State{}, startEvent(now, "a.com"))
		state = Reduce(state, Event{Kind: EventSearchEnd, Found: 1, At: now.Add(time.Second)})
		if !state.Finished || state.Found != 1 || state.EndedAt.IsZero() {
			t.Fatalf("expected finished state, got %+v", state)
		}
		if state.LastEvent != "search complete: 1 found" {
			t.Fatalf("unexpected footer %q", state.LastEvent)
		}

		failed := Reduce(state, Event{Kind: EventSearchEnd, Err: "pricing unavailable"})
		if failed.LastEvent != "search failed: pricing unavailable" {
			t.Fatalf("unexpected footer %q", failed.LastEvent)
		}

		restarted := Reduce(state, startEvent(now, "x.com", "y.com"))
		if restarted.Finished || len(restarted.Rows) != 2 || restarted.Query != "test" {
			t.Fatalf("expected fresh state, got %+v", restarted)
		}
	})
}

// TestRowsForStatePlain verifies table cells without color.
func TestRowsForStatePlain(t *testing.T) {
	now := time.Now()
	state := Reduce(State{}, startEvent(now, "coolapp.com", "coolapp.io"))
	premium := &search.DomainCandidate{
		Domain:   "coolapp.com",
		Pricing:  search.CandidatePricing{USD: 120, PlatformAmount: 13200, Premium: true},
		Metadata: search.CandidateMetadata{Readability: 85, Brandability: 60},
	}
	state = Reduce(state, candidateEvent(0, "coolapp.com", search.StageAccepted, "", premium, now))

	rows := rowsForState(state, now, true)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := []string{"01", "coolapp.com", "available", "$120.00 / 13200 *", "85", "60"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Fatalf("cell %d: expected %q, got %q", i, cell, rows[0][i])
		}
	}
	if rows[1][2] != "queued" || rows[1][3] != "" {
		t.Fatalf("unexpected queued row %v", rows[1])
	}
}

// TestRenderSummaryCounts verifies the summary line reflects stage buckets.
func TestRenderSummaryCounts(t *testing.T) {
	now := time.Now()
	state := Reduce(State{}, startEvent(now, "a.com", "b.com"))
	state = Reduce(state, candidateEvent(0, "a.com", search.StageSkipped, "too long", nil, now))
	summary := renderSummary(state, true)
	if !strings.Contains(summary, "Skipped: 1") {
		t.Fatalf("unexpected summary %q", summary)
	}
}

func startEvent(at time.Time, domains ...string) Event {
	return Event{Kind: EventSearchStart, Query: "test", Domains: domains, At: at}
}

func candidateEvent(index int, domain string, stage search.Stage, reason string, candidate *search.DomainCandidate, at time.Time) Event {
	return Event{
		Kind: EventCandidate,
		Candidate: search.CandidateEvent{
			Index:     index,
			Domain:    domain,
			Stage:     stage,
			Reason:    reason,
			Candidate: candidate,
			At:        at,
		},
		At: at,
	}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
