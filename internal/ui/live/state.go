package live

import (
	"time"

	"domainscout/internal/search"
)

// CandidateRow holds UI state for a single domain.
type CandidateRow struct {
	Index      int
	Domain     string
	Stage      search.Stage
	Reason     string
	Candidate  *search.DomainCandidate
	Waiting    bool
	WaitCount  int
	WaitFor    time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
}

// StageCounts aggregates counts by stage bucket.
type StageCounts struct {
	Queued   int
	Checking int
	Waiting  int
	Done     int
	Accepted int
	Skipped  int
	Failed   int
}

// State captures the live UI state for one search.
type State struct {
	Query     string
	StartedAt time.Time
	EndedAt   time.Time
	Finished  bool
	Found     int
	Err       string
	LastEvent string
	Rows      []CandidateRow
	Counts    StageCounts
}
