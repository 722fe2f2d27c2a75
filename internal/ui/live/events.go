package live

import (
	"time"

	"domainscout/internal/search"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventSearchStart signals the start of a search.
	EventSearchStart EventKind = iota
	// EventCandidate delivers a candidate stage update.
	EventCandidate
	// EventRateLimitWait signals the queue pausing on an exhausted endpoint.
	EventRateLimitWait
	// EventRetry signals a rate-limited call being scheduled again.
	EventRetry
	// EventSearchEnd signals search completion.
	EventSearchEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind      EventKind
	Query     string
	Domains   []string
	Candidate search.CandidateEvent
	Endpoint  string
	Attempt   int
	Wait      time.Duration
	Found     int
	Err       string
	At        time.Time
}
