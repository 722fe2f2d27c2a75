package search

import "time"

// Stage is the lifecycle position of one candidate.
type Stage string

const (
	StageChecking Stage = "checking"
	StageAccepted Stage = "accepted"
	StageSkipped  Stage = "skipped"
	StageFailed   Stage = "failed"
)

// CandidateEvent reports progress on one domain.
type CandidateEvent struct {
	Index     int
	Total     int
	Domain    string
	Stage     Stage
	Reason    string
	Candidate *DomainCandidate
	At        time.Time
}

// Observer receives search progress. Calls happen on the searching goroutine.
type Observer interface {
	OnSearchStart(query string, domains []string)
	OnCandidate(event CandidateEvent)
	OnSearchEnd(result SearchResult, err error)
}

type noopObserver struct{}

func (noopObserver) OnSearchStart(string, []string) {}
func (noopObserver) OnCandidate(CandidateEvent) {}
func (noopObserver) OnSearchEnd(SearchResult, error) {}

// NoopObserver ignores every event.
var NoopObserver Observer = noopObserver{}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnSearchStart(query string, domains []string) {
	for _, o := range m {
		o.OnSearchStart(query, domains)
	}
}

func (m MultiObserver) OnCandidate(event CandidateEvent) {
	for _, o := range m {
		o.OnCandidate(event)
	}
}

func (m MultiObserver) OnSearchEnd(result SearchResult, err error) {
	for _, o := range m {
		o.OnSearchEnd(result, err)
	}
}
