package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"domainscout/internal/search"
	"domainscout/pkg/registrar"
)

var (
	_ registrar.QueueObserver = (*Metrics)(nil)
	_ registrar.CacheObserver = (*Metrics)(nil)
	_ search.Observer         = (*Metrics)(nil)
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	return string(body)
}

func expectLine(t *testing.T, body, line string) {
	t.Helper()
	for _, l := range strings.Split(body, "\n") {
		if l == line {
			return
		}
	}
	t.Fatalf("expected metrics line %q in:\n%s", line, body)
}

func TestQueueAndCacheCounters(t *testing.T) {
	m := New()
	m.OnEnqueue("pricing/get", false, 1)
	m.OnAttempt("pricing/get", 1)
	m.OnRetry("pricing/get", 1, time.Second)
	m.OnAttempt("pricing/get", 2)
	m.OnComplete("pricing/get", "ok", 1500*time.Millisecond)
	m.OnRateLimitWait("domain/checkDomain", time.Second)
	m.OnCacheMiss("pricing")
	m.OnCacheHit("pricing")
	m.OnCacheHit("pricing")

	body := scrape(t, m)
	expectLine(t, body, `domainscout_registrar_enqueued_total{endpoint="pricing/get",priority="false"} 1`)
	expectLine(t, body, `domainscout_registrar_attempts_total{endpoint="pricing/get"} 2`)
	expectLine(t, body, `domainscout_registrar_retries_total{endpoint="pricing/get"} 1`)
	expectLine(t, body, `domainscout_registrar_requests_total{endpoint="pricing/get",outcome="ok"} 1`)
	expectLine(t, body, `domainscout_registrar_rate_limit_waits_total{endpoint="domain/checkDomain"} 1`)
	expectLine(t, body, `domainscout_cache_lookups_total{class="pricing",result="hit"} 2`)
	expectLine(t, body, `domainscout_cache_lookups_total{class="pricing",result="miss"} 1`)
	expectLine(t, body, `domainscout_registrar_request_duration_seconds_count{endpoint="pricing/get"} 1`)
}

func TestSearchCounters(t *testing.T) {
	m := New()
	m.OnCandidate(search.CandidateEvent{Stage: search.StageChecking})
	m.OnCandidate(search.CandidateEvent{Stage: search.StageAccepted})
	m.OnCandidate(search.CandidateEvent{Stage: search.StageFailed})
	m.OnSearchEnd(search.SearchResult{SearchTimeMs: 250}, nil)
	m.OnSearchEnd(search.SearchResult{}, io.EOF)

	body := scrape(t, m)
	expectLine(t, body, `domainscout_search_candidates_total{stage="accepted"} 1`)
	expectLine(t, body, `domainscout_search_candidates_total{stage="failed"} 1`)
	expectLine(t, body, `domainscout_search_runs_total{outcome="ok"} 1`)
	expectLine(t, body, `domainscout_search_runs_total{outcome="error"} 1`)
	expectLine(t, body, `domainscout_search_duration_seconds_count 1`)
	if strings.Contains(body, `stage="checking"`) {
		t.Fatalf("checking events must not be counted")
	}
}

type staticStatus registrar.ClientStatus

func (s staticStatus) Status() registrar.ClientStatus { return registrar.ClientStatus(s) }

func TestWatchExportsLiveStatus(t *testing.T) {
	m := New()
	reset := time.Unix(1_900_000_000, 0)
	err := m.Watch(staticStatus{
		Queue: registrar.QueueStatus{
			QueueLength: 4,
			Processing:  true,
			RateLimits:  map[string]registrar.RateLimitState{"pricing/get": {Remaining: 2, Limit: 10, ResetTime: reset}},
		},
		Cache: registrar.CacheStats{Total: 3, Active: 2, Expired: 1},
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	body := scrape(t, m)
	expectLine(t, body, `domainscout_registrar_queue_length 4`)
	expectLine(t, body, `domainscout_registrar_queue_processing 1`)
	expectLine(t, body, `domainscout_cache_entries{state="active"} 2`)
	expectLine(t, body, `domainscout_cache_entries{state="expired"} 1`)
	expectLine(t, body, `domainscout_rate_limit_remaining{endpoint="pricing/get"} 2`)
	expectLine(t, body, `domainscout_rate_limit_reset_timestamp_seconds{endpoint="pricing/get"} 1.9e+09`)
}
