package registrar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"domainscout/internal/testutil"
)

func TestQueueProcessesPriorityFirstThenFIFO(t *testing.T) {
	tr, started, release := gatedTransport()
	q, _, _ := newFakeQueue(t, tr, QueueOptions{})

	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		results := []<-chan Result{q.Enqueue(EndpointPing, "gate", EnqueueOptions{})}
		awaitSignal(t, started)
		for _, id := range []string{"A", "B", "C", "D", "E"} {
			results = append(results, q.Enqueue(EndpointPing, id, EnqueueOptions{}))
		}
		for _, id := range []string{"P1", "P2"} {
			results = append(results, q.Enqueue(EndpointPing, id, EnqueueOptions{Priority: true}))
		}
		close(release)
		for _, ch := range results {
			if res := awaitResult(t, ch); res.Err != nil {
				t.Fatalf("unexpected error: %v", res.Err)
			}
		}
	})

	got := fmt.Sprint(tr.Calls())
	if want := "[gate P1 P2 A B C D E]"; got != want {
		t.Fatalf("expected order %s, got %s", want, got)
	}
}

func TestQueueClearRejectsPending(t *testing.T) {
	tr, started, release := gatedTransport()
	q, _, _ := newFakeQueue(t, tr, QueueOptions{})

	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		inflight := q.Enqueue(EndpointPing, "gate", EnqueueOptions{})
		awaitSignal(t, started)
		pending := []<-chan Result{
			q.Enqueue(EndpointPricing, "one", EnqueueOptions{}),
			q.Enqueue(EndpointPricing, "two", EnqueueOptions{}),
			q.Enqueue(EndpointPricing, "three", EnqueueOptions{Priority: true}),
		}
		if n := q.ClearQueue(); n != 3 {
			t.Fatalf("expected 3 cleared, got %d", n)
		}
		for _, ch := range pending {
			if res := awaitResult(t, ch); !errors.Is(res.Err, ErrQueueCleared) {
				t.Fatalf("expected ErrQueueCleared, got %v", res.Err)
			}
		}
		close(release)
		if res := awaitResult(t, inflight); res.Err != nil {
			t.Fatalf("in-flight request should complete, got %v", res.Err)
		}
	})
	if calls := tr.Calls(); len(calls) != 1 {
		t.Fatalf("expected only the in-flight call, got %v", calls)
	}
}

func TestQueueRetryExhaustion(t *testing.T) {
	tr := &scriptedTransport{handle: func(context.Context, Endpoint, any) (Response, error) {
		return Response{}, &RateLimitError{Endpoint: EndpointPricing.Name}
	}}
	base := 50 * time.Millisecond
	q, _, sleeper := newFakeQueue(t, tr, QueueOptions{Retry: &RetryPolicy{MaxRetries: 3, BaseDelay: base}})

	var res Result
	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		res = awaitResult(t, q.Enqueue(EndpointPricing, nil, EnqueueOptions{}))
	})
	if !IsRateLimit(res.Err) {
		t.Fatalf("expected RateLimitError, got %v", res.Err)
	}
	if calls := len(tr.Calls()); calls != 4 {
		t.Fatalf("expected 1 call plus 3 retries, got %d", calls)
	}
	got := fmt.Sprint(sleeper.Sleeps())
	if want := fmt.Sprint([]time.Duration{base, 2 * base, 4 * base}); got != want {
		t.Fatalf("expected backoff %s, got %s", want, got)
	}
}

func TestQueueRetrySucceedsAfterRateLimit(t *testing.T) {
	var mu sync.Mutex
	failures := 2
	tr := &scriptedTransport{handle: func(context.Context, Endpoint, any) (Response, error) {
		mu.Lock()
		defer mu.Unlock()
		if failures > 0 {
			failures--
			return Response{}, &RateLimitError{Endpoint: EndpointPing.Name}
		}
		return Response{Body: []byte(`{"status":"SUCCESS"}`)}, nil
	}}
	q, _, sleeper := newFakeQueue(t, tr, QueueOptions{})

	var res Result
	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		res = awaitResult(t, q.Enqueue(EndpointPing, nil, EnqueueOptions{}))
	})
	if res.Err != nil {
		t.Fatalf("expected success after retries, got %v", res.Err)
	}
	if got := fmt.Sprint(sleeper.Sleeps()); got != "[1s 2s]" {
		t.Fatalf("unexpected sleeps %s", got)
	}
}

func TestQueueRetryKeepsHeadOfLine(t *testing.T) {
	var mu sync.Mutex
	limited := false
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	tr := &scriptedTransport{handle: func(_ context.Context, _ Endpoint, payload any) (Response, error) {
		switch payload {
		case "gate":
			started <- struct{}{}
			<-gate
		case "limited":
			mu.Lock()
			defer mu.Unlock()
			if !limited {
				limited = true
				return Response{}, &RateLimitError{Endpoint: EndpointPricing.Name}
			}
		}
		return Response{Body: []byte(`{"status":"SUCCESS"}`)}, nil
	}}
	q, _, sleeper := newFakeQueue(t, tr, QueueOptions{})

	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		results := []<-chan Result{q.Enqueue(EndpointPing, "gate", EnqueueOptions{})}
		awaitSignal(t, started)
		results = append(results,
			q.Enqueue(EndpointPricing, "limited", EnqueueOptions{}),
			q.Enqueue(EndpointPing, "other", EnqueueOptions{}),
		)
		close(gate)
		for _, ch := range results {
			if res := awaitResult(t, ch); res.Err != nil {
				t.Fatalf("unexpected error: %v", res.Err)
			}
		}
	})

	if got, want := fmt.Sprint(tr.Calls()), "[gate limited limited other]"; got != want {
		t.Fatalf("expected retried request to stay ahead, want %s got %s", want, got)
	}
	if got := fmt.Sprint(sleeper.Sleeps()); got != "[1s]" {
		t.Fatalf("unexpected sleeps %s", got)
	}
}

func TestQueueNonRateLimitErrorsAreNotRetried(t *testing.T) {
	tr := &scriptedTransport{handle: func(context.Context, Endpoint, any) (Response, error) {
		return Response{}, &UpstreamAPIError{Endpoint: "ping", StatusCode: 500, Message: "boom"}
	}}
	q, _, sleeper := newFakeQueue(t, tr, QueueOptions{})

	var res Result
	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		res = awaitResult(t, q.Enqueue(EndpointPing, nil, EnqueueOptions{}))
	})
	var apiErr *UpstreamAPIError
	if !errors.As(res.Err, &apiErr) || apiErr.StatusCode != 500 {
		t.Fatalf("expected upstream error, got %v", res.Err)
	}
	if len(tr.Calls()) != 1 || len(sleeper.Sleeps()) != 0 {
		t.Fatalf("expected single attempt without sleeping")
	}
}

func TestQueueWaitsForRateLimitWindow(t *testing.T) {
	tr := &scriptedTransport{}
	q, clock, sleeper := newFakeQueue(t, tr, QueueOptions{})
	q.Tracker().Observe(EndpointPricing.Name, 0, 60, clock.Now().Add(2*time.Second))

	var res Result
	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		res = awaitResult(t, q.Enqueue(EndpointPricing, nil, EnqueueOptions{}))
	})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if got := fmt.Sprint(sleeper.Sleeps()); got != "[2s 1ms]" {
		t.Fatalf("expected wait until just past reset, got %s", got)
	}
	if len(tr.Calls()) != 1 {
		t.Fatalf("expected one call once the window lapsed")
	}
}

func TestQueueRateLimitWaitIsCapped(t *testing.T) {
	tr := &scriptedTransport{}
	q, clock, sleeper := newFakeQueue(t, tr, QueueOptions{MaxRateLimitWait: 5 * time.Second})
	q.Tracker().Observe(EndpointPing.Name, 0, 1, clock.Now().Add(12*time.Second))

	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		awaitResult(t, q.Enqueue(EndpointPing, nil, EnqueueOptions{}))
	})
	sleeps := sleeper.Sleeps()
	if len(sleeps) < 3 || sleeps[0] != 5*time.Second || sleeps[1] != 5*time.Second || sleeps[2] != 2*time.Second {
		t.Fatalf("expected capped waits, got %v", sleeps)
	}
}

func TestQueueLearnsLimitsFromResponses(t *testing.T) {
	clock := testutil.NewFakeClock(testStart)
	tr := &scriptedTransport{handle: func(context.Context, Endpoint, any) (Response, error) {
		return Response{
			Body:      []byte(`{"status":"SUCCESS"}`),
			RateLimit: &RateLimitInfo{Remaining: 0, Limit: 1, ResetTime: clock.Now().Add(10 * time.Second)},
		}, nil
	}}
	sleeper := testutil.NewFakeSleeper(clock)
	q := NewQueue(tr, QueueOptions{Now: clock.Now, Sleep: sleeper.Sleep, Logger: discardLogger()})

	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		first := q.Enqueue(EndpointCheckDomain("a.com"), "a", EnqueueOptions{})
		second := q.Enqueue(EndpointCheckDomain("b.com"), "b", EnqueueOptions{})
		awaitResult(t, first)
		awaitResult(t, second)
	})
	sleeps := sleeper.Sleeps()
	if len(sleeps) == 0 || sleeps[0] != 10*time.Second {
		t.Fatalf("expected second call to wait out the window, got %v", sleeps)
	}
	if err := q.Shutdown(testutil.Context(t, time.Second)); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestQueueShutdownRejectsNewWork(t *testing.T) {
	q, _, _ := newFakeQueue(t, &scriptedTransport{}, QueueOptions{})
	if err := q.Shutdown(testutil.Context(t, time.Second)); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	res := awaitResult(t, q.Enqueue(EndpointPing, nil, EnqueueOptions{}))
	if !errors.Is(res.Err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", res.Err)
	}
}

func TestQueueShutdownAbortsInFlight(t *testing.T) {
	tr, started, _ := gatedTransport()
	q, _, _ := newFakeQueue(t, tr, QueueOptions{})

	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		inflight := q.Enqueue(EndpointPing, "gate", EnqueueOptions{})
		awaitSignal(t, started)
		queued := q.Enqueue(EndpointPing, "later", EnqueueOptions{})
		if err := q.Shutdown(testutil.Context(t, time.Second)); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
		if res := awaitResult(t, inflight); !errors.Is(res.Err, context.Canceled) {
			t.Fatalf("expected in-flight call cancelled, got %v", res.Err)
		}
		if res := awaitResult(t, queued); !errors.Is(res.Err, ErrQueueCleared) {
			t.Fatalf("expected queued call cleared, got %v", res.Err)
		}
	})
}

func TestQueueDoHonorsCallerContext(t *testing.T) {
	tr, started, release := gatedTransport()
	q, _, _ := newFakeQueue(t, tr, QueueOptions{})
	defer close(release)

	q.Enqueue(EndpointPing, "gate", EnqueueOptions{})
	awaitSignal(t, started)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := q.Do(ctx, EndpointPing, "late", EnqueueOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected caller context error, got %v", err)
	}
}

type recordingQueueObserver struct {
	mu       sync.Mutex
	outcomes []string
	retries  int
}

func (r *recordingQueueObserver) OnEnqueue(string, bool, int) {}
func (r *recordingQueueObserver) OnAttempt(string, int) {}
func (r *recordingQueueObserver) OnRetry(string, int, time.Duration) {
	r.mu.Lock()
	r.retries++
	r.mu.Unlock()
}
func (r *recordingQueueObserver) OnRateLimitWait(string, time.Duration) {}
func (r *recordingQueueObserver) OnComplete(_ string, outcome string, _ time.Duration) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, outcome)
	r.mu.Unlock()
}

func TestQueueReportsOutcomes(t *testing.T) {
	obs := &recordingQueueObserver{}
	tr := &scriptedTransport{handle: func(context.Context, Endpoint, any) (Response, error) {
		return Response{}, &RateLimitError{Endpoint: "ping"}
	}}
	q, _, _ := newFakeQueue(t, tr, QueueOptions{Observer: obs, Retry: &RetryPolicy{MaxRetries: 1, BaseDelay: time.Millisecond}})

	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		awaitResult(t, q.Enqueue(EndpointPing, nil, EnqueueOptions{}))
	})
	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.retries != 1 || fmt.Sprint(obs.outcomes) != "[rate_limited]" {
		t.Fatalf("unexpected observations retries=%d outcomes=%v", obs.retries, obs.outcomes)
	}
}
