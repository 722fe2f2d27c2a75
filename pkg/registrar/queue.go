package registrar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Result is the terminal outcome of a queued request.
type Result struct {
	Response Response
	Err      error
}

// EnqueueOptions tunes a single request.
type EnqueueOptions struct {
	// Priority places the request ahead of regular requests.
	Priority bool
}

// QueueStatus is a diagnostic snapshot of a Queue.
type QueueStatus struct {
	QueueLength int                       `json:"queue_length"`
	Processing  bool                      `json:"processing"`
	RateLimits  map[string]RateLimitState `json:"rate_limits"`
}

// Queue serializes upstream calls through a single worker loop.
//
// At most one call is in flight at a time. A request whose endpoint is out of
// budget, or that is backing off after a rate-limit error, is put back at the
// head and blocks everything behind it until it runs.
type Queue struct {
	transport Transport
	tracker   *RateLimitTracker
	retry     RetryPolicy
	observer  QueueObserver
	logger    *slog.Logger
	now       func() time.Time
	sleep     Sleeper
	maxWait   time.Duration
	pacer     *rate.Limiter
	newID     func() string

	mu         sync.Mutex
	pending    pendingList
	processing bool
	closed     bool
	wg         sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewQueue creates a Queue executing calls through transport.
func NewQueue(transport Transport, opts QueueOptions) *Queue {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		transport: transport,
		tracker:   opts.Tracker,
		retry:     *opts.Retry,
		observer:  opts.Observer,
		logger:    opts.Logger,
		now:       opts.Now,
		sleep:     opts.Sleep,
		maxWait:   opts.MaxRateLimitWait,
		pacer:     newPacer(opts.MinInterval),
		newID:     opts.NewID,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Enqueue adds a request and starts the worker loop if it is idle.
// The returned channel yields exactly one Result.
func (q *Queue) Enqueue(endpoint Endpoint, payload any, opts EnqueueOptions) <-chan Result {
	req := &request{
		id:         q.newID(),
		endpoint:   endpoint,
		payload:    payload,
		priority:   opts.Priority,
		enqueuedAt: q.now(),
		done:       make(chan Result, 1),
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		req.resolve(Result{Err: ErrQueueClosed})
		return req.done
	}
	if opts.Priority {
		q.pending.pushPriority(req)
	} else {
		q.pending.pushBack(req)
	}
	length := q.pending.len()
	start := !q.processing
	if start {
		q.processing = true
		q.wg.Add(1)
	}
	q.mu.Unlock()

	q.observer.OnEnqueue(endpoint.Name, opts.Priority, length)
	if start {
		go q.run()
	}
	return req.done
}

// Do enqueues a request and waits for its result or for ctx to end.
// Abandoning the wait does not cancel the request.
func (q *Queue) Do(ctx context.Context, endpoint Endpoint, payload any, opts EnqueueOptions) (Response, error) {
	done := q.Enqueue(endpoint, payload, opts)
	select {
	case res := <-done:
		return res.Response, res.Err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// ClearQueue rejects every pending request with ErrQueueCleared and returns how many there were.
// A call already in flight is not affected.
func (q *Queue) ClearQueue() int {
	q.mu.Lock()
	cleared := q.pending.drain()
	q.mu.Unlock()
	for _, req := range cleared {
		req.resolve(Result{Err: ErrQueueCleared})
		q.observer.OnComplete(req.endpoint.Name, ErrorKind(ErrQueueCleared), q.now().Sub(req.enqueuedAt))
	}
	return len(cleared)
}

// Status reports queue depth, whether the loop is running, and live rate-limit windows.
func (q *Queue) Status() QueueStatus {
	q.mu.Lock()
	length := q.pending.len()
	processing := q.processing
	q.mu.Unlock()
	return QueueStatus{
		QueueLength: length,
		Processing:  processing,
		RateLimits:  q.tracker.Snapshot(),
	}
}

// Tracker exposes the rate-limit tracker fed by this queue.
func (q *Queue) Tracker() *RateLimitTracker {
	return q.tracker
}

// Shutdown rejects pending work, aborts the in-flight call and waits for the loop to exit.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.ClearQueue()
	q.cancel()

	wait := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(wait)
	}()
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
