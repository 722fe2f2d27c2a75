package registrar

import (
	"errors"
	"time"
)

// run drives the worker loop until the queue is empty.
func (q *Queue) run() {
	defer q.wg.Done()
	for {
		req, ok := q.next()
		if !ok {
			return
		}
		name := req.endpoint.Name
		if q.tracker.IsLimited(name) {
			wait := q.rateLimitWait(name)
			q.requeue(req)
			q.observer.OnRateLimitWait(name, wait)
			q.logger.Debug("registrar endpoint rate limited, waiting", "endpoint", name, "wait", wait, "request_id", req.id)
			_ = q.sleep(q.ctx, wait)
			continue
		}
		q.execute(req)
	}
}

// next pops the head request, or marks the loop idle when nothing is pending.
func (q *Queue) next() (*request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	req, ok := q.pending.popFront()
	if !ok {
		q.processing = false
		return nil, false
	}
	return req, true
}

// requeue puts req back at the head. A queue cleared meanwhile rejects it instead.
func (q *Queue) requeue(req *request) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		req.resolve(Result{Err: ErrQueueClosed})
		return
	}
	q.pending.pushFront(req)
	q.mu.Unlock()
}

// execute performs one attempt of req and resolves or requeues it.
func (q *Queue) execute(req *request) {
	name := req.endpoint.Name
	if q.pacer != nil {
		if err := q.pacer.Wait(q.ctx); err != nil {
			q.finish(req, Result{Err: err})
			return
		}
	}

	req.attempts++
	q.observer.OnAttempt(name, req.attempts)
	resp, err := q.transport.Do(q.ctx, req.endpoint, req.payload)
	if err == nil {
		if info := resp.RateLimit; info != nil {
			q.tracker.Observe(name, info.Remaining, info.Limit, info.ResetTime)
		}
		q.finish(req, Result{Response: resp})
		return
	}

	var rl *RateLimitError
	if errors.As(err, &rl) && !rl.ResetTime.IsZero() {
		q.tracker.Observe(name, rl.Remaining, rl.Limit, rl.ResetTime)
	}
	decision := q.retry.Decide(err, req.attempts)
	if !decision.ShouldRetry {
		q.finish(req, Result{Err: err})
		return
	}
	q.observer.OnRetry(name, req.attempts, decision.Delay)
	q.logger.Debug("registrar rate limited, backing off", "endpoint", name, "attempt", req.attempts, "delay", decision.Delay, "request_id", req.id)
	q.requeue(req)
	_ = q.sleep(q.ctx, decision.Delay)
}

// finish resolves req and reports its outcome.
func (q *Queue) finish(req *request, res Result) {
	req.resolve(res)
	q.observer.OnComplete(req.endpoint.Name, ErrorKind(res.Err), q.now().Sub(req.enqueuedAt))
}

// rateLimitWait returns how long to pause before retrying a limited endpoint.
func (q *Queue) rateLimitWait(endpoint string) time.Duration {
	reset, ok := q.tracker.ResetTime(endpoint)
	if !ok {
		return minRateLimitWait
	}
	wait := reset.Sub(q.now())
	if wait < minRateLimitWait {
		wait = minRateLimitWait
	}
	if wait > q.maxWait {
		wait = q.maxWait
	}
	return wait
}
