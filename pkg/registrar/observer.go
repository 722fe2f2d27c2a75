package registrar

import "time"

// QueueObserver receives request lifecycle events from a Queue.
type QueueObserver interface {
	// OnEnqueue signals a request entering the queue.
	OnEnqueue(endpoint string, priority bool, queueLength int)
	// OnAttempt signals an upstream call about to be made.
	OnAttempt(endpoint string, attempt int)
	// OnRetry signals a rate-limited attempt being scheduled again after delay.
	OnRetry(endpoint string, attempt int, delay time.Duration)
	// OnRateLimitWait signals the queue pausing because endpoint has no budget left.
	OnRateLimitWait(endpoint string, wait time.Duration)
	// OnComplete signals a request reaching a terminal state.
	OnComplete(endpoint string, outcome string, elapsed time.Duration)
}

// CacheObserver receives cache-aside lookups from a Client, labelled by cache class.
type CacheObserver interface {
	OnCacheHit(class string)
	OnCacheMiss(class string)
}

// NoopObserver satisfies QueueObserver and CacheObserver without recording anything.
var NoopObserver = noopObserver{}

type noopObserver struct{}

func (noopObserver) OnEnqueue(string, bool, int) {}
func (noopObserver) OnAttempt(string, int) {}
func (noopObserver) OnRetry(string, int, time.Duration) {}
func (noopObserver) OnRateLimitWait(string, time.Duration) {}
func (noopObserver) OnComplete(string, string, time.Duration) {}
func (noopObserver) OnCacheHit(string) {}
func (noopObserver) OnCacheMiss(string) {}
