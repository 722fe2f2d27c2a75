package registrar

import (
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
)

// RetryPolicy decides whether a failed attempt is retried and how long to back off.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// RetryDecision is the outcome of RetryPolicy.Decide.
type RetryDecision struct {
	ShouldRetry bool
	Delay       time.Duration
}

// DefaultRetryPolicy retries up to three times starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: defaultMaxRetries, BaseDelay: defaultBaseDelay}
}

// Decide evaluates err after the given 1-based attempt failed.
// Only rate-limit errors are retried, with delay BaseDelay * 2^(attempt-1).
func (p RetryPolicy) Decide(err error, attempt int) RetryDecision {
	if err == nil || !IsRateLimit(err) {
		return RetryDecision{}
	}
	if attempt < 1 || attempt > p.MaxRetries {
		return RetryDecision{}
	}
	return RetryDecision{ShouldRetry: true, Delay: p.backoff(attempt)}
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	shift := attempt - 1
	if shift > 30 {
		shift = 30
	}
	return base * time.Duration(1<<uint(shift))
}
