package registrar

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultMaxRateLimitWait = 60 * time.Second
	minRateLimitWait        = time.Millisecond
)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// QueueOptions configures a Queue. Zero values select production defaults.
type QueueOptions struct {
	// Retry overrides DefaultRetryPolicy when set.
	Retry *RetryPolicy

	// MaxRateLimitWait bounds a single pause on a rate-limited head request.
	MaxRateLimitWait time.Duration

	// MinInterval spaces consecutive upstream calls when positive.
	MinInterval time.Duration

	Tracker  *RateLimitTracker
	Observer QueueObserver
	Logger   *slog.Logger
	Now      func() time.Time
	Sleep    Sleeper
	NewID    func() string
}

// withDefaults fills unset options.
func (o QueueOptions) withDefaults() QueueOptions {
	if o.Retry == nil {
		policy := DefaultRetryPolicy()
		o.Retry = &policy
	}
	if o.MaxRateLimitWait <= 0 {
		o.MaxRateLimitWait = defaultMaxRateLimitWait
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Tracker == nil {
		o.Tracker = NewRateLimitTracker(o.Now)
	}
	if o.Observer == nil {
		o.Observer = NoopObserver
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// newPacer returns a limiter allowing one call per interval, or nil when pacing is off.
func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// sleepContext is the production Sleeper.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
