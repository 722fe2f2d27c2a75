package registrar

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrQueueCleared is delivered to every pending request when the queue is cleared.
	ErrQueueCleared = errors.New("registrar: queue cleared")
	// ErrQueueClosed is returned when work is submitted after Shutdown.
	ErrQueueClosed = errors.New("registrar: queue closed")
	// ErrMissingCredentials is returned by NewClient when a credential is blank.
	ErrMissingCredentials = errors.New("registrar: api key and secret key are required")
)

// RateLimitError reports an HTTP 429 from the upstream. It is the only retryable error kind.
type RateLimitError struct {
	Endpoint  string
	ResetTime time.Time
	Limit     int
	Remaining int
}

func (e *RateLimitError) Error() string {
	if e.ResetTime.IsZero() {
		return fmt.Sprintf("registrar: rate limited on %s", e.Endpoint)
	}
	return fmt.Sprintf("registrar: rate limited on %s (limit %d, resets %s)", e.Endpoint, e.Limit, e.ResetTime.UTC().Format(time.RFC3339))
}

// UpstreamAPIError reports a non-2xx status or an in-body ERROR status.
// StatusCode is zero for in-body errors delivered with HTTP 200.
type UpstreamAPIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *UpstreamAPIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("registrar: %s: http %d: %s", e.Endpoint, e.StatusCode, msg)
	}
	return fmt.Sprintf("registrar: %s: %s", e.Endpoint, msg)
}

// ValidationError reports a response that did not match the expected shape.
type ValidationError struct {
	Endpoint string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("registrar: invalid response from %s: %s", e.Endpoint, e.Reason)
}

// IsRateLimit reports whether err is or wraps a RateLimitError.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// ErrorKind names the taxonomy class of err, for logs and metrics labels.
func ErrorKind(err error) string {
	var (
		rl  *RateLimitError
		api *UpstreamAPIError
		val *ValidationError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.As(err, &api):
		return "upstream_error"
	case errors.As(err, &val):
		return "validation_error"
	case errors.Is(err, ErrQueueCleared):
		return "queue_cleared"
	case errors.Is(err, ErrQueueClosed):
		return "queue_closed"
	default:
		return "transport_error"
	}
}
