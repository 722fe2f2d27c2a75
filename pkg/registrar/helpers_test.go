package registrar

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"domainscout/internal/testutil"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedTransport records payloads and answers through handle.
type scriptedTransport struct {
	mu     sync.Mutex
	calls  []any
	handle func(ctx context.Context, endpoint Endpoint, payload any) (Response, error)
}

func (s *scriptedTransport) Do(ctx context.Context, endpoint Endpoint, payload any) (Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, payload)
	s.mu.Unlock()
	if s.handle == nil {
		return Response{Body: []byte(`{"status":"SUCCESS"}`)}, nil
	}
	return s.handle(ctx, endpoint, payload)
}

func (s *scriptedTransport) Calls() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.calls...)
}

// gatedTransport blocks calls whose payload is "gate" until release is closed.
func gatedTransport() (*scriptedTransport, chan struct{}, chan struct{}) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	tr := &scriptedTransport{}
	tr.handle = func(ctx context.Context, _ Endpoint, payload any) (Response, error) {
		if payload == "gate" {
			started <- struct{}{}
			select {
			case <-release:
			case <-ctx.Done():
				return Response{}, ctx.Err()
			}
		}
		return Response{Body: []byte(`{"status":"SUCCESS"}`)}, nil
	}
	return tr, started, release
}

func newFakeQueue(t *testing.T, tr Transport, opts QueueOptions) (*Queue, *testutil.FakeClock, *testutil.FakeSleeper) {
	t.Helper()
	clock := testutil.NewFakeClock(testStart)
	sleeper := testutil.NewFakeSleeper(clock)
	opts.Now = clock.Now
	opts.Sleep = sleeper.Sleep
	opts.Logger = discardLogger()
	q := NewQueue(tr, opts)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = q.Shutdown(ctx)
	})
	return q, clock, sleeper
}

func awaitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(testutil.DefaultTimeout):
		t.Fatalf("timed out waiting for result")
		return Result{}
	}
}

func awaitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(testutil.DefaultTimeout):
		t.Fatalf("timed out waiting for signal")
	}
}
