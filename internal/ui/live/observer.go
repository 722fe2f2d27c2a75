package live

import (
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"domainscout/internal/search"
)

// Controller runs the live UI. It implements search.Observer and the
// rate-limit hooks of registrar.QueueObserver.
type Controller struct {
	events  chan Event
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
	now     func() time.Time
}

// Start launches a live UI controller that writes to stdout. programOpts are
// applied after the defaults.
func Start(stdout io.Writer, opts Options, programOpts ...tea.ProgramOption) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	programOpts = append([]tea.ProgramOption{tea.WithOutput(stdout), tea.WithAltScreen()}, programOpts...)
	program := tea.NewProgram(model, programOpts...)
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go func() {
		_, _ = program.Run()
		if !controller.markClosed() && opts.OnQuit != nil {
			opts.OnQuit()
		}
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// markClosed stops event delivery once the program has exited and reports
// whether Close had already been called.
func (c *Controller) markClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	c.closed = true
	close(c.events)
	return false
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnSearchStart forwards search start events to the UI.
func (c *Controller) OnSearchStart(query string, domains []string) {
	c.send(Event{Kind: EventSearchStart, Query: query, Domains: domains, At: c.now()})
}

// OnCandidate forwards candidate stage updates to the UI.
func (c *Controller) OnCandidate(event search.CandidateEvent) {
	c.send(Event{Kind: EventCandidate, Candidate: event, At: event.At})
}

// OnSearchEnd forwards completion to the UI. The UI stays up until Close.
func (c *Controller) OnSearchEnd(result search.SearchResult, err error) {
	event := Event{Kind: EventSearchEnd, Found: result.TotalFound, At: c.now()}
	if err != nil {
		event.Err = err.Error()
	}
	c.send(event)
}

func (c *Controller) OnEnqueue(string, bool, int) {}
func (c *Controller) OnAttempt(string, int) {}
func (c *Controller) OnComplete(string, string, time.Duration) {}

// OnRetry forwards rate-limit retries to the UI.
func (c *Controller) OnRetry(endpoint string, attempt int, delay time.Duration) {
	c.send(Event{Kind: EventRetry, Endpoint: endpoint, Attempt: attempt, Wait: delay, At: c.now()})
}

// OnRateLimitWait forwards queue pauses to the UI.
func (c *Controller) OnRateLimitWait(endpoint string, wait time.Duration) {
	c.send(Event{Kind: EventRateLimitWait, Endpoint: endpoint, Wait: wait, At: c.now()})
}

// send enqueues an event without blocking the caller. Events after Close are dropped.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
