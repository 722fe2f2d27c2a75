package registrar

import (
	"sync"
	"time"
)

// request is a queued upstream call. Its result is delivered exactly once.
type request struct {
	id         string
	endpoint   Endpoint
	payload    any
	priority   bool
	enqueuedAt time.Time
	attempts   int
	// pinned marks a request put back at the head after a rate-limit wait or backoff.
	pinned bool

	done chan Result
	once sync.Once
}

// resolve delivers res to the waiting caller. Later calls are ignored.
func (r *request) resolve(res Result) {
	r.once.Do(func() {
		r.done <- res
		close(r.done)
	})
}

// pendingList holds queued requests in processing order.
type pendingList struct {
	items []*request
}

// pushBack appends a regular request.
func (l *pendingList) pushBack(req *request) {
	l.items = append(l.items, req)
}

// pushPriority inserts req ahead of regular requests but behind the pinned head
// and earlier priority requests, so priority requests keep their own FIFO order.
func (l *pendingList) pushPriority(req *request) {
	idx := 0
	for idx < len(l.items) && (l.items[idx].pinned || l.items[idx].priority) {
		idx++
	}
	l.insert(idx, req)
}

// pushFront puts req back at the head.
func (l *pendingList) pushFront(req *request) {
	req.pinned = true
	l.insert(0, req)
}

// popFront removes and returns the head.
func (l *pendingList) popFront() (*request, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	req := l.items[0]
	l.items[0] = nil
	l.items = l.items[1:]
	req.pinned = false
	return req, true
}

// drain empties the list and returns what it held.
func (l *pendingList) drain() []*request {
	out := l.items
	l.items = nil
	return out
}

func (l *pendingList) len() int {
	return len(l.items)
}

func (l *pendingList) insert(idx int, req *request) {
	l.items = append(l.items, nil)
	copy(l.items[idx+1:], l.items[idx:])
	l.items[idx] = req
}
