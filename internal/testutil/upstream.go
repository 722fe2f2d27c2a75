package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// UpstreamReply is one canned response from FakeUpstream.
type UpstreamReply struct {
	Status  int
	Headers map[string]string
	Body    any
}

// UpstreamCall records a request received by FakeUpstream.
type UpstreamCall struct {
	Path string
	Body map[string]any
}

// FakeUpstream is an httptest server speaking the registrar JSON protocol.
// Replies are registered per path; the last reply for a path repeats forever.
type FakeUpstream struct {
	server *httptest.Server

	mu      sync.Mutex
	replies map[string][]UpstreamReply
	calls   []UpstreamCall
}

// NewFakeUpstream starts a server that is closed when the test ends.
func NewFakeUpstream(t testing.TB) *FakeUpstream {
	t.Helper()
	f := &FakeUpstream{replies: map[string][]UpstreamReply{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the server base URL.
func (f *FakeUpstream) URL() string {
	return f.server.URL
}

// Reply queues replies for path, served in order.
func (f *FakeUpstream) Reply(path string, replies ...UpstreamReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = strings.Trim(path, "/")
	f.replies[path] = append(f.replies[path], replies...)
}

// ReplyJSON queues a 200 reply with body.
func (f *FakeUpstream) ReplyJSON(path string, body any) {
	f.Reply(path, UpstreamReply{Status: http.StatusOK, Body: body})
}

// ReplyRateLimited queues a 429 with X-RateLimit headers resetting at reset.
func (f *FakeUpstream) ReplyRateLimited(path string, limit int, reset time.Time) {
	f.Reply(path, UpstreamReply{
		Status: http.StatusTooManyRequests,
		Headers: map[string]string{
			"X-RateLimit-Limit":     strconv.Itoa(limit),
			"X-RateLimit-Remaining": "0",
			"X-RateLimit-Reset":     strconv.FormatInt(reset.Unix(), 10),
		},
		Body: map[string]string{"status": "ERROR", "message": "rate limited"},
	})
}

// Calls returns how many requests hit path.
func (f *FakeUpstream) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = strings.Trim(path, "/")
	n := 0
	for _, c := range f.calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

// Requests returns every recorded request in arrival order.
func (f *FakeUpstream) Requests() []UpstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]UpstreamCall(nil), f.calls...)
}

func (f *FakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	var body map[string]any
	raw, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.calls = append(f.calls, UpstreamCall{Path: path, Body: body})
	reply, ok := f.next(path)
	f.mu.Unlock()

	if r.Method != http.MethodPost {
		writeReply(w, UpstreamReply{Status: http.StatusMethodNotAllowed, Body: map[string]string{"status": "ERROR", "message": "POST required"}})
		return
	}
	if body["apikey"] == nil || body["secretapikey"] == nil {
		writeReply(w, UpstreamReply{Status: http.StatusOK, Body: map[string]string{"status": "ERROR", "message": "Invalid API key."}})
		return
	}
	if !ok {
		writeReply(w, UpstreamReply{Status: http.StatusNotFound, Body: map[string]string{"status": "ERROR", "message": "no reply for " + path}})
		return
	}
	writeReply(w, reply)
}

// next pops the head reply for path, keeping the last one. Callers hold mu.
func (f *FakeUpstream) next(path string) (UpstreamReply, bool) {
	queue := f.replies[path]
	if len(queue) == 0 {
		return UpstreamReply{}, false
	}
	reply := queue[0]
	if len(queue) > 1 {
		f.replies[path] = queue[1:]
	}
	return reply, true
}

func writeReply(w http.ResponseWriter, reply UpstreamReply) {
	for k, v := range reply.Headers {
		w.Header().Set(k, v)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if raw, ok := reply.Body.(string); ok {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, raw)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(reply.Body)
}
