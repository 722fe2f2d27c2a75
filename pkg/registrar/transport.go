package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the upstream JSON API root.
const DefaultBaseURL = "https://api.porkbun.com/api/json/v3"

// Transport executes a single upstream call and classifies its failure.
type Transport interface {
	Do(ctx context.Context, endpoint Endpoint, payload any) (Response, error)
}

// HTTPTransport posts JSON bodies carrying the credentials to the upstream API.
type HTTPTransport struct {
	baseURL string
	creds   Credentials
	client  *http.Client
	now     func() time.Time
}

// NewHTTPTransport constructs a transport for baseURL. An empty baseURL uses DefaultBaseURL.
func NewHTTPTransport(baseURL string, creds Credentials, timeout time.Duration) *HTTPTransport {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// Do posts payload to endpoint and returns the raw body of a successful reply.
func (t *HTTPTransport) Do(ctx context.Context, endpoint Endpoint, payload any) (Response, error) {
	body, err := t.buildBody(payload)
	if err != nil {
		return Response{}, fmt.Errorf("encode %s request: %w", endpoint.Name, err)
	}
	resp, respBody, err := t.post(ctx, endpoint.Path, body)
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w", endpoint.Name, err)
	}
	info := t.headerRateLimit(resp.Header)
	if resp.StatusCode == http.StatusTooManyRequests {
		rl := &RateLimitError{Endpoint: endpoint.Name}
		if info != nil {
			rl.Limit = info.Limit
			rl.Remaining = info.Remaining
		}
		if reset, ok := headerReset(resp.Header); ok {
			rl.ResetTime = reset
		}
		return Response{}, rl
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, decodeHTTPError(endpoint, resp.StatusCode, respBody)
	}
	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return Response{}, &ValidationError{Endpoint: endpoint.Name, Reason: "response is not a JSON object"}
	}
	if strings.EqualFold(env.Status, statusError) {
		return Response{}, &UpstreamAPIError{Endpoint: endpoint.Name, Message: env.Message}
	}
	if info == nil {
		info = t.bodyRateLimit(respBody)
	}
	return Response{Body: json.RawMessage(respBody), RateLimit: info}, nil
}

// buildBody merges payload fields with the credential fields.
func (t *HTTPTransport) buildBody(payload any) ([]byte, error) {
	fields := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("payload must encode to a JSON object: %w", err)
		}
	}
	fields["apikey"] = t.creds.APIKey
	fields["secretapikey"] = t.creds.SecretKey
	return json.Marshal(fields)
}

func (t *HTTPTransport) post(ctx context.Context, path string, payload []byte) (*http.Response, []byte, error) {
	url := t.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

// headerRateLimit parses X-RateLimit-* headers. A reply without a usable
// Remaining count carries no budget information and yields nil.
func (t *HTTPTransport) headerRateLimit(h http.Header) *RateLimitInfo {
	reset, ok := headerReset(h)
	if !ok {
		return nil
	}
	remaining, err := strconv.Atoi(strings.TrimSpace(h.Get("X-RateLimit-Remaining")))
	if err != nil || remaining < 0 {
		return nil
	}
	limit, _ := strconv.Atoi(strings.TrimSpace(h.Get("X-RateLimit-Limit")))
	return &RateLimitInfo{
		Remaining: remaining,
		Limit:     limit,
		ResetTime: reset,
	}
}

// headerReset reads X-RateLimit-Reset, which is in epoch seconds.
func headerReset(h http.Header) (time.Time, bool) {
	raw := strings.TrimSpace(h.Get("X-RateLimit-Reset"))
	if raw == "" {
		return time.Time{}, false
	}
	sec, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(sec * 1000)), true
}

// bodyRateLimit reads the "limits" block some endpoints embed in successful replies.
func (t *HTTPTransport) bodyRateLimit(body []byte) *RateLimitInfo {
	var holder struct {
		Limits *limitsBlock `json:"limits"`
	}
	if err := json.Unmarshal(body, &holder); err != nil || holder.Limits == nil {
		return nil
	}
	l := holder.Limits
	if l.Limit <= 0 || l.TTL <= 0 {
		return nil
	}
	return &RateLimitInfo{
		Remaining: int(l.Limit - l.Used),
		Limit:     int(l.Limit),
		ResetTime: t.now().Add(time.Duration(l.TTL) * time.Second),
	}
}

func decodeHTTPError(endpoint Endpoint, status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &UpstreamAPIError{Endpoint: endpoint.Name, StatusCode: status, Message: env.Message}
	}
	return &UpstreamAPIError{Endpoint: endpoint.Name, StatusCode: status, Message: http.StatusText(status)}
}
