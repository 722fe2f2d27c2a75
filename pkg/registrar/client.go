package registrar

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Client is the cache-aside API client. Every upstream call goes through its Queue.
type Client struct {
	queue    *Queue
	cache    *ResponseCache
	observer CacheObserver
	logger   *slog.Logger
}

// ClientStatus is the diagnostic view returned by Client.Status.
type ClientStatus struct {
	Queue QueueStatus `json:"queue"`
	Cache CacheStats  `json:"cache"`
}

// Options configures NewClient.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// Transport replaces the HTTP transport, mainly for tests.
	Transport Transport

	Queue         QueueOptions
	Cache         CacheOptions
	QueueObserver QueueObserver
	CacheObserver CacheObserver
	Logger        *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithBaseURL points the client at a different upstream root.
func WithBaseURL(url string) Option {
	return func(o *Options) { o.BaseURL = url }
}

// WithTimeout sets the per-call HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithTransport replaces the HTTP transport.
func WithTransport(t Transport) Option {
	return func(o *Options) { o.Transport = t }
}

// WithQueueOptions sets the queue configuration.
func WithQueueOptions(q QueueOptions) Option {
	return func(o *Options) { o.Queue = q }
}

// WithCacheOptions sets the cache configuration.
func WithCacheOptions(c CacheOptions) Option {
	return func(o *Options) { o.Cache = c }
}

// WithQueueObserver installs a queue lifecycle observer. It applies on top of
// WithQueueOptions regardless of option order.
func WithQueueObserver(obs QueueObserver) Option {
	return func(o *Options) { o.QueueObserver = obs }
}

// WithCacheObserver installs a cache hit/miss observer.
func WithCacheObserver(obs CacheObserver) Option {
	return func(o *Options) { o.CacheObserver = obs }
}

// WithLogger sets the logger shared by the client and its queue.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// NewClient builds a client. Both credentials must be non-blank.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	if strings.TrimSpace(creds.APIKey) == "" || strings.TrimSpace(creds.SecretKey) == "" {
		return nil, ErrMissingCredentials
	}
	o := Options{Timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Queue.Logger == nil {
		o.Queue.Logger = o.Logger
	}
	if o.QueueObserver != nil {
		o.Queue.Observer = o.QueueObserver
	}
	if o.Cache.Now == nil {
		o.Cache.Now = o.Queue.Now
	}
	if o.CacheObserver == nil {
		o.CacheObserver = NoopObserver
	}
	transport := o.Transport
	if transport == nil {
		transport = NewHTTPTransport(o.BaseURL, creds, o.Timeout)
	}
	return &Client{
		queue:    NewQueue(transport, o.Queue),
		cache:    NewResponseCache(o.Cache),
		observer: o.CacheObserver,
		logger:   o.Logger,
	}, nil
}

// Status reports queue, rate-limit and cache diagnostics.
func (c *Client) Status() ClientStatus {
	return ClientStatus{Queue: c.queue.Status(), Cache: c.cache.Stats()}
}

// RateLimits returns the live rate-limit windows.
func (c *Client) RateLimits() map[string]RateLimitState {
	return c.queue.Tracker().Snapshot()
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// ClearQueue rejects all pending calls with ErrQueueCleared.
func (c *Client) ClearQueue() int {
	return c.queue.ClearQueue()
}

// Close shuts the queue down.
func (c *Client) Close(ctx context.Context) error {
	return c.queue.Shutdown(ctx)
}

// cached runs the cache-aside cycle for key. decode validates the raw body;
// failures are returned without touching the cache.
func cached[T any](ctx context.Context, c *Client, key string, endpoint Endpoint, payload any, opts EnqueueOptions, decode func([]byte) (T, error)) (T, error) {
	class := CacheClass(key)
	if value, ok := getTyped[T](c.cache, key); ok {
		c.observer.OnCacheHit(class)
		return value, nil
	}
	c.observer.OnCacheMiss(class)

	var zero T
	resp, err := c.queue.Do(ctx, endpoint, payload, opts)
	if err != nil {
		return zero, err
	}
	value, err := decode(resp.Body)
	if err != nil {
		c.logger.Warn("registrar response failed validation", "endpoint", endpoint.Name, "error", err)
		return zero, err
	}
	c.cache.Set(key, value)
	return value, nil
}

// GetPricing returns the upstream pricing table. Cached for the pricing TTL.
func (c *Client) GetPricing(ctx context.Context) (PricingTable, error) {
	endpoint := EndpointPricing
	return cached(ctx, c, pricingKey(), endpoint, nil, EnqueueOptions{}, func(body []byte) (PricingTable, error) {
		return decodePricing(endpoint, body)
	})
}

// CheckAvailability checks a single domain at priority. Cached for the domain-check TTL.
func (c *Client) CheckAvailability(ctx context.Context, domain string) (Availability, error) {
	domain = normalizeDomain(domain)
	endpoint := EndpointCheckDomain(domain)
	return cached(ctx, c, domainCheckKey(domain), endpoint, nil, EnqueueOptions{Priority: true}, func(body []byte) (Availability, error) {
		return decodeAvailability(endpoint, domain, body)
	})
}

// Ping verifies credentials. Never cached.
func (c *Client) Ping(ctx context.Context) (PingResult, error) {
	resp, err := c.queue.Do(ctx, EndpointPing, nil, EnqueueOptions{Priority: true})
	if err != nil {
		return PingResult{}, err
	}
	return decodePing(EndpointPing, resp.Body)
}

func normalizeDomain(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}
