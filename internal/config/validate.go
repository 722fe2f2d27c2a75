package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks a normalized config. Credentials are not required here;
// commands that talk to the API check them when building the client.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	validateAPI(cfg.API, collector.add)
	validateQueue(cfg.Queue, collector.add)
	validateCache(cfg.Cache, collector.add)
	validatePricing(cfg.Pricing, collector.add)
	validateSearch(cfg.Search, collector.add)
	if strings.TrimSpace(cfg.Metrics.ListenAddr) == "" {
		collector.add("metrics.listen_addr", "is required")
	}

	return collector.result()
}

func validateAPI(api APIConfig, add issueAdder) {
	parsed, err := url.Parse(api.BaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		add("api.base_url", fmt.Sprintf("must be an http(s) URL, got %q", api.BaseURL))
	}
	if api.TimeoutMs < 1 {
		add("api.timeout_ms", "must be >= 1")
	}
}

func validateQueue(queue QueueConfig, add issueAdder) {
	if queue.MaxRetries != nil && *queue.MaxRetries < 0 {
		add("queue.max_retries", "must be >= 0")
	}
	if queue.BaseDelayMs < 1 {
		add("queue.base_delay_ms", "must be >= 1")
	}
	if queue.MaxRateLimitWaitMs < 1 {
		add("queue.max_rate_limit_wait_ms", "must be >= 1")
	}
	if queue.MinIntervalMs < 0 {
		add("queue.min_interval_ms", "must be >= 0")
	}
}

func validateCache(cache CacheConfig, add issueAdder) {
	if cache.PricingTTLSeconds < 1 {
		add("cache.pricing_ttl_seconds", "must be >= 1")
	}
	if cache.DomainCheckTTLSeconds < 1 {
		add("cache.domain_check_ttl_seconds", "must be >= 1")
	}
	if cache.DefaultTTLSeconds < 1 {
		add("cache.default_ttl_seconds", "must be >= 1")
	}
	if cache.SweepEvery < 1 {
		add("cache.sweep_every", "must be >= 1")
	}
}

func validatePricing(pricing PricingConfig, add issueAdder) {
	if pricing.ConversionRate <= 0 {
		add("pricing.conversion_rate", "must be > 0")
	}
	if pricing.MarkupPercent < 0 {
		add("pricing.markup_percent", "must be >= 0")
	}
}

func validateSearch(cfg SearchConfig, add issueAdder) {
	filters := SearchFilters(cfg)
	if err := filters.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			add("search", line)
		}
	}
}
