package config

import (
	"strings"

	"domainscout/internal/search"
	"domainscout/pkg/registrar"
)

// Defaults applied by Normalize.
const (
	DefaultTimeoutMs          = 30_000
	DefaultMaxRetries         = 3
	DefaultBaseDelayMs        = 1_000
	DefaultMaxRateLimitWaitMs = 60_000
	DefaultSweepEvery         = 100
	DefaultConversionRate     = 1.0
	DefaultListenAddr         = "127.0.0.1:9464"
)

// Normalize fills unset fields with defaults.
func Normalize(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = registrar.DefaultBaseURL
	}
	if cfg.API.TimeoutMs == 0 {
		cfg.API.TimeoutMs = DefaultTimeoutMs
	}

	if cfg.Queue.MaxRetries == nil {
		retries := DefaultMaxRetries
		cfg.Queue.MaxRetries = &retries
	}
	if cfg.Queue.BaseDelayMs == 0 {
		cfg.Queue.BaseDelayMs = DefaultBaseDelayMs
	}
	if cfg.Queue.MaxRateLimitWaitMs == 0 {
		cfg.Queue.MaxRateLimitWaitMs = DefaultMaxRateLimitWaitMs
	}

	ttl := registrar.DefaultTTLPolicy()
	if cfg.Cache.PricingTTLSeconds == 0 {
		cfg.Cache.PricingTTLSeconds = int(ttl.Pricing.Seconds())
	}
	if cfg.Cache.DomainCheckTTLSeconds == 0 {
		cfg.Cache.DomainCheckTTLSeconds = int(ttl.DomainCheck.Seconds())
	}
	if cfg.Cache.DefaultTTLSeconds == 0 {
		cfg.Cache.DefaultTTLSeconds = int(ttl.Default.Seconds())
	}
	if cfg.Cache.SweepEvery == 0 {
		cfg.Cache.SweepEvery = DefaultSweepEvery
	}

	if cfg.Pricing.ConversionRate == 0 {
		cfg.Pricing.ConversionRate = DefaultConversionRate
	}

	defaults := search.DefaultFilters()
	if len(cfg.Search.TLDs) == 0 {
		cfg.Search.TLDs = defaults.TLDs
	}
	cfg.Search.TLDs = search.NormalizeTLDs(cfg.Search.TLDs)
	if cfg.Search.RequireAvailable == nil {
		require := defaults.RequireAvailable
		cfg.Search.RequireAvailable = &require
	}
	if cfg.Search.SortBy == "" {
		cfg.Search.SortBy = string(defaults.SortBy)
	}
	if cfg.Search.SortOrder == "" {
		cfg.Search.SortOrder = string(defaults.SortOrder)
	}

	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = DefaultListenAddr
	}
}
