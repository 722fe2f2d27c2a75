package config

import (
	"time"

	"domainscout/internal/search"
	"domainscout/pkg/registrar"
)

// Credentials returns the API credentials.
func (c Config) Credentials() registrar.Credentials {
	return registrar.Credentials{APIKey: c.API.APIKey, SecretKey: c.API.SecretKey}
}

// ClientOptions maps the api, queue and cache sections onto registrar options.
func (c Config) ClientOptions() []registrar.Option {
	retry := registrar.RetryPolicy{
		MaxRetries: *c.Queue.MaxRetries,
		BaseDelay:  millis(c.Queue.BaseDelayMs),
	}
	return []registrar.Option{
		registrar.WithBaseURL(c.API.BaseURL),
		registrar.WithTimeout(millis(c.API.TimeoutMs)),
		registrar.WithQueueOptions(registrar.QueueOptions{
			Retry:            &retry,
			MaxRateLimitWait: millis(c.Queue.MaxRateLimitWaitMs),
			MinInterval:      millis(c.Queue.MinIntervalMs),
		}),
		registrar.WithCacheOptions(registrar.CacheOptions{
			Policy: registrar.TTLPolicy{
				Pricing:     seconds(c.Cache.PricingTTLSeconds),
				DomainCheck: seconds(c.Cache.DomainCheckTTLSeconds),
				Default:     seconds(c.Cache.DefaultTTLSeconds),
			},
			SweepEvery: c.Cache.SweepEvery,
		}),
	}
}

// SearchFilters converts the search section into filters.
func SearchFilters(s SearchConfig) search.SearchFilters {
	filters := search.SearchFilters{
		TLDs:             append([]string(nil), s.TLDs...),
		MaxPriceUSD:      s.MaxPriceUSD,
		MaxPricePlatform: s.MaxPricePlatform,
		MaxLength:        s.MaxLength,
		IncludePremium:   s.IncludePremium,
		SortBy:           search.SortKey(s.SortBy),
		SortOrder:        search.SortOrder(s.SortOrder),
	}
	if s.RequireAvailable != nil {
		filters.RequireAvailable = *s.RequireAvailable
	}
	return filters
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func seconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}
