package config

// Config is the domainscout YAML configuration.
type Config struct {
	Version int           `yaml:"version"`
	API     APIConfig     `yaml:"api"`
	Queue   QueueConfig   `yaml:"queue"`
	Cache   CacheConfig   `yaml:"cache"`
	Pricing PricingConfig `yaml:"pricing"`
	Search  SearchConfig  `yaml:"search"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// APIConfig points at the registrar API. Keys may be left empty and supplied by environment.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	SecretKey string `yaml:"secret_key"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// QueueConfig tunes the request queue.
type QueueConfig struct {
	MaxRetries         *int `yaml:"max_retries"`
	BaseDelayMs        int  `yaml:"base_delay_ms"`
	MaxRateLimitWaitMs int  `yaml:"max_rate_limit_wait_ms"`
	MinIntervalMs      int  `yaml:"min_interval_ms"`
}

// CacheConfig sets the TTL classes of the response cache.
type CacheConfig struct {
	PricingTTLSeconds     int `yaml:"pricing_ttl_seconds"`
	DomainCheckTTLSeconds int `yaml:"domain_check_ttl_seconds"`
	DefaultTTLSeconds     int `yaml:"default_ttl_seconds"`
	SweepEvery            int `yaml:"sweep_every"`
}

// PricingConfig converts USD prices into platform units.
type PricingConfig struct {
	ConversionRate float64 `yaml:"conversion_rate"`
	MarkupPercent  float64 `yaml:"markup_percent"`
}

// SearchConfig holds default search filters.
type SearchConfig struct {
	TLDs             []string `yaml:"tlds"`
	MaxPriceUSD      *float64 `yaml:"max_price_usd"`
	MaxPricePlatform *int64   `yaml:"max_price_platform"`
	MaxLength        *int     `yaml:"max_length"`
	IncludePremium   bool     `yaml:"include_premium"`
	RequireAvailable *bool    `yaml:"require_available"`
	SortBy           string   `yaml:"sort_by"`
	SortOrder        string   `yaml:"sort_order"`
}

// MetricsConfig configures the serve command.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}
