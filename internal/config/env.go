package config

import "strings"

// Environment variables that override file values.
const (
	EnvAPIKey    = "DOMAINSCOUT_API_KEY"
	EnvSecretKey = "DOMAINSCOUT_SECRET_KEY"
	EnvBaseURL   = "DOMAINSCOUT_BASE_URL"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overwrites credentials and the base URL with non-empty environment values.
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	if value, ok := getEnv(lookup, EnvAPIKey); ok {
		cfg.API.APIKey = value
	}
	if value, ok := getEnv(lookup, EnvSecretKey); ok {
		cfg.API.SecretKey = value
	}
	if value, ok := getEnv(lookup, EnvBaseURL); ok {
		cfg.API.BaseURL = value
	}
}

func getEnv(lookup LookupFunc, key string) (string, bool) {
	value, ok := lookup(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
