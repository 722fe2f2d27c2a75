package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"domainscout/internal/search"
)

// DefaultTLDs seeds the search.tlds list of a scaffolded config.
var DefaultTLDs = []string{"com", "net", "org", "io"}

const defaultConfig = `version: 1
api:
  # Credentials can also come from DOMAINSCOUT_API_KEY and DOMAINSCOUT_SECRET_KEY.
  base_url: "https://api.porkbun.com/api/json/v3"
  api_key: ""
  secret_key: ""
  timeout_ms: 30000

queue:
  max_retries: 3
  base_delay_ms: 1000
  max_rate_limit_wait_ms: 60000
  min_interval_ms: 0

cache:
  pricing_ttl_seconds: 86400
  domain_check_ttl_seconds: 60
  default_ttl_seconds: 300
  sweep_every: 100

pricing:
  conversion_rate: 100
  markup_percent: 0.1

search:
  tlds: [%s]
  require_available: true
  include_premium: false
  sort_by: "price"
  sort_order: "asc"

metrics:
  listen_addr: "127.0.0.1:9464"
`

// Scaffold writes a commented default config to path, refusing to overwrite.
// tlds replaces DefaultTLDs when given.
func Scaffold(path string, tlds ...string) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", path)
		}
		return fmt.Errorf("config file already exists at %q", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(renderScaffold(tlds)), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func renderScaffold(tlds []string) string {
	tlds = search.NormalizeTLDs(tlds)
	if len(tlds) == 0 {
		tlds = DefaultTLDs
	}
	quoted := make([]string, len(tlds))
	for i, tld := range tlds {
		quoted[i] = strconv.Quote(tld)
	}
	return fmt.Sprintf(defaultConfig, strings.Join(quoted, ", "))
}
