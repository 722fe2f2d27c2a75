package registrar

import (
	"fmt"
	"strings"
)

const (
	pricingKeyPrefix     = "pricing"
	domainCheckKeyPrefix = "domain-check-"
)

// pricingKey is the cache key for the full pricing table.
func pricingKey() string {
	return pricingKeyPrefix
}

// domainCheckKey formats the cache key for an availability check.
func domainCheckKey(domain string) string {
	return domainCheckKeyPrefix + domain
}

// domainsListKey formats the cache key for a domain listing page.
func domainsListKey(start int, includeLabels bool) string {
	return fmt.Sprintf("domains-list-%d-%t", start, includeLabels)
}

// dnsRecordsKey formats the cache key for a domain's DNS records.
func dnsRecordsKey(domain string) string {
	return fmt.Sprintf("dns-records-%s", domain)
}

// urlForwardsKey formats the cache key for a domain's URL forwards.
func urlForwardsKey(domain string) string {
	return fmt.Sprintf("url-forwards-%s", domain)
}

// nameServersKey formats the cache key for a domain's nameservers.
func nameServersKey(domain string) string {
	return fmt.Sprintf("nameservers-%s", domain)
}

// CacheClass maps a cache key to a low-cardinality class name for metrics.
func CacheClass(key string) string {
	if key == pricingKeyPrefix {
		return "pricing"
	}
	if strings.HasPrefix(key, domainCheckKeyPrefix) {
		return "domain-check"
	}
	for _, class := range []string{"domains-list", "dns-records", "url-forwards", "nameservers"} {
		if strings.HasPrefix(key, class+"-") {
			return class
		}
	}
	return "other"
}
