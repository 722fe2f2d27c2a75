// Package search checks a name across TLDs, prices, scores and ranks the results.
package search

import (
	"domainscout/internal/pricing"
	"domainscout/pkg/registrar"
)

// CandidatePricing is the price of one candidate in both currencies.
type CandidatePricing struct {
	USD            float64 `json:"usd"`
	PlatformAmount int64   `json:"platform_amount"`
	PlatformFee    float64 `json:"platform_fee"`
	Premium        bool    `json:"premium"`
	// Source is "availability" or "pricing_table".
	Source string `json:"source"`
}

// CandidateMetadata holds the derived properties of a candidate name.
type CandidateMetadata struct {
	Length       int  `json:"length"`
	HasDigits    bool `json:"has_digits"`
	HasHyphens   bool `json:"has_hyphens"`
	Readability  int  `json:"readability"`
	Brandability int  `json:"brandability"`
}

// DomainCandidate is one priced, scored domain. Immutable once built.
type DomainCandidate struct {
	Domain    string            `json:"domain"`
	Name      string            `json:"name"`
	TLD       string            `json:"tld"`
	Available bool              `json:"available"`
	Pricing   CandidatePricing  `json:"pricing"`
	Metadata  CandidateMetadata `json:"metadata"`
}

// SkippedCandidate records why a domain did not make it into the results.
type SkippedCandidate struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	Query             string                              `json:"query"`
	Filters           SearchFilters                       `json:"filters"`
	Candidates        []DomainCandidate                   `json:"candidates"`
	Skipped           []SkippedCandidate                  `json:"skipped,omitempty"`
	TotalFound        int                                 `json:"total_found"`
	SearchTimeMs      int64                               `json:"search_time_ms"`
	RateLimitSnapshot map[string]registrar.RateLimitState `json:"rate_limits"`
	ConversionRate    float64                             `json:"conversion_rate"`
	MarkupPercent     float64                             `json:"markup_percent"`
}

func buildPricing(usd float64, conv pricing.Conversion, premium bool, source string) CandidatePricing {
	return CandidatePricing{
		USD:            usd,
		PlatformAmount: conv.PlatformAmount,
		PlatformFee:    conv.PlatformFee,
		Premium:        premium,
		Source:         source,
	}
}
