package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// SortKey selects the primary ordering of candidates.
type SortKey string

const (
	SortByPrice        SortKey = "price"
	SortByLength       SortKey = "length"
	// SortByBrandability orders by score like the other keys, so asc puts the
	// least brandable first. Use desc for best-first.
	SortByBrandability SortKey = "brandability"
	SortByPopularity   SortKey = "popularity"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var tldPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*$`)

// SearchFilters constrains and orders a search. Nil pointers mean "no limit".
type SearchFilters struct {
	TLDs             []string  `json:"tlds" yaml:"tlds"`
	MaxPriceUSD      *float64  `json:"max_price_usd,omitempty" yaml:"max_price_usd"`
	MaxPricePlatform *int64    `json:"max_price_platform,omitempty" yaml:"max_price_platform"`
	MaxLength        *int      `json:"max_length,omitempty" yaml:"max_length"`
	IncludePremium   bool      `json:"include_premium" yaml:"include_premium"`
	RequireAvailable bool      `json:"require_available" yaml:"require_available"`
	SortBy           SortKey   `json:"sort_by" yaml:"sort_by"`
	SortOrder        SortOrder `json:"sort_order" yaml:"sort_order"`
}

// DefaultFilters checks the common TLDs, hides premium and taken names, cheapest first.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		TLDs:             []string{"com", "net", "org", "io"},
		RequireAvailable: true,
		SortBy:           SortByPrice,
		SortOrder:        SortAsc,
	}
}

// ParseSortKey parses a sort key name.
func ParseSortKey(value string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(value)))
	switch key {
	case SortByPrice, SortByLength, SortByBrandability, SortByPopularity:
		return key, nil
	case "":
		return SortByPrice, nil
	default:
		return "", fmt.Errorf("invalid sort key %q (expected price|length|brandability|popularity)", value)
	}
}

// ParseSortOrder parses a sort order name.
func ParseSortOrder(value string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(value)))
	switch order {
	case SortAsc, SortDesc:
		return order, nil
	case "":
		return SortAsc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q (expected asc|desc)", value)
	}
}

// NormalizeTLDs lowercases, strips leading dots and drops duplicates, keeping first-seen order.
func NormalizeTLDs(tlds []string) []string {
	seen := make(map[string]struct{}, len(tlds))
	out := make([]string, 0, len(tlds))
	for _, tld := range tlds {
		tld = strings.TrimLeft(strings.ToLower(strings.TrimSpace(tld)), ".")
		if tld == "" {
			continue
		}
		if _, ok := seen[tld]; ok {
			continue
		}
		seen[tld] = struct{}{}
		out = append(out, tld)
	}
	return out
}

// Validate reports every problem with the filters.
func (f SearchFilters) Validate() error {
	var errs []error
	tlds := NormalizeTLDs(f.TLDs)
	if len(tlds) == 0 {
		errs = append(errs, errors.New("at least one tld is required"))
	}
	for _, tld := range tlds {
		if !tldPattern.MatchString(tld) {
			errs = append(errs, fmt.Errorf("invalid tld %q", tld))
		}
	}
	if f.MaxPriceUSD != nil && *f.MaxPriceUSD < 0 {
		errs = append(errs, errors.New("max_price_usd must not be negative"))
	}
	if f.MaxPricePlatform != nil && *f.MaxPricePlatform < 0 {
		errs = append(errs, errors.New("max_price_platform must not be negative"))
	}
	if f.MaxLength != nil && *f.MaxLength <= 0 {
		errs = append(errs, errors.New("max_length must be positive"))
	}
	if _, err := ParseSortKey(string(f.SortBy)); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseSortOrder(string(f.SortOrder)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// normalized returns a copy with TLDs cleaned and empty sort settings defaulted.
func (f SearchFilters) normalized() SearchFilters {
	f.TLDs = NormalizeTLDs(f.TLDs)
	f.SortBy, _ = ParseSortKey(string(f.SortBy))
	f.SortOrder, _ = ParseSortOrder(string(f.SortOrder))
	return f
}
