package search

import (
	"cmp"
	"slices"
)

// popularTLDs is the preference order for SortByPopularity.
var popularTLDs = []string{
	"com", "net", "org", "io", "co", "ai", "app", "dev",
	"xyz", "me", "info", "biz", "tech", "online", "site", "store",
}

func popularityRank(tld string) int {
	if idx := slices.Index(popularTLDs, tld); idx >= 0 {
		return idx
	}
	return len(popularTLDs)
}

// SortCandidates orders candidates in place. Ties fall back to the domain name,
// ascending, whatever the order.
func SortCandidates(candidates []DomainCandidate, key SortKey, order SortOrder) {
	primary := comparator(key)
	slices.SortStableFunc(candidates, func(a, b DomainCandidate) int {
		c := primary(a, b)
		if order == SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Domain, b.Domain)
	})
}

func comparator(key SortKey) func(a, b DomainCandidate) int {
	switch key {
	case SortByLength:
		return func(a, b DomainCandidate) int {
			return cmp.Compare(a.Metadata.Length, b.Metadata.Length)
		}
	case SortByBrandability:
		return func(a, b DomainCandidate) int {
			return cmp.Compare(a.Metadata.Brandability, b.Metadata.Brandability)
		}
	case SortByPopularity:
		return func(a, b DomainCandidate) int {
			return cmp.Compare(popularityRank(a.TLD), popularityRank(b.TLD))
		}
	default:
		return func(a, b DomainCandidate) int {
			return cmp.Compare(a.Pricing.PlatformAmount, b.Pricing.PlatformAmount)
		}
	}
}
