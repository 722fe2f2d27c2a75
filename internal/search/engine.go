package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"domainscout/internal/pricing"
	"domainscout/pkg/registrar"
)

// Registrar is the part of the registrar client a search needs.
type Registrar interface {
	GetPricing(ctx context.Context) (registrar.PricingTable, error)
	CheckAvailability(ctx context.Context, domain string) (registrar.Availability, error)
	RateLimits() map[string]registrar.RateLimitState
}

// Options configures an Engine.
type Options struct {
	// ConversionRate is platform units per USD. Defaults to 1.
	ConversionRate float64
	// MarkupPercent is a fraction added on top of the converted price.
	MarkupPercent float64
	Logger        *slog.Logger
	Observer      Observer
	Now           func() time.Time
}

// Engine runs domain searches against a Registrar.
type Engine struct {
	registrar Registrar
	rate      float64
	markup    float64
	logger    *slog.Logger
	observer  Observer
	now       func() time.Time
}

// NewEngine validates opts and builds an Engine.
func NewEngine(reg Registrar, opts Options) (*Engine, error) {
	if reg == nil {
		return nil, errors.New("search: registrar is required")
	}
	if opts.ConversionRate == 0 {
		opts.ConversionRate = 1
	}
	if opts.ConversionRate < 0 || opts.MarkupPercent < 0 {
		return nil, pricing.ErrNegativeAmount
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Observer == nil {
		opts.Observer = NoopObserver
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		registrar: reg,
		rate:      opts.ConversionRate,
		markup:    opts.MarkupPercent,
		logger:    opts.Logger,
		observer:  opts.Observer,
		now:       opts.Now,
	}, nil
}

// Search checks query under every filtered TLD, one at a time, and returns the
// accepted candidates sorted by the filters. A failed check skips that TLD only.
func (e *Engine) Search(ctx context.Context, query string, filters SearchFilters) (SearchResult, error) {
	start := e.now()
	if err := filters.Validate(); err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	filters = filters.normalized()
	name, err := NormalizeQuery(query)
	if err != nil {
		return SearchResult{}, err
	}

	domains := make([]string, len(filters.TLDs))
	for i, tld := range filters.TLDs {
		domains[i] = name + "." + tld
	}
	e.observer.OnSearchStart(name, domains)

	result, err := e.run(ctx, name, filters, domains)
	result.Query = name
	result.Filters = filters
	result.ConversionRate = e.rate
	result.MarkupPercent = e.markup
	result.TotalFound = len(result.Candidates)
	result.SearchTimeMs = e.now().Sub(start).Milliseconds()
	result.RateLimitSnapshot = e.registrar.RateLimits()
	e.observer.OnSearchEnd(result, err)
	if err != nil {
		return SearchResult{}, err
	}
	e.logger.Info("search completed",
		"query", name,
		"found", result.TotalFound,
		"skipped", len(result.Skipped),
		"duration_ms", result.SearchTimeMs,
	)
	return result, nil
}

func (e *Engine) run(ctx context.Context, name string, filters SearchFilters, domains []string) (SearchResult, error) {
	var result SearchResult
	table, err := e.registrar.GetPricing(ctx)
	if err != nil {
		return result, fmt.Errorf("search: fetch pricing: %w", err)
	}

	result.Candidates = make([]DomainCandidate, 0, len(domains))
	for i, domain := range domains {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		tld := filters.TLDs[i]
		event := CandidateEvent{Index: i, Total: len(domains), Domain: domain}
		e.emit(event, StageChecking, "", nil)

		avail, err := e.registrar.CheckAvailability(ctx, domain)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			e.logger.Warn("availability check failed, skipping", "domain", domain, "error", err)
			reason := "check failed: " + registrar.ErrorKind(err)
			result.Skipped = append(result.Skipped, SkippedCandidate{Domain: domain, Reason: reason})
			e.emit(event, StageFailed, reason, nil)
			continue
		}

		candidate, reason := e.evaluate(domain, name, tld, avail, table, filters)
		if reason != "" {
			e.logger.Debug("candidate skipped", "domain", domain, "reason", reason)
			result.Skipped = append(result.Skipped, SkippedCandidate{Domain: domain, Reason: reason})
			e.emit(event, StageSkipped, reason, nil)
			continue
		}
		result.Candidates = append(result.Candidates, candidate)
		e.emit(event, StageAccepted, "", &candidate)
	}

	SortCandidates(result.Candidates, filters.SortBy, filters.SortOrder)
	return result, nil
}

// evaluate builds the candidate or returns the reason it was filtered out.
func (e *Engine) evaluate(domain, name, tld string, avail registrar.Availability, table registrar.PricingTable, filters SearchFilters) (DomainCandidate, string) {
	if filters.RequireAvailable && !avail.Available {
		return DomainCandidate{}, "taken"
	}
	if avail.Premium && !filters.IncludePremium {
		return DomainCandidate{}, "premium"
	}
	if filters.MaxLength != nil && len(domain) > *filters.MaxLength {
		return DomainCandidate{}, fmt.Sprintf("longer than %d characters", *filters.MaxLength)
	}

	usd, source, ok := candidatePrice(avail, table, tld)
	if !ok {
		return DomainCandidate{}, "no price available"
	}
	if filters.MaxPriceUSD != nil && usd > *filters.MaxPriceUSD {
		return DomainCandidate{}, fmt.Sprintf("price %.2f USD above %.2f", usd, *filters.MaxPriceUSD)
	}
	conv, err := pricing.ToPlatformUnits(usd, e.rate, e.markup)
	if err != nil {
		return DomainCandidate{}, err.Error()
	}
	if filters.MaxPricePlatform != nil && conv.PlatformAmount > *filters.MaxPricePlatform {
		return DomainCandidate{}, fmt.Sprintf("price %d units above %d", conv.PlatformAmount, *filters.MaxPricePlatform)
	}

	return DomainCandidate{
		Domain:    domain,
		Name:      name,
		TLD:       tld,
		Available: avail.Available,
		Pricing:   buildPricing(usd, conv, avail.Premium, source),
		Metadata:  buildMetadata(domain, name),
	}, ""
}

func candidatePrice(avail registrar.Availability, table registrar.PricingTable, tld string) (float64, string, bool) {
	if avail.Price != "" {
		if usd, err := pricing.ParseUSD(avail.Price); err == nil {
			return usd, "availability", true
		}
	}
	if entry, ok := table[tld]; ok {
		if usd, err := pricing.ParseUSD(entry.Registration); err == nil {
			return usd, "pricing_table", true
		}
	}
	return 0, "", false
}

func (e *Engine) emit(event CandidateEvent, stage Stage, reason string, candidate *DomainCandidate) {
	event.Stage = stage
	event.Reason = reason
	event.Candidate = candidate
	event.At = e.now()
	e.observer.OnCandidate(event)
}
