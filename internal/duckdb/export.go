package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"domainscout/internal/search"

	"github.com/google/uuid"
)

// ExportSearch writes one search result as a new run and returns its id.
// Everything is inserted in a single transaction.
func ExportSearch(ctx context.Context, db *sql.DB, result search.SearchResult, startedAt time.Time) (string, error) {
	if db == nil {
		return "", errors.New("duckdb: db is nil")
	}
	filters, err := CanonicalJSON(result.Filters)
	if err != nil {
		return "", fmt.Errorf("encode filters: %w", err)
	}
	filtersKey := fingerprintBytes(filters)
	runID := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin export: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `INSERT INTO search_runs
		(run_id, query, filters, filters_key, started_at, search_time_ms, total_found, conversion_rate, markup_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.Query, string(filters), filtersKey, startedAt.UTC(),
		result.SearchTimeMs, result.TotalFound, result.ConversionRate, result.MarkupPercent,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, cand := range result.Candidates {
		if _, err := tx.ExecContext(ctx, `INSERT INTO candidates
			(run_id, rank, domain, name, tld, available, price_usd, platform_amount, platform_fee,
			 premium, price_source, length, has_digits, has_hyphens, readability, brandability)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i+1, cand.Domain, cand.Name, cand.TLD, cand.Available,
			cand.Pricing.USD, cand.Pricing.PlatformAmount, cand.Pricing.PlatformFee,
			cand.Pricing.Premium, cand.Pricing.Source,
			cand.Metadata.Length, cand.Metadata.HasDigits, cand.Metadata.HasHyphens,
			cand.Metadata.Readability, cand.Metadata.Brandability,
		); err != nil {
			return "", fmt.Errorf("insert candidate %s: %w", cand.Domain, err)
		}
	}

	for _, skip := range result.Skipped {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skipped_candidates (run_id, domain, reason) VALUES (?, ?, ?)`,
			runID, skip.Domain, skip.Reason,
		); err != nil {
			return "", fmt.Errorf("insert skipped %s: %w", skip.Domain, err)
		}
	}

	endpoints := make([]string, 0, len(result.RateLimitSnapshot))
	for endpoint := range result.RateLimitSnapshot {
		endpoints = append(endpoints, endpoint)
	}
	sort.Strings(endpoints)
	for _, endpoint := range endpoints {
		state := result.RateLimitSnapshot[endpoint]
		if _, err := tx.ExecContext(ctx, `INSERT INTO rate_limit_snapshots
			(run_id, endpoint, remaining, limit_value, reset_time) VALUES (?, ?, ?, ?, ?)`,
			runID, endpoint, state.Remaining, state.Limit, state.ResetTime.UTC(),
		); err != nil {
			return "", fmt.Errorf("insert rate limit %s: %w", endpoint, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit export: %w", err)
	}
	return runID, nil
}
