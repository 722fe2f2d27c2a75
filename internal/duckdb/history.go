package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunSummary describes one exported search.
type RunSummary struct {
	RunID        string    `json:"run_id"`
	Query        string    `json:"query"`
	FiltersKey   string    `json:"filters_key"`
	StartedAt    time.Time `json:"started_at"`
	SearchTimeMs int64     `json:"search_time_ms"`
	TotalFound   int       `json:"total_found"`
	Skipped      int       `json:"skipped"`
}

// CheapestEntry is the lowest platform price seen for a TLD across all runs.
type CheapestEntry struct {
	TLD            string    `json:"tld"`
	Domain         string    `json:"domain"`
	PlatformAmount int64     `json:"platform_amount"`
	USD            float64   `json:"usd"`
	Query          string    `json:"query"`
	StartedAt      time.Time `json:"started_at"`
}

// ListRuns returns exported runs, newest first. A limit <= 0 returns all of them.
func ListRuns(ctx context.Context, db *sql.DB, limit int) ([]RunSummary, error) {
	query := `SELECT r.run_id, r.query, r.filters_key, r.started_at, r.search_time_ms, r.total_found,
		(SELECT count(*) FROM skipped_candidates s WHERE s.run_id = r.run_id)
		FROM search_runs r
		ORDER BY r.started_at DESC, r.run_id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.RunID, &run.Query, &run.FiltersKey, &run.StartedAt,
			&run.SearchTimeMs, &run.TotalFound, &run.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Cheapest returns one entry per TLD, ordered by TLD.
func Cheapest(ctx context.Context, db *sql.DB) ([]CheapestEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT tld, domain, platform_amount, price_usd, query, started_at FROM v_cheapest ORDER BY tld`)
	if err != nil {
		return nil, fmt.Errorf("query cheapest: %w", err)
	}
	defer rows.Close()

	var out []CheapestEntry
	for rows.Next() {
		var entry CheapestEntry
		if err := rows.Scan(&entry.TLD, &entry.Domain, &entry.PlatformAmount, &entry.USD,
			&entry.Query, &entry.StartedAt); err != nil {
			return nil, fmt.Errorf("scan cheapest: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
