package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"domainscout/internal/metrics"
	"domainscout/internal/search"
)

// Searcher runs one domain search. *search.Engine satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, filters search.SearchFilters) (search.SearchResult, error)
}

// Config captures the settings for the HTTP API.
type Config struct {
	Addr string

	// Status backs /v1/status. Required.
	Status metrics.StatusSource
	// Metrics backs /metrics when set.
	Metrics http.Handler
	// Searcher backs /v1/search when set.
	Searcher Searcher
	// Filters are the defaults that /v1/search query parameters override.
	Filters search.SearchFilters
	// ExportPath is served at /data/searches.duckdb when set.
	ExportPath string

	Logger *slog.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

// NewHandler builds the HTTP handler.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Status == nil {
		return nil, errors.New("httpapi: status source is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", serveHealth)
	mux.Handle("GET /v1/status", serveStatus(cfg.Status))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	if cfg.Searcher != nil {
		mux.Handle("GET /v1/search", serveSearch(cfg.Searcher, cfg.Filters, logger))
	}
	if cfg.ExportPath != "" {
		mux.Handle("GET /data/searches.duckdb", serveExport(cfg.ExportPath))
	}
	return mux, nil
}

func serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// serveStatus reports queue, cache and rate-limit diagnostics.
func serveStatus(source metrics.StatusSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, source.Status())
	})
}

// serveSearch runs a search with filters taken from the query string.
func serveSearch(searcher Searcher, defaults search.SearchFilters, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()
		query := values.Get("q")
		if _, err := search.NormalizeQuery(query); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		filters, err := filtersFromQuery(values, defaults)
		if err == nil {
			err = filters.Validate()
		}
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		result, err := searcher.Search(r.Context(), query, filters)
		if err != nil {
			logger.Warn("search request failed", "query", query, "error", err)
			writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, result)
	})
}

// serveExport serves the DuckDB export file.
func serveExport(path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeFile(w, r, path)
	})
}

// filtersFromQuery overlays query parameters onto defaults.
func filtersFromQuery(values map[string][]string, defaults search.SearchFilters) (search.SearchFilters, error) {
	filters := defaults
	filters.TLDs = append([]string(nil), defaults.TLDs...)
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	if raw := values["tld"]; len(raw) > 0 {
		var tlds []string
		for _, item := range raw {
			tlds = append(tlds, splitList(item)...)
		}
		filters.TLDs = tlds
	}
	if v := get("max_price_usd"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, errors.New("max_price_usd must be a number")
		}
		filters.MaxPriceUSD = &parsed
	}
	if v := get("max_price_platform"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, errors.New("max_price_platform must be an integer")
		}
		filters.MaxPricePlatform = &parsed
	}
	if v := get("max_length"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return filters, errors.New("max_length must be an integer")
		}
		filters.MaxLength = &parsed
	}
	if v := get("include_premium"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return filters, errors.New("include_premium must be a boolean")
		}
		filters.IncludePremium = parsed
	}
	if v := get("require_available"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return filters, errors.New("require_available must be a boolean")
		}
		filters.RequireAvailable = parsed
	}
	if v := get("sort_by"); v != "" {
		filters.SortBy = search.SortKey(v)
	}
	if v := get("sort_order"); v != "" {
		filters.SortOrder = search.SortOrder(v)
	}
	return filters, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}
