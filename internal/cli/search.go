package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"domainscout/internal/config"
	"domainscout/internal/duckdb"
	"domainscout/internal/search"
	"domainscout/internal/ui/live"
	"domainscout/pkg/registrar"
)

// startLiveUI is a test seam for the Bubble Tea controller.
var startLiveUI = live.Start

// searchFlags holds the filter overrides of the search command.
type searchFlags struct {
	tlds           string
	maxPrice       float64
	maxPlatform    int64
	maxLength      int
	includePremium bool
	all            bool
	sortBy         string
	order          string
}

func (f *searchFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.tlds, "tld", "", "Comma separated TLDs (default from config)")
	fs.Float64Var(&f.maxPrice, "max-price", 0, "Maximum price in USD")
	fs.Int64Var(&f.maxPlatform, "max-platform", 0, "Maximum price in platform units")
	fs.IntVar(&f.maxLength, "max-length", 0, "Maximum domain length including the TLD")
	fs.BoolVar(&f.includePremium, "include-premium", false, "Keep premium domains")
	fs.BoolVar(&f.all, "all", false, "Keep taken domains in the results")
	fs.StringVar(&f.sortBy, "sort", "", "Sort key: price, length, brandability or popularity")
	fs.StringVar(&f.order, "order", "", "Sort order: asc or desc")
}

// apply overlays the flags that were set explicitly onto base.
func (f *searchFlags) apply(fs *flag.FlagSet, base search.SearchFilters) search.SearchFilters {
	filters := base
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "tld":
			filters.TLDs = splitList(f.tlds)
		case "max-price":
			value := f.maxPrice
			filters.MaxPriceUSD = &value
		case "max-platform":
			value := f.maxPlatform
			filters.MaxPricePlatform = &value
		case "max-length":
			value := f.maxLength
			filters.MaxLength = &value
		case "include-premium":
			filters.IncludePremium = f.includePremium
		case "all":
			filters.RequireAvailable = !f.all
		case "sort":
			filters.SortBy = search.SortKey(f.sortBy)
		case "order":
			filters.SortOrder = search.SortOrder(f.order)
		}
	})
	return filters
}

// runSearch builds the handler for the search command.
func runSearch(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		var overrides searchFlags
		overrides.register(fs)
		uiMode := fs.String("ui", "auto", "Output mode: auto, live or plain")
		asJSON := fs.Bool("json", false, "Print the result as JSON")
		exportPath := fs.String("export", "", "Append the result to a DuckDB file")
		positional, code, ok := parseCommandArgs(cmd, fs, args, stdout, stderr)
		if !ok {
			return code
		}
		if len(positional) != 1 {
			fmt.Fprintln(stderr, "Expected exactly one <name>")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		decision, err := resolveUIMode(*uiMode, common.verbose || *asJSON, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		ctx, cancel := commandContext()
		defer cancel()
		// The live UI reads ctrl+c as a key press, so quitting it cancels the search.
		ctx, cancelSearch := context.WithCancel(ctx)
		defer cancelSearch()

		var controller *live.Controller
		var observer search.Observer = search.NoopObserver
		var extra []registrar.Option
		switch {
		case decision.useLive:
			controller = startLiveUI(stdout, live.Options{OnQuit: cancelSearch})
			observer = controller
			extra = append(extra, registrar.WithQueueObserver(controller))
		case !*asJSON:
			observer = plainProgress{w: stderr}
		}
		stopUI := func() {
			if controller != nil {
				controller.Close()
				controller.Wait()
			}
		}

		sess, err := openSession(common, stderr, extra...)
		if err != nil {
			stopUI()
			fmt.Fprintf(stderr, "Search failed: %v\n", err)
			return ExitError
		}
		defer sess.close()

		engine, err := search.NewEngine(sess.client, search.Options{
			ConversionRate: sess.cfg.Pricing.ConversionRate,
			MarkupPercent:  sess.cfg.Pricing.MarkupPercent,
			Logger:         sess.logger,
			Observer:       observer,
		})
		if err != nil {
			stopUI()
			fmt.Fprintf(stderr, "Search failed: %v\n", err)
			return ExitError
		}

		filters := overrides.apply(fs, config.SearchFilters(sess.cfg.Search))
		started := time.Now()
		result, err := engine.Search(ctx, positional[0], filters)
		stopUI()
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, "Search cancelled")
			return ExitError
		}
		if err != nil {
			fmt.Fprintf(stderr, "Search failed: %v\n", err)
			return ExitError
		}

		if *exportPath != "" {
			runID, err := exportResult(ctx, *exportPath, result, started)
			if err != nil {
				fmt.Fprintf(stderr, "Export failed: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stderr, "Exported run %s to %s\n", runID, *exportPath)
		}

		if *asJSON {
			if err := writeJSON(stdout, result); err != nil {
				fmt.Fprintf(stderr, "Write failed: %v\n", err)
				return ExitError
			}
			return ExitOK
		}
		printSearchResult(stdout, result)
		return ExitOK
	}
}

// exportResult appends result to the DuckDB file at path.
func exportResult(ctx context.Context, path string, result search.SearchResult, started time.Time) (string, error) {
	db, err := duckdb.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer db.Close()
	return duckdb.ExportSearch(ctx, db, result, started)
}
