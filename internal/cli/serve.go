package cli

import (
	"fmt"
	"io"

	"domainscout/internal/config"
	"domainscout/internal/httpapi"
	"domainscout/internal/metrics"
	"domainscout/internal/search"
	"domainscout/pkg/registrar"
)

// serveHTTP is a test seam for running the HTTP API.
var serveHTTP = httpapi.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		addr := fs.String("addr", "", "Address to listen on (default: metrics.listen_addr)")
		exportPath := fs.String("export", "", "DuckDB export file to offer for download")
		positional, code, ok := parseCommandArgs(cmd, fs, args, stdout, stderr)
		if !ok {
			return code
		}
		if len(positional) > 0 {
			fmt.Fprintln(stderr, "Too many arguments")
			return ExitUsage
		}

		m := metrics.New()
		sess, err := openSession(common, stderr,
			registrar.WithQueueObserver(m),
			registrar.WithCacheObserver(m),
		)
		if err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}
		defer sess.close()
		if err := m.Watch(sess.client); err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}

		engine, err := search.NewEngine(sess.client, search.Options{
			ConversionRate: sess.cfg.Pricing.ConversionRate,
			MarkupPercent:  sess.cfg.Pricing.MarkupPercent,
			Logger:         sess.logger,
			Observer:       search.MultiObserver{m, plainProgress{w: stderr}},
		})
		if err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}

		listen := *addr
		if listen == "" {
			listen = sess.cfg.Metrics.ListenAddr
		}
		cfg := httpapi.Config{
			Addr:       listen,
			Status:     sess.client,
			Metrics:    m.Handler(),
			Searcher:   engine,
			Filters:    config.SearchFilters(sess.cfg.Search),
			ExportPath: *exportPath,
			Logger:     sess.logger,
		}

		ctx, cancel := commandContext()
		defer cancel()
		fmt.Fprintf(stdout, "Serving on http://%s\n", cfg.Addr)
		if err := serveHTTP(ctx, cfg); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
