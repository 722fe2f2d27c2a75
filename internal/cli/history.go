package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"domainscout/internal/duckdb"
)

// runHistory builds the handler for the history command.
func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		limit := fs.Int("limit", 20, "Maximum runs to show; 0 for all")
		cheapest := fs.Bool("cheapest", false, "Show the cheapest domain seen per TLD instead")
		asJSON := fs.Bool("json", false, "Print as JSON")
		positional, code, ok := parseCommandArgs(cmd, fs, args, stdout, stderr)
		if !ok {
			return code
		}
		if len(positional) != 1 {
			fmt.Fprintln(stderr, "Missing <file.duckdb>")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		dbPath := positional[0]
		if _, err := os.Stat(dbPath); err != nil {
			fmt.Fprintf(stderr, "Database not found: %v\n", err)
			return ExitError
		}

		ctx := context.Background()
		db, err := duckdb.Open(ctx, dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		defer db.Close()

		if *cheapest {
			entries, err := duckdb.Cheapest(ctx, db)
			if err != nil {
				fmt.Fprintf(stderr, "History failed: %v\n", err)
				return ExitError
			}
			if *asJSON {
				return exitFor(writeJSON(stdout, entries), stderr)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.TLD, e.Domain, fmt.Sprintf("$%.2f", e.USD), strconv.FormatInt(e.PlatformAmount, 10), e.StartedAt.Format("2006-01-02 15:04")})
			}
			fmt.Fprintln(stdout, renderTable([]string{"TLD", "Domain", "USD", "Units", "Seen"}, rows))
			return ExitOK
		}

		runs, err := duckdb.ListRuns(ctx, db, *limit)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		if *asJSON {
			return exitFor(writeJSON(stdout, runs), stderr)
		}
		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{
				r.StartedAt.Format("2006-01-02 15:04"),
				r.Query,
				strconv.Itoa(r.TotalFound),
				strconv.Itoa(r.Skipped),
				strconv.FormatInt(r.SearchTimeMs, 10) + "ms",
				r.RunID,
			})
		}
		fmt.Fprintln(stdout, renderTable([]string{"Started", "Query", "Found", "Skipped", "Took", "Run"}, rows))
		return ExitOK
	}
}

// exitFor maps a write error to an exit code.
func exitFor(err error, stderr io.Writer) int {
	if err != nil {
		fmt.Fprintf(stderr, "Write failed: %v\n", err)
		return ExitError
	}
	return ExitOK
}
