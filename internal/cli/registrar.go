package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"domainscout/internal/pricing"
	"domainscout/pkg/registrar"
)

// argCount checks the number of positional arguments.
type argCount func(n int) bool

func exactly(want int) argCount { return func(n int) bool { return n == want } }
func atLeast(want int) argCount { return func(n int) bool { return n >= want } }

// runWithSession parses flags, opens a registrar session and runs fn with an
// interruptible context. fn errors are reported as "<Name> failed".
func runWithSession(cmd *Command, fs *flag.FlagSet, common *commonFlags, args []string, stdout, stderr io.Writer, nargs argCount, fn func(ctx context.Context, sess *session, positional []string) error) int {
	positional, code, ok := parseCommandArgs(cmd, fs, args, stdout, stderr)
	if !ok {
		return code
	}
	if !nargs(len(positional)) {
		fmt.Fprintf(stderr, "unexpected arguments: %q\n", positional)
		printCommandUsage(cmd, stderr)
		return ExitUsage
	}
	sess, err := openSession(*common, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s failed: %v\n", titleCase(cmd.Name), err)
		return ExitError
	}
	defer sess.close()

	ctx, cancel := commandContext()
	defer cancel()
	if err := fn(ctx, sess, positional); err != nil {
		fmt.Fprintf(stderr, "%s failed: %v\n", titleCase(cmd.Name), err)
		return ExitError
	}
	return ExitOK
}

func titleCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// runCheck builds the handler for the check command.
func runCheck(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		asJSON := fs.Bool("json", false, "Print results as JSON")
		return runWithSession(cmd, fs, &common, args, stdout, stderr, atLeast(1), func(ctx context.Context, sess *session, domains []string) error {
			results := make([]registrar.Availability, 0, len(domains))
			rows := make([][]string, 0, len(domains))
			for _, domain := range domains {
				avail, err := sess.client.CheckAvailability(ctx, domain)
				if err != nil {
					return fmt.Errorf("%s: %w", domain, err)
				}
				results = append(results, avail)
				rows = append(rows, []string{
					avail.Domain,
					yesNo(avail.Available),
					yesNo(avail.Premium),
					avail.Price,
				})
			}
			if *asJSON {
				return writeJSON(stdout, results)
			}
			fmt.Fprintln(stdout, renderTable([]string{"Domain", "Available", "Premium", "Price"}, rows))
			return nil
		})
	}
}

// runPricing builds the handler for the pricing command.
func runPricing(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		tlds := fs.String("tld", "", "Comma separated TLDs to show (default: all)")
		asJSON := fs.Bool("json", false, "Print the table as JSON")
		return runWithSession(cmd, fs, &common, args, stdout, stderr, exactly(0), func(ctx context.Context, sess *session, _ []string) error {
			table, err := sess.client.GetPricing(ctx)
			if err != nil {
				return err
			}
			selected := selectTLDs(table, splitList(*tlds))
			if *asJSON {
				out := make(registrar.PricingTable, len(selected))
				for _, tld := range selected {
					out[tld] = table[tld]
				}
				return writeJSON(stdout, out)
			}
			rate := sess.cfg.Pricing.ConversionRate
			markup := sess.cfg.Pricing.MarkupPercent
			rows := make([][]string, 0, len(selected))
			for _, tld := range selected {
				price := table[tld]
				units := ""
				if usd, err := pricing.ParseUSD(price.Registration); err == nil {
					if conv, err := pricing.ToPlatformUnits(usd, rate, markup); err == nil {
						units = strconv.FormatInt(conv.PlatformAmount, 10)
					}
				}
				rows = append(rows, []string{tld, price.Registration, price.Renewal, price.Transfer, units})
			}
			fmt.Fprintln(stdout, renderTable([]string{"TLD", "Register", "Renew", "Transfer", "Units"}, rows))
			return nil
		})
	}
}

// selectTLDs returns the wanted TLDs present in table, or every TLD sorted.
func selectTLDs(table registrar.PricingTable, wanted []string) []string {
	if len(wanted) == 0 {
		all := make([]string, 0, len(table))
		for tld := range table {
			all = append(all, tld)
		}
		sort.Strings(all)
		return all
	}
	var out []string
	for _, tld := range wanted {
		tld = strings.TrimPrefix(strings.ToLower(tld), ".")
		if _, ok := table[tld]; ok {
			out = append(out, tld)
		}
	}
	return out
}

// runDomains builds the handler for the domains command.
func runDomains(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		start := fs.Int("start", 0, "Offset into the account's domain list")
		labels := fs.Bool("labels", false, "Include domain labels")
		asJSON := fs.Bool("json", false, "Print domains as JSON")
		return runWithSession(cmd, fs, &common, args, stdout, stderr, exactly(0), func(ctx context.Context, sess *session, _ []string) error {
			domains, err := sess.client.ListDomains(ctx, *start, *labels)
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(stdout, domains)
			}
			rows := make([][]string, 0, len(domains))
			for _, d := range domains {
				rows = append(rows, []string{d.Domain, d.Status, d.ExpireDate, yesNo(bool(d.AutoRenew)), yesNo(bool(d.SecurityLock))})
			}
			fmt.Fprintln(stdout, renderTable([]string{"Domain", "Status", "Expires", "Auto-renew", "Locked"}, rows))
			return nil
		})
	}
}

// runDNS builds the handler for the dns command and its list/create subcommands.
func runDNS(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		if len(args) == 0 {
			fmt.Fprintln(stderr, "Missing subcommand (list or create)")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		switch args[0] {
		case "list":
			asJSON := fs.Bool("json", false, "Print records as JSON")
			return runWithSession(cmd, fs, &common, args[1:], stdout, stderr, exactly(1), func(ctx context.Context, sess *session, positional []string) error {
				records, err := sess.client.GetDNSRecords(ctx, positional[0])
				if err != nil {
					return err
				}
				if *asJSON {
					return writeJSON(stdout, records)
				}
				rows := make([][]string, 0, len(records))
				for _, r := range records {
					rows = append(rows, []string{r.ID, r.Name, r.Type, r.Content, r.TTL, r.Prio})
				}
				fmt.Fprintln(stdout, renderTable([]string{"ID", "Name", "Type", "Content", "TTL", "Prio"}, rows))
				return nil
			})
		case "create":
			var record registrar.NewDNSRecord
			fs.StringVar(&record.Name, "name", "", "Subdomain; empty for the apex")
			fs.StringVar(&record.Type, "type", "", "Record type (A, AAAA, CNAME, MX, TXT, ...)")
			fs.StringVar(&record.Content, "content", "", "Record content")
			fs.StringVar(&record.TTL, "ttl", "", "TTL in seconds")
			fs.StringVar(&record.Prio, "prio", "", "Priority for MX and SRV records")
			fs.StringVar(&record.Notes, "notes", "", "Free-form notes")
			return runWithSession(cmd, fs, &common, args[1:], stdout, stderr, exactly(1), func(ctx context.Context, sess *session, positional []string) error {
				id, err := sess.client.CreateDNSRecord(ctx, positional[0], record)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Created record %s\n", id)
				return nil
			})
		default:
			fmt.Fprintf(stderr, "Unknown dns subcommand: %s\n", args[0])
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
	}
}

// runForwards builds the handler for the forwards command.
func runForwards(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		asJSON := fs.Bool("json", false, "Print forwards as JSON")
		return runWithSession(cmd, fs, &common, args, stdout, stderr, exactly(1), func(ctx context.Context, sess *session, positional []string) error {
			forwards, err := sess.client.GetURLForwards(ctx, positional[0])
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(stdout, forwards)
			}
			rows := make([][]string, 0, len(forwards))
			for _, f := range forwards {
				rows = append(rows, []string{f.Subdomain, f.Location, f.Type, yesNo(bool(f.IncludePath)), yesNo(bool(f.Wildcard))})
			}
			fmt.Fprintln(stdout, renderTable([]string{"Subdomain", "Location", "Type", "Path", "Wildcard"}, rows))
			return nil
		})
	}
}

// runNameServers builds the handler for the ns command.
func runNameServers(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		asJSON := fs.Bool("json", false, "Print nameservers as JSON")
		return runWithSession(cmd, fs, &common, args, stdout, stderr, exactly(1), func(ctx context.Context, sess *session, positional []string) error {
			servers, err := sess.client.GetNameServers(ctx, positional[0])
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(stdout, servers)
			}
			for _, ns := range servers {
				fmt.Fprintln(stdout, ns)
			}
			return nil
		})
	}
}

// runPing builds the handler for the ping command.
func runPing(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(fs)
		return runWithSession(cmd, fs, &common, args, stdout, stderr, exactly(0), func(ctx context.Context, sess *session, _ []string) error {
			result, err := sess.client.Ping(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Credentials OK (your IP: %s)\n", result.YourIP)
			return nil
		})
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
