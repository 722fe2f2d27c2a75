package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  domainscout <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"domainscout <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .domainscout/config.yml", []string{
		"domainscout init [--config <path>] [--yes]",
	}, runInit),
	command("validate", "Validate the config file", []string{
		"domainscout validate [--config <path>]",
	}, runValidate),
	command("search", "Search a name across TLDs and rank the results", []string{
		"domainscout search <name> [--tld com,net] [--max-price <usd>] [--max-platform <units>] [--max-length <n>]",
		"                   [--include-premium] [--all] [--sort price|length|brandability|popularity] [--order asc|desc]",
		"                   [--ui auto|live|plain] [--json] [--export <file.duckdb>]",
	}, runSearch),
	command("check", "Check availability of one or more domains", []string{
		"domainscout check <domain>... [--json]",
	}, runCheck),
	command("pricing", "Show the registrar pricing table", []string{
		"domainscout pricing [--tld com,net] [--json]",
	}, runPricing),
	command("domains", "List domains in the account", []string{
		"domainscout domains [--start <n>] [--labels] [--json]",
	}, runDomains),
	command("dns", "List or create DNS records", []string{
		"domainscout dns list <domain> [--json]",
		"domainscout dns create <domain> --type <type> --content <value> [--name <sub>] [--ttl <s>] [--prio <n>] [--notes <text>]",
	}, runDNS),
	command("forwards", "List URL forwards for a domain", []string{
		"domainscout forwards <domain> [--json]",
	}, runForwards),
	command("ns", "List nameservers for a domain", []string{
		"domainscout ns <domain> [--json]",
	}, runNameServers),
	command("ping", "Check credentials and connectivity", []string{
		"domainscout ping",
	}, runPing),
	command("serve", "Serve metrics, status and search over HTTP", []string{
		"domainscout serve [--addr <host:port>] [--export <file.duckdb>]",
	}, runServe),
	command("history", "Show searches exported to a DuckDB file", []string{
		"domainscout history <file.duckdb> [--limit <n>] [--cheapest] [--json]",
	}, runHistory),
}
