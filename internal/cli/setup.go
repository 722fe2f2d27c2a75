package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"domainscout/internal/config"
	"domainscout/pkg/registrar"
)

// commonFlags are shared by every command that reads the config.
type commonFlags struct {
	configPath string
	verbose    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to config file (default: search for .domainscout/config.yml)")
	fs.BoolVar(&c.verbose, "verbose", false, "Enable debug logging on stderr")
}

// parseArgs parses flags that may appear before or after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// parseCommandArgs runs parseArgs and reports usage problems. ok is false when
// the caller should return code.
func parseCommandArgs(cmd *Command, fs *flag.FlagSet, args []string, stdout, stderr io.Writer) ([]string, int, bool) {
	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(cmd, stdout)
			return nil, ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return nil, ExitUsage, false
	}
	return positional, ExitOK, true
}

// newFlagSet returns a flag set that reports errors to stderr.
func newFlagSet(cmd *Command, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// newLogger builds the stderr logger. Warnings only unless verbose.
func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// session bundles what registrar-backed commands need.
type session struct {
	cfg    config.Config
	client *registrar.Client
	logger *slog.Logger
}

// openSession loads the config and builds a client. extra options are applied last.
func openSession(flags commonFlags, stderr io.Writer, extra ...registrar.Option) (*session, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(stderr, flags.verbose)
	opts := append(cfg.ClientOptions(), registrar.WithLogger(logger))
	opts = append(opts, extra...)
	client, err := registrar.NewClient(cfg.Credentials(), opts...)
	if errors.Is(err, registrar.ErrMissingCredentials) {
		return nil, fmt.Errorf("%w: set %s and %s or api.api_key and api.secret_key",
			err, config.EnvAPIKey, config.EnvSecretKey)
	}
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, client: client, logger: logger}, nil
}

// close shuts the client queue down, waiting briefly for in-flight work.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Close(ctx); err != nil {
		s.logger.Debug("client shutdown", "error", err)
	}
}

// commandContext is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// splitList splits comma separated values, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
