package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"domainscout/internal/config"
)

func withInitInput(t *testing.T, input string) {
	t.Helper()
	prev := initInput
	initInput = strings.NewReader(input)
	t.Cleanup(func() { initInput = prev })
}

func TestInitWritesConfig(t *testing.T) {
	clearEnv(t)
	target := filepath.Join(t.TempDir(), ".domainscout", "config.yml")

	code, stdout, stderr := runCLI(t, "init", "--yes", "--config", target)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, stderr)
	}
	if !strings.Contains(stdout, "Wrote "+target) {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	if _, err := config.Load(target); err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
}

func TestInitRefusesToOverwrite(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "version: 1\n")

	code, _, stderr := runCLI(t, "init", "--yes", "--config", path)
	if code != ExitError || !strings.Contains(stderr, "already exists") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "version: 1\n" {
		t.Fatalf("config was modified: %q %v", data, err)
	}
}

func TestInitPrompts(t *testing.T) {
	clearEnv(t)

	t.Run("declined", func(t *testing.T) {
		withInitInput(t, "n\n")
		target := filepath.Join(t.TempDir(), "config.yml")
		code, stdout, stderr := runCLI(t, "init", "--config", target)
		if code != ExitError || !strings.Contains(stderr, "Init cancelled.") {
			t.Fatalf("unexpected result %d %q", code, stderr)
		}
		if !strings.Contains(stdout, "[Y/n]") {
			t.Fatalf("expected prompt, got %q", stdout)
		}
		if _, err := os.Stat(target); !os.IsNotExist(err) {
			t.Fatalf("expected no file, got %v", err)
		}
	})

	t.Run("default yes", func(t *testing.T) {
		withInitInput(t, "\n")
		target := filepath.Join(t.TempDir(), "config.yml")
		if code, _, stderr := runCLI(t, "init", "--config", target); code != ExitOK {
			t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, stderr)
		}
		if _, err := os.Stat(target); err != nil {
			t.Fatalf("expected config file: %v", err)
		}
	})

	t.Run("chosen tlds", func(t *testing.T) {
		withInitInput(t, "y\n.dev, app\n")
		target := filepath.Join(t.TempDir(), "config.yml")
		code, stdout, stderr := runCLI(t, "init", "--config", target)
		if code != ExitOK {
			t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, stderr)
		}
		if !strings.Contains(stdout, "Default TLDs to search [com,net,org,io]: ") {
			t.Fatalf("expected tld prompt, got %q", stdout)
		}
		cfg, err := config.Load(target)
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if got := strings.Join(cfg.Search.TLDs, ","); got != "dev,app" {
			t.Fatalf("unexpected tlds %q", got)
		}
	})
}
