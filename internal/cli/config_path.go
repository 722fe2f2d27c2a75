package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"domainscout/internal/config"
)

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadConfig loads an explicit config path, or the nearest discovered one.
// Without either, defaults plus environment credentials are used.
func loadConfig(configPath string) (config.Config, error) {
	path, err := resolveConfigPath(configPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.LoadOrDefault("")
	}
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}
