package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Load reads, parses, applies environment overrides, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	return finish(cfg)
}

// LoadOrDefault loads path when it exists. A missing file yields the defaults,
// still subject to environment overrides and validation.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return finish(Config{})
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Config{})
	}
	return cfg, err
}

func finish(cfg Config) (Config, error) {
	ApplyEnv(&cfg, os.LookupEnv)
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
