package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Loader handles loading configuration files.
type Loader struct {
	configDir string
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new config loader rooted at configDir.
func NewLoader(configDir string) *Loader {
	return &Loader{configDir: configDir, lookupEnv: os.LookupEnv}
}

// LoadFile loads a configuration from a specific file path.
// Environment variables in the file are expanded before parsing.
// Supports ${VAR} and ${VAR:-default} syntax.
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = ExpandEnvBytes(data, l.lookupEnv)

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return cfg, nil
}

// Load reads path if it exists, falling back to defaults when it does not,
// then applies environment overrides and validates the result.
func (l *Loader) Load(path string) (*Config, error) {
	cfg, err := l.LoadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed for %s:\n%w", path, err)
	}

	return cfg, nil
}

// LoadDefault loads config.json from the config directory.
func (l *Loader) LoadDefault() (*Config, error) {
	return l.Load(filepath.Join(l.configDir, "config.json"))
}
