package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// IsRosterFile reports whether path has an extension LoadFile understands.
func IsRosterFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadFile reads and validates a roster file. The format is chosen by
// extension: .yaml/.yml or .json. A roster without a name takes the file's
// base name.
func LoadFile(path string) (Roster, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsRosterFile(path) {
		return Roster{}, fmt.Errorf("unsupported roster format %q: %s", ext, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("failed to read roster file: %w", err)
	}

	var r Roster
	if ext == ".json" {
		if err := json.Unmarshal(data, &r); err != nil {
			return Roster{}, fmt.Errorf("failed to parse roster JSON %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &r); err != nil {
		return Roster{}, fmt.Errorf("failed to parse roster YAML %s: %w", path, err)
	}

	if r.Name == "" {
		r.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for i := range r.Characters {
		r.Characters[i] = strings.TrimSpace(r.Characters[i])
	}

	if err := Validate(r); err != nil {
		return Roster{}, fmt.Errorf("roster validation failed for %s:\n%w", path, err)
	}
	return r, nil
}

// Load returns the roster at path, or the default roster when path is empty.
func Load(path string) (Roster, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
