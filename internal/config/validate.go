package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError holds details about a configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
	Context string
}

func (e ValidationError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Field, e.Message, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, "  - "+e.Error())
	}
	return fmt.Sprintf("validation failed with %d error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}

// HasErrors returns true if there are any validation errors.
func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

var knownLogLevels = []string{"debug", "info", "warn", "warning", "error"}

var rosterExtensions = []string{".yaml", ".yml", ".json"}

// Validator validates configuration files.
type Validator struct{}

// NewValidator creates a new config validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a config for errors and returns detailed validation errors.
func (v *Validator) Validate(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	level := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if level != "" && !contains(knownLogLevels, level) {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("unknown log level %q, known levels: %s", cfg.LogLevel, strings.Join(knownLogLevels, ", ")),
		})
	}

	if cfg.RosterFile != "" {
		ext := strings.ToLower(filepath.Ext(cfg.RosterFile))
		if !contains(rosterExtensions, ext) {
			errs = append(errs, ValidationError{
				Field:   "roster_file",
				Message: fmt.Sprintf("unsupported roster extension %q, expected one of: %s", ext, strings.Join(rosterExtensions, ", ")),
				Context: cfg.RosterFile,
			})
		}
	} else if cfg.WatchRoster {
		errs = append(errs, ValidationError{
			Field:   "watch_roster",
			Message: "watch_roster requires roster_file",
		})
	}

	if cfg.ExportDir != "" && cfg.LogFile != "" &&
		filepath.Clean(filepath.Dir(cfg.LogFile)) == filepath.Clean(cfg.ExportDir) {
		errs = append(errs, ValidationError{
			Field:   "log_file",
			Message: "log file must not live inside export_dir",
			Context: cfg.LogFile,
		})
	}

	return errs
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// ValidateConfig is a convenience function to validate a config.
func ValidateConfig(cfg *Config) error {
	errs := NewValidator().Validate(cfg)
	if errs.HasErrors() {
		return errs
	}
	return nil
}
