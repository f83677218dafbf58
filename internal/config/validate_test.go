package config

import (
	"testing"
)

func TestValidator(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		config     *Config
		wantErrors int
		wantFields []string
	}{
		{
			name:       "defaults are valid",
			config:     Default(),
			wantErrors: 0,
		},
		{
			name: "yaml roster with watch",
			config: &Config{
				RosterFile:  "rosters/weekly.yml",
				WatchRoster: true,
				LogLevel:    "DEBUG",
			},
			wantErrors: 0,
		},
		{
			name:       "unknown log level",
			config:     &Config{LogLevel: "chatty"},
			wantErrors: 1,
			wantFields: []string{"log_level"},
		},
		{
			name:       "unsupported roster extension",
			config:     &Config{RosterFile: "roster.csv"},
			wantErrors: 1,
			wantFields: []string{"roster_file"},
		},
		{
			name:       "watch without roster file",
			config:     &Config{WatchRoster: true},
			wantErrors: 1,
			wantFields: []string{"watch_roster"},
		},
		{
			name:       "log file inside export dir",
			config:     &Config{ExportDir: "out", LogFile: "out/ironrun.log"},
			wantErrors: 1,
			wantFields: []string{"log_file"},
		},
		{
			name: "multiple errors",
			config: &Config{
				LogLevel:   "nope",
				RosterFile: "roster.txt",
			},
			wantErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.Validate(tt.config)

			if len(errs) != tt.wantErrors {
				t.Errorf("got %d errors, want %d: %v", len(errs), tt.wantErrors, errs)
			}

			// Check that expected fields are in errors
			for _, field := range tt.wantFields {
				found := false
				for _, e := range errs {
					if e.Field == field {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, got errors: %v", field, errs)
				}
			}
		})
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{
		Field:   "roster_file",
		Message: "unsupported roster extension",
		Context: "roster.csv",
	}

	expected := "roster_file: unsupported roster extension (in roster.csv)"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}

	// Without context
	err.Context = ""
	expected = "roster_file: unsupported roster extension"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestValidateConfigConvenience(t *testing.T) {
	if err := ValidateConfig(Default()); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}

	if err := ValidateConfig(&Config{LogLevel: "loud"}); err == nil {
		t.Error("expected validation error, got nil")
	}
}
