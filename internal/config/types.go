package config

import "path/filepath"

// DefaultDir is where ironrun looks for its config and writes exports.
const DefaultDir = ".ironrun"

// Config holds process-level settings for the ironrun host.
//
// Every field can be overridden from the environment after the file is
// read; see ApplyEnv.
type Config struct {
	// RosterFile is a YAML or JSON roster. Empty means the built-in roster.
	RosterFile string `json:"roster_file,omitempty" env:"IRONRUN_ROSTER_FILE"`

	// WatchRoster reloads RosterFile when it changes on disk.
	WatchRoster bool `json:"watch_roster,omitempty" env:"IRONRUN_WATCH_ROSTER"`

	// ExportDir receives run_state.json, progress.json and
	// session_metrics.json. Empty disables exporting.
	ExportDir string `json:"export_dir,omitempty" env:"IRONRUN_EXPORT_DIR"`

	LogLevel string `json:"log_level,omitempty" env:"IRONRUN_LOG_LEVEL"`
	LogFile  string `json:"log_file,omitempty" env:"IRONRUN_LOG_FILE"`

	// Seed pins the shuffle seed for start_run calls that omit one.
	Seed *uint32 `json:"seed,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		ExportDir: filepath.Join(DefaultDir, "export"),
		LogLevel:  "info",
	}
}
