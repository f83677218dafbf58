package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/chr1sbest/ironrun/internal/config"
	"github.com/chr1sbest/ironrun/internal/roster"
)

func rosterCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("roster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", filepath.Join(config.DefaultDir, "config.json"), "Path to config file")
	file := fs.String("file", "", "Roster file to check (overrides roster_file)")
	asJSON := fs.Bool("json", false, "Print the roster as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	path := *file
	if path == "" {
		cfg, err := config.NewLoader(config.DefaultDir).Load(*configFile)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		path = cfg.RosterFile
	}

	r, err := roster.Load(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stdout, "%s (%d characters)\n", r.Name, len(r.Characters))
	for i, c := range r.Characters {
		fmt.Fprintf(stdout, "%3d  %s\n", i+1, c)
	}
	return 0
}
