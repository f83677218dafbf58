package main

import (
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version string
	Commit  string
	Date    string
	Dirty   bool
}

// currentBuild merges the linker-provided values with the VCS stamp the Go
// toolchain embeds in module builds. Linker values win.
func currentBuild() buildInfo {
	b := buildInfo{
		Version: strings.TrimSpace(version),
		Commit:  strings.TrimSpace(commit),
		Date:    strings.TrimSpace(date),
	}
	if b.Version == "" {
		b.Version = "dev"
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "" {
				b.Date = s.Value
			}
		case "vcs.modified":
			b.Dirty = s.Value == "true"
		}
	}
	return b
}

// String renders e.g. "ironrun v0.3.0 (commit abcdef0-dirty, built 2026-01-18T16:00:00Z)".
func (b buildInfo) String() string {
	var details []string
	if b.Commit != "" {
		c := b.Commit
		if len(c) > 7 {
			c = c[:7]
		}
		if b.Dirty {
			c += "-dirty"
		}
		details = append(details, "commit "+c)
	}
	if b.Date != "" {
		details = append(details, "built "+b.Date)
	}

	line := "ironrun " + b.Version
	if len(details) > 0 {
		line += " (" + strings.Join(details, ", ") + ")"
	}
	return line
}

func versionLine() string {
	return currentBuild().String()
}
