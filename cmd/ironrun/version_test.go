package main

import (
	"strings"
	"testing"
)

func TestBuildInfoString(t *testing.T) {
	tests := []struct {
		name string
		info buildInfo
		want string
	}{
		{name: "bare dev", info: buildInfo{Version: "dev"}, want: "ironrun dev"},
		{name: "release", info: buildInfo{Version: "v0.3.0"}, want: "ironrun v0.3.0"},
		{name: "commit shortened", info: buildInfo{Version: "dev", Commit: "abcdef012345"}, want: "ironrun dev (commit abcdef0)"},
		{name: "short commit kept", info: buildInfo{Version: "dev", Commit: "abc"}, want: "ironrun dev (commit abc)"},
		{name: "dirty tree", info: buildInfo{Version: "dev", Commit: "abcdef012345", Dirty: true}, want: "ironrun dev (commit abcdef0-dirty)"},
		{name: "date only", info: buildInfo{Version: "dev", Date: "2026-01-18T16:00:00Z"}, want: "ironrun dev (built 2026-01-18T16:00:00Z)"},
		{
			name: "release with metadata",
			info: buildInfo{Version: "v0.3.0", Commit: "abcdef012345", Date: "2026-01-18T16:00:00Z"},
			want: "ironrun v0.3.0 (commit abcdef0, built 2026-01-18T16:00:00Z)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrentBuildPrefersLinkerValues(t *testing.T) {
	oldVersion, oldCommit, oldDate := version, commit, date
	defer func() { version, commit, date = oldVersion, oldCommit, oldDate }()

	version, commit, date = " v1.2.3 ", "0123456789", "2026-02-02"
	b := currentBuild()
	if b.Version != "v1.2.3" || b.Commit != "0123456789" || b.Date != "2026-02-02" {
		t.Fatalf("unexpected build info %+v", b)
	}
	if line := versionLine(); !strings.HasPrefix(line, "ironrun v1.2.3 (commit 0123456") {
		t.Fatalf("versionLine() = %q", line)
	}

	version = "  "
	if got := currentBuild().Version; got != "dev" {
		t.Fatalf("expected blank version to fall back to dev, got %q", got)
	}
}
