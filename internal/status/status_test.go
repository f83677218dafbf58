package status

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/chr1sbest/ironrun/internal/runstate"
)

func u32(v uint32) *uint32 { return &v }

func TestProgressBar(t *testing.T) {
	tests := []struct {
		completed, total, filled int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 4, 5},
		{4, 4, 20},
		{7, 14, 10},
	}
	for _, tt := range tests {
		bar := progressBar(tt.completed, tt.total)
		if got := strings.Count(bar, barFilled); got != tt.filled {
			t.Errorf("progressBar(%d, %d) filled %d cells, want %d", tt.completed, tt.total, got, tt.filled)
		}
		if got := strings.Count(bar, barFilled) + strings.Count(bar, barEmpty); got != barWidth {
			t.Errorf("progressBar(%d, %d) width %d, want %d", tt.completed, tt.total, got, barWidth)
		}
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		state runstate.RunState
		want  string
		lines int
	}{
		{name: "no run", state: runstate.Default(), want: "No run in progress", lines: 1},
		{name: "active", state: runstate.RunState{RunID: 1, Queue: []string{"Kragg", "Ranno"}, Completed: []string{"Absa"}}, want: "Kragg", lines: 1},
		{name: "failed", state: runstate.RunState{RunID: 2, Queue: []string{"Kragg"}, Completed: []string{}, Failed: true}, want: "Run 2 failed on Kragg", lines: 2},
		{name: "drained", state: runstate.RunState{RunID: 3, Queue: []string{}, Completed: []string{"Absa"}}, want: "Run 3 complete", lines: 2},
		{name: "failed after drain", state: runstate.RunState{RunID: 4, Queue: []string{}, Completed: []string{"Absa"}, Failed: true}, want: "Run 4 failed", lines: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := runstate.Millis(1)
			if tt.state.RunID != 0 {
				tt.state.StartedAtMs = &ts
			}
			lines := Lines(runstate.ProgressOf(tt.state))
			if len(lines) != tt.lines {
				t.Fatalf("expected %d lines, got %d: %q", tt.lines, len(lines), lines)
			}
			joined := strings.Join(lines, "\n")
			if !strings.Contains(joined, tt.want) {
				t.Fatalf("expected %q in %q", tt.want, lines)
			}
			if tt.state.Failed && strings.Contains(joined, "complete") {
				t.Fatalf("failed run drawn as complete: %q", lines)
			}
		})
	}
}

func TestObserveRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter(&buf)
	m := runstate.New(runstate.WithObserver(s))

	seed := uint32(0)
	m.StartRun([]string{"a", "b"}, &seed)
	m.CompleteCharacter(nil)

	out := buf.String()
	if !strings.Contains(out, moveUp+clearLine) {
		t.Fatalf("expected previous line to be cleared, got %q", out)
	}
	if !strings.Contains(out, "1/2") {
		t.Fatalf("expected updated count, got %q", out)
	}
}

func TestObserveIgnoresStaleTransitions(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter(&buf)

	s.Observe(runstate.Transition{Seq: 2, State: runstate.Default()})
	before := buf.Len()
	s.Observe(runstate.Transition{Seq: 1, State: runstate.RunState{RunID: 9, Queue: []string{"x"}, Completed: []string{}}})
	if buf.Len() != before {
		t.Fatalf("stale transition should not redraw, got %q", buf.String())
	}
}

// screen replays out the way a terminal would for the escapes Writer emits
// and returns the visible lines.
func screen(out string) []string {
	var lines []string
	var cur strings.Builder
	for len(out) > 0 {
		switch {
		case strings.HasPrefix(out, moveUp+clearLine):
			if len(lines) > 0 {
				lines = lines[:len(lines)-1]
			}
			out = out[len(moveUp+clearLine):]
		case strings.HasPrefix(out, moveToCol0):
			cur.Reset()
			out = out[len(moveToCol0):]
		case out[0] == '\n':
			lines = append(lines, cur.String())
			cur.Reset()
			out = out[1:]
		default:
			cur.WriteByte(out[0])
			out = out[1:]
		}
	}
	return lines
}

func countBars(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.Contains(l, barEmpty) || strings.Contains(l, barFilled) {
			n++
		}
	}
	return n
}

func TestLogWriterKeepsStatusBelowLogs(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter(&buf)
	m := runstate.New(runstate.WithObserver(s))
	logs := s.LogWriter()

	fmt.Fprintln(logs, "before")
	m.StartRun([]string{"a", "b", "c"}, u32(42))
	fmt.Fprintln(logs, "run started")
	m.CompleteCharacter(nil)
	fmt.Fprintln(logs, "character completed")
	m.CompleteCharacter(nil)

	lines := screen(buf.String())
	if got := countBars(lines); got != 1 {
		t.Fatalf("expected exactly one status line, got %d: %q", got, lines)
	}
	want := []string{"before", "run started", "character completed"}
	for i, w := range want {
		if i >= len(lines) || lines[i] != w {
			t.Fatalf("expected log lines %q above the status, got %q", want, lines)
		}
	}
	if last := lines[len(lines)-1]; !strings.Contains(last, "2/3") {
		t.Fatalf("expected status to show 2/3, got %q", last)
	}
}

func TestClearErasesStatus(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter(&buf)
	s.Observe(runstate.Transition{Seq: 1, State: runstate.RunState{RunID: 1, Queue: []string{"x"}, Completed: []string{}}})
	s.Clear()
	fmt.Fprintln(s.LogWriter(), "bye")

	if lines := screen(buf.String()); len(lines) != 1 || lines[0] != "bye" {
		t.Fatalf("expected only the log line after Clear, got %q", lines)
	}
}
