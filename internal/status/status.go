// Package status renders the live run as an in-place terminal progress line.
package status

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chr1sbest/ironrun/internal/runstate"
)

// ANSI escape codes
const (
	clearLine  = "\033[2K"
	moveUp     = "\033[A"
	moveToCol0 = "\r"
	reset      = "\033[0m"
	bold       = "\033[1m"
	dim        = "\033[2m"
	green      = "\033[32m"
	red        = "\033[31m"
)

// Progress bar characters
const (
	barFilled = "█"
	barEmpty  = "░"
	barWidth  = 20
)

// Writer handles in-place status updates to the terminal. It implements
// runstate.Observer. Anything else printed to the same terminal must go
// through LogWriter, otherwise the next redraw erases it.
type Writer struct {
	w            io.Writer
	mu           sync.Mutex
	lines        []string
	linesWritten int
	lastSeq      uint64
}

// NewWithWriter creates a status writer with a custom output
func NewWithWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Clear erases the status lines and stops redrawing them around log output.
func (s *Writer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.lines = nil
}

func (s *Writer) clear() {
	if s.linesWritten == 0 {
		return
	}
	for i := 0; i < s.linesWritten; i++ {
		fmt.Fprint(s.w, moveUp+clearLine)
	}
	fmt.Fprint(s.w, moveToCol0)
	s.linesWritten = 0
}

func (s *Writer) draw() {
	for _, line := range s.lines {
		fmt.Fprintln(s.w, line)
	}
	s.linesWritten = len(s.lines)
}

// Observe redraws the status for t. Transitions older than the last one
// drawn are ignored.
func (s *Writer) Observe(t runstate.Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq <= s.lastSeq {
		return
	}
	s.lastSeq = t.Seq
	s.clear()
	s.lines = Lines(runstate.ProgressOf(t.State))
	s.draw()
}

// LogWriter returns a writer for log output sharing the terminal. Each
// write lifts the status lines, prints the log text above them and draws
// them again. Writes are expected to be whole lines.
func (s *Writer) LogWriter() io.Writer {
	return logWriter{s}
}

type logWriter struct {
	s *Writer
}

func (l logWriter) Write(p []byte) (int, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	l.s.clear()
	n, err := l.s.w.Write(p)
	l.s.draw()
	return n, err
}

// Lines formats p for display.
func Lines(p runstate.Progress) []string {
	bar := progressBar(p.CompletedCount, p.Total)
	count := fmt.Sprintf("%s%d/%d%s", dim, p.CompletedCount, p.Total, reset)

	switch {
	case p.Phase == runstate.PhaseNoRun:
		return []string{fmt.Sprintf("%sNo run in progress%s", dim, reset)}
	case p.Failed && p.Current == "":
		return []string{
			fmt.Sprintf("%s %s", bar, count),
			fmt.Sprintf("%s✗ Run %d failed%s", red+bold, p.RunID, reset),
		}
	case p.Failed:
		return []string{
			fmt.Sprintf("%s %s %s%s%s", bar, count, bold, p.Current, reset),
			fmt.Sprintf("%s✗ Run %d failed on %s%s", red+bold, p.RunID, p.Current, reset),
		}
	case p.Phase == runstate.PhaseDrained:
		return []string{
			fmt.Sprintf("%s %s", bar, count),
			fmt.Sprintf("%s✓ Run %d complete%s", green+bold, p.RunID, reset),
		}
	}
	return []string{fmt.Sprintf("%s %s %s%s%s", bar, count, bold, p.Current, reset)}
}

// progressBar generates a progress bar string
func progressBar(completed, total int) string {
	if total == 0 {
		return strings.Repeat(barEmpty, barWidth)
	}

	filled := (completed * barWidth) / total
	if filled > barWidth {
		filled = barWidth
	}

	return green + strings.Repeat(barFilled, filled) + reset +
		dim + strings.Repeat(barEmpty, barWidth-filled) + reset
}
