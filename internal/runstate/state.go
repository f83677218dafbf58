package runstate

import "time"

// Millis is a timestamp in milliseconds since the Unix epoch.
type Millis uint64

// MillisOf converts t to a Millis pointer suitable for RunState timestamps.
// Times before the epoch clamp to 0.
func MillisOf(t time.Time) *Millis {
	var ms Millis
	if v := t.UnixMilli(); v > 0 {
		ms = Millis(v)
	}
	return &ms
}

// RunState is the single active run. The zero value means no run has been
// started.
type RunState struct {
	RunID       uint64   `json:"run_id"`
	Queue       []string `json:"queue"`
	Completed   []string `json:"completed"`
	Failed      bool     `json:"failed"`
	StartedAtMs *Millis  `json:"started_at_ms"`
	UpdatedAtMs *Millis  `json:"updated_at_ms"`
}

// Default returns the empty state with non-nil slices so it encodes as
// arrays rather than null.
func Default() RunState {
	return RunState{
		Queue:     []string{},
		Completed: []string{},
	}
}

// Started reports whether a run has started since construction or the last
// reset.
func (s RunState) Started() bool {
	return s.StartedAtMs != nil
}

// Clone returns a deep copy of s. Snapshots handed to callers never share
// memory with the manager's state.
func (s RunState) Clone() RunState {
	out := RunState{
		RunID:     s.RunID,
		Queue:     append(make([]string, 0, len(s.Queue)), s.Queue...),
		Completed: append(make([]string, 0, len(s.Completed)), s.Completed...),
		Failed:    s.Failed,
	}
	if s.StartedAtMs != nil {
		v := *s.StartedAtMs
		out.StartedAtMs = &v
	}
	if s.UpdatedAtMs != nil {
		v := *s.UpdatedAtMs
		out.UpdatedAtMs = &v
	}
	return out
}

func nextRunID(prev uint64) uint64 {
	next := prev + 1
	if next == 0 {
		return 1
	}
	return next
}
