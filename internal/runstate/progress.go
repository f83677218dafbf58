package runstate

// Phase is a coarse view of where a run is in its lifecycle.
type Phase string

const (
	PhaseNoRun   Phase = "no_run"
	PhaseActive  Phase = "active"
	PhaseDrained Phase = "drained"
)

// PhaseOf classifies s. The failed flag is orthogonal and not reflected here.
func PhaseOf(s RunState) Phase {
	switch {
	case !s.Started():
		return PhaseNoRun
	case len(s.Queue) == 0:
		return PhaseDrained
	default:
		return PhaseActive
	}
}

// Progress summarizes a run for display.
type Progress struct {
	RunID          uint64 `json:"run_id"`
	Phase          Phase  `json:"phase"`
	CompletedCount int    `json:"completed_count"`
	RemainingCount int    `json:"remaining_count"`
	Total          int    `json:"total"`
	Percent        int    `json:"percent"`
	Failed         bool   `json:"failed"`
	Current        string `json:"current,omitempty"`
}

// ProgressOf computes the progress view of s. Percent is rounded to the
// nearest integer and is 0 when the run has no characters.
func ProgressOf(s RunState) Progress {
	done := len(s.Completed)
	left := len(s.Queue)
	total := done + left

	p := Progress{
		RunID:          s.RunID,
		Phase:          PhaseOf(s),
		CompletedCount: done,
		RemainingCount: left,
		Total:          total,
		Failed:         s.Failed,
	}
	if total > 0 {
		p.Percent = (done*200 + total) / (total * 2)
	}
	if left > 0 {
		p.Current = s.Queue[0]
	}
	return p
}
