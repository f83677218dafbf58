package tracker

import (
	"time"

	"github.com/chr1sbest/ironrun/internal/runstate"
)

// SessionMetrics counts the transitions applied during one host session.
type SessionMetrics struct {
	SessionID           string    `json:"session_id"`
	StartedAt           time.Time `json:"started_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	RunsStarted         int       `json:"runs_started"`
	CharactersCompleted int       `json:"characters_completed"`
	RunsFailed          int       `json:"runs_failed"`
	Resets              int       `json:"resets"`
	LastRunID           uint64    `json:"last_run_id,omitempty"`
}

func NewSessionMetrics(sessionID string, now time.Time) SessionMetrics {
	return SessionMetrics{SessionID: sessionID, StartedAt: now, UpdatedAt: now}
}

// Record counts t. Reset transitions keep LastRunID so the overlay can still
// show which run was discarded.
func (m *SessionMetrics) Record(t runstate.Transition, now time.Time) {
	switch t.Op {
	case runstate.OpStart:
		m.RunsStarted++
		m.LastRunID = t.State.RunID
	case runstate.OpComplete:
		m.CharactersCompleted++
	case runstate.OpFail:
		m.RunsFailed++
	case runstate.OpReset:
		m.Resets++
	}
	m.UpdatedAt = now
}
