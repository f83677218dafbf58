// Package runstate owns the current run and the operations that move it
// through its lifecycle: start, complete, fail, reset and read.
//
// A Manager guards exactly one RunState with a mutex. Every operation
// returns a snapshot taken while the lock was held, so callers never see a
// partially applied transition. Operations that cannot apply (empty input,
// unknown character, no active run) are silent no-ops; callers detect them
// by comparing snapshots.
package runstate

import (
	"errors"
	"sync"
	"time"

	"github.com/chr1sbest/ironrun/internal/logger"
	"github.com/chr1sbest/ironrun/internal/shuffle"
)

// ErrPoisoned is the panic value raised by every operation after a previous
// operation panicked while holding the lock.
var ErrPoisoned = errors.New("run state mutex poisoned")

// Op names a state operation.
type Op string

const (
	OpStart    Op = "start_run"
	OpComplete Op = "complete_character"
	OpFail     Op = "fail_run"
	OpReset    Op = "reset_run"
)

// Transition describes a state change that has been applied. Seq increases
// by one for every applied transition of a Manager, so observers can discard
// notifications that arrive out of order.
type Transition struct {
	Seq   uint64
	Op    Op
	State RunState
}

// Observer is notified after each applied transition, outside the lock.
type Observer interface {
	Observe(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

func (f ObserverFunc) Observe(t Transition) { f(t) }

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock used for timestamps and derived seeds.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger used to report transitions.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// Manager holds the current run.
type Manager struct {
	mu        sync.Mutex
	state     RunState
	seq       uint64
	poisoned  bool
	now       func() time.Time
	log       logger.Logger
	observers []Observer
}

// New creates a Manager with no run started.
func New(opts ...Option) *Manager {
	m := &Manager{
		state: Default(),
		now:   time.Now,
		log:   logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartRun shuffles characters with seed (or a clock-derived seed when nil)
// and replaces the current run with a fresh one. An empty characters slice
// leaves the state untouched.
func (m *Manager) StartRun(characters []string, seed *uint32) RunState {
	if len(characters) == 0 {
		return m.State()
	}

	actualSeed := shuffle.ResolveSeed(seed, m.now)
	order := shuffle.ShuffledIndices(uint32(len(characters)), actualSeed)
	queue := make([]string, 0, len(characters))
	for _, idx := range order {
		if int(idx) < len(characters) {
			queue = append(queue, characters[idx])
		}
	}
	ts := MillisOf(m.now())

	snap, _ := m.apply(OpStart, func(s *RunState) bool {
		started := *ts
		updated := *ts
		*s = RunState{
			RunID:       nextRunID(s.RunID),
			Queue:       queue,
			Completed:   []string{},
			Failed:      false,
			StartedAtMs: &started,
			UpdatedAtMs: &updated,
		}
		return true
	})
	m.log.Info("run started",
		logger.F("run_id", snap.RunID),
		logger.F("seed", actualSeed),
		logger.F("characters", len(snap.Queue)))
	return snap
}

// CompleteCharacter moves a character from the queue to completed. A nil
// character targets the front of the queue; otherwise the first matching
// entry is used. Unknown characters and an empty queue are no-ops.
func (m *Manager) CompleteCharacter(character *string) RunState {
	snap, changed := m.apply(OpComplete, func(s *RunState) bool {
		if len(s.Queue) == 0 {
			return false
		}

		idx := 0
		if character != nil {
			idx = indexOf(s.Queue, *character)
		}
		if idx < 0 || idx >= len(s.Queue) {
			return false
		}

		finished := s.Queue[idx]
		s.Queue = append(s.Queue[:idx], s.Queue[idx+1:]...)
		s.Completed = append(s.Completed, finished)
		s.Failed = false
		s.UpdatedAtMs = MillisOf(m.now())
		return true
	})
	if changed {
		m.log.Debug("character completed",
			logger.F("run_id", snap.RunID),
			logger.F("character", snap.Completed[len(snap.Completed)-1]),
			logger.F("remaining", len(snap.Queue)))
	}
	return snap
}

// FailRun flags the current run as failed. It does nothing if no run has
// started. The run stays resumable: the next completion clears the flag.
func (m *Manager) FailRun() RunState {
	snap, changed := m.apply(OpFail, func(s *RunState) bool {
		if !s.Started() {
			return false
		}
		s.Failed = true
		s.UpdatedAtMs = MillisOf(m.now())
		return true
	})
	if changed {
		m.log.Info("run failed", logger.F("run_id", snap.RunID), logger.F("remaining", len(snap.Queue)))
	}
	return snap
}

// ResetRun discards the current run and returns the default state.
func (m *Manager) ResetRun() RunState {
	snap, _ := m.apply(OpReset, func(s *RunState) bool {
		*s = Default()
		return true
	})
	m.log.Info("run reset")
	return snap
}

// State returns a snapshot of the current run.
func (m *Manager) State() RunState {
	snap, _ := m.locked(func(*RunState) bool { return false })
	return snap
}

func (m *Manager) apply(op Op, fn func(*RunState) bool) (RunState, bool) {
	var seq uint64
	snap, changed := m.locked(func(s *RunState) bool {
		if !fn(s) {
			return false
		}
		m.seq++
		seq = m.seq
		return true
	})
	if changed {
		for _, o := range m.observers {
			o.Observe(Transition{Seq: seq, Op: op, State: snap.Clone()})
		}
	}
	return snap, changed
}

// locked runs fn with the lock held. A panic inside fn poisons the manager
// and is re-raised; later calls panic with ErrPoisoned.
func (m *Manager) locked(fn func(*RunState) bool) (snap RunState, changed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.poisoned {
		panic(ErrPoisoned)
	}
	defer func() {
		if r := recover(); r != nil {
			m.poisoned = true
			panic(r)
		}
	}()

	changed = fn(&m.state)
	return m.state.Clone(), changed
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}
