// Package commands exposes the run state operations as named commands with
// JSON arguments, the surface a UI process talks to.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chr1sbest/ironrun/internal/runstate"
	"github.com/chr1sbest/ironrun/internal/shuffle"
)

const (
	CmdShuffleCharacters = "shuffle_characters"
	CmdStartRun          = "start_run"
	CmdCompleteCharacter = "complete_character"
	CmdFailRun           = "fail_run"
	CmdResetRun          = "reset_run"
	CmdGetRunState       = "get_run_state"
	CmdGetProgress       = "get_progress"
	CmdGetRoster         = "get_roster"
)

// MaxShuffleLen bounds shuffle_characters so a single request cannot
// allocate an unbounded index slice.
const MaxShuffleLen = 1 << 20

// RosterSource supplies the character list used when start_run is called
// without characters.
type RosterSource interface {
	Characters() []string
}

// Service binds the command handlers to a run manager and a roster.
type Service struct {
	Runs   *runstate.Manager
	Roster RosterSource

	// Seed, when set, replaces a null seed argument.
	Seed *uint32

	Now func() time.Time
}

type shuffleArgs struct {
	Len  uint32  `json:"len"`
	Seed *uint32 `json:"seed"`
}

type startArgs struct {
	Characters *[]string `json:"characters"`
	Seed       *uint32   `json:"seed"`
}

type completeArgs struct {
	Character *string `json:"character"`
}

// Register installs every command handler into r.
func (s *Service) Register(r *Registry) {
	r.Register(CmdShuffleCharacters, s.shuffleCharacters)
	r.Register(CmdStartRun, s.startRun)
	r.Register(CmdCompleteCharacter, s.completeCharacter)
	r.Register(CmdFailRun, s.noArgs(s.Runs.FailRun))
	r.Register(CmdResetRun, s.noArgs(s.Runs.ResetRun))
	r.Register(CmdGetRunState, s.noArgs(s.Runs.State))
	r.Register(CmdGetProgress, s.getProgress)
	r.Register(CmdGetRoster, s.getRoster)
}

// NewServiceRegistry returns a registry with all commands bound to s.
func NewServiceRegistry(s *Service) *Registry {
	r := NewRegistry()
	s.Register(r)
	return r
}

func (s *Service) seed(arg *uint32) *uint32 {
	if arg != nil {
		return arg
	}
	return s.Seed
}

func (s *Service) shuffleCharacters(_ context.Context, raw json.RawMessage) (any, error) {
	var args shuffleArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Len > MaxShuffleLen {
		return nil, fmt.Errorf("%w: len %d exceeds %d", ErrBadArgs, args.Len, MaxShuffleLen)
	}
	seed := shuffle.ResolveSeed(s.seed(args.Seed), s.Now)
	return shuffle.ShuffledIndices(args.Len, seed), nil
}

func (s *Service) startRun(_ context.Context, raw json.RawMessage) (any, error) {
	var args startArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	var characters []string
	if args.Characters != nil {
		characters = *args.Characters
	} else if s.Roster != nil {
		characters = s.Roster.Characters()
	}
	return s.Runs.StartRun(characters, s.seed(args.Seed)), nil
}

func (s *Service) completeCharacter(_ context.Context, raw json.RawMessage) (any, error) {
	var args completeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return s.Runs.CompleteCharacter(args.Character), nil
}

func (s *Service) getProgress(context.Context, json.RawMessage) (any, error) {
	return runstate.ProgressOf(s.Runs.State()), nil
}

func (s *Service) getRoster(context.Context, json.RawMessage) (any, error) {
	if s.Roster == nil {
		return []string{}, nil
	}
	return s.Roster.Characters(), nil
}

func (s *Service) noArgs(fn func() runstate.RunState) Handler {
	return func(context.Context, json.RawMessage) (any, error) {
		return fn(), nil
	}
}
