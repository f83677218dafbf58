// Package roster provides the list of characters a run is built from.
//
// A roster comes from the built-in default list or from a YAML/JSON file.
// Store holds the active roster and is safe for concurrent use; Watcher keeps
// a Store in sync with a file on disk.
package roster

import "sync"

// Roster is a named, ordered set of character identifiers.
type Roster struct {
	Name       string   `yaml:"name" json:"name"`
	Characters []string `yaml:"characters" json:"characters"`
}

var defaultCharacters = []string{
	"Absa",
	"Clairen",
	"Etalus",
	"Fleet",
	"Forsburn",
	"Galvan",
	"Kragg",
	"Loxodont",
	"Maypul",
	"Olympia",
	"Orcane",
	"Wrastor",
	"Zetterburn",
	"Ranno",
}

// Default returns the built-in roster.
func Default() Roster {
	return Roster{
		Name:       "default",
		Characters: append([]string(nil), defaultCharacters...),
	}
}

// Store holds the active roster.
type Store struct {
	mu     sync.RWMutex
	roster Roster
}

// NewStore creates a store holding r.
func NewStore(r Roster) *Store {
	return &Store{roster: r.clone()}
}

// Current returns a copy of the active roster.
func (s *Store) Current() Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.clone()
}

// Characters returns a copy of the active character list.
func (s *Store) Characters() []string {
	return s.Current().Characters
}

// Set replaces the active roster.
func (s *Store) Set(r Roster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = r.clone()
}

func (r Roster) clone() Roster {
	return Roster{
		Name:       r.Name,
		Characters: append(make([]string, 0, len(r.Characters)), r.Characters...),
	}
}
