package roster

import (
	"errors"
	"fmt"

	"github.com/chr1sbest/ironrun/internal/config"
)

// ErrEmptyRoster is returned for a roster with no characters.
var ErrEmptyRoster = errors.New("roster has no characters")

// Validate checks that r has at least one character, that no name is blank
// and that no name repeats. Duplicates would let the same character sit in
// both the queue and the completed list of a run.
func Validate(r Roster) error {
	if len(r.Characters) == 0 {
		return ErrEmptyRoster
	}

	var errs config.ValidationErrors
	seen := make(map[string]int, len(r.Characters))
	for i, c := range r.Characters {
		ctx := fmt.Sprintf("characters[%d]", i)
		if c == "" {
			errs = append(errs, config.ValidationError{
				Field:   "characters",
				Message: "character name is required",
				Context: ctx,
			})
			continue
		}
		if first, dup := seen[c]; dup {
			errs = append(errs, config.ValidationError{
				Field:   "characters",
				Message: fmt.Sprintf("duplicate character %q (first at index %d)", c, first),
				Context: ctx,
			})
			continue
		}
		seen[c] = i
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
