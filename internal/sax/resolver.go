package sax

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/PixPMusic/gopher-pads/internal/notes"
)

// DefaultBaseOctave is added to every combo's octave before conversion,
// so a combo at octave 0 sounds in octave 4.
const DefaultBaseOctave = 4

// Combo maps a set of required keys to a note relative to the base octave
type Combo struct {
	Keys     []Key
	Note     notes.Repr
	Priority int
}

// Held reports which keys are currently held
type Held interface {
	IsActive(k Key) bool
}

// KeySet is a Held backed by a plain set
type KeySet map[Key]bool

// Keys builds a KeySet from a list of keys
func Keys(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

func (s KeySet) IsActive(k Key) bool {
	return s[k]
}

// Resolver finds the highest-priority combo whose required keys are all held.
// Combos with equal priority keep their declaration order.
type Resolver struct {
	combos     []Combo
	baseOctave int
}

// NewResolver orders combos by descending priority. It does not validate
// them; see Validate.
func NewResolver(combos []Combo, baseOctave int) *Resolver {
	sorted := slices.Clone(combos)
	slices.SortStableFunc(sorted, func(a, b Combo) int {
		return b.Priority - a.Priority
	})
	return &Resolver{combos: sorted, baseOctave: baseOctave}
}

// DefaultResolver uses the stock fingering chart
func DefaultResolver() *Resolver {
	return NewResolver(DefaultCombos, DefaultBaseOctave)
}

// Match returns the winning combo for the held keys. Control keys never
// take part in matching.
func (r *Resolver) Match(held Held) (Combo, bool) {
	for _, c := range r.combos {
		if satisfied(c, held) {
			return c, true
		}
	}
	return Combo{}, false
}

func satisfied(c Combo, held Held) bool {
	for _, k := range c.Keys {
		if k.IsControl() || !held.IsActive(k) {
			return false
		}
	}
	return true
}

// OctaveShift counts the held octave keys
func OctaveShift(held Held) int {
	shift := 0
	for _, k := range OctaveKeys {
		if held.IsActive(k) {
			shift++
		}
	}
	return shift
}

// Resolve returns the note for the held keys. ok is false only when the
// table has no combo that matches, which cannot happen with a fallback combo.
func (r *Resolver) Resolve(held Held) (notes.Note, bool) {
	c, ok := r.Match(held)
	if !ok {
		return 0, false
	}
	repr := c.Note
	repr.Octave += r.baseOctave + OctaveShift(held)
	return repr.Note(), true
}

// Validate checks a combo table: exactly one empty fallback combo at
// priority 0, no control keys or unknown keys in required sets, and no two
// combos with equal priority but different results (both would match when
// the union of their keys is held).
func Validate(combos []Combo) error {
	var errs []error
	fallbacks := 0
	for i, c := range combos {
		if len(c.Keys) == 0 {
			fallbacks++
			if c.Priority != 0 {
				errs = append(errs, fmt.Errorf("combo %d: fallback combo must have priority 0, has %d", i, c.Priority))
			}
		} else if c.Priority <= 0 {
			errs = append(errs, fmt.Errorf("combo %d: priority %d must be above the fallback", i, c.Priority))
		}
		for _, k := range c.Keys {
			if !k.Valid() {
				errs = append(errs, fmt.Errorf("combo %d: unknown key %q", i, k))
			} else if k.IsControl() {
				errs = append(errs, fmt.Errorf("combo %d: control key %q cannot be required", i, k))
			}
		}
		if c.Note.Name.Index() < 0 {
			errs = append(errs, fmt.Errorf("combo %d: unknown note name %q", i, c.Note.Name))
		}
		for j := i + 1; j < len(combos); j++ {
			o := combos[j]
			if o.Priority == c.Priority && o.Note != c.Note {
				errs = append(errs, fmt.Errorf("combos %d and %d: ambiguous at priority %d ({%s} -> %s vs {%s} -> %s)",
					i, j, c.Priority, joinKeys(c.Keys), c.Note, joinKeys(o.Keys), o.Note))
			}
		}
	}
	if fallbacks != 1 {
		errs = append(errs, fmt.Errorf("want exactly one fallback combo, found %d", fallbacks))
	}
	return errors.Join(errs...)
}

func joinKeys(keys []Key) string {
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = string(k)
	}
	return strings.Join(s, ",")
}
