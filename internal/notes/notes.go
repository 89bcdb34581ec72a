// Package notes converts between chromatic note numbers and their
// name/octave representation.
package notes

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Note is a chromatic note number. 60 is middle C (C4).
// Values outside 0-127 are allowed for arithmetic; callers clamp when needed.
type Note int

// Name is one of the 12 pitch classes, always spelled with sharps
type Name string

const (
	C      Name = "C"
	CSharp Name = "C#"
	D      Name = "D"
	DSharp Name = "D#"
	E      Name = "E"
	F      Name = "F"
	FSharp Name = "F#"
	G      Name = "G"
	GSharp Name = "G#"
	A      Name = "A"
	ASharp Name = "A#"
	B      Name = "B"
)

// PitchClasses lists the names in chromatic order starting at C
var PitchClasses = [12]Name{C, CSharp, D, DSharp, E, F, FSharp, G, GSharp, A, ASharp, B}

// MaxOctave is the highest octave accepted by Parse
const MaxOctave = 9

// ErrInvalidFormat is returned by Parse for text that is not a note
var ErrInvalidFormat = errors.New("invalid note format")

// Repr is the name/octave form of a Note
type Repr struct {
	Name   Name
	Octave int
}

// Note converts the representation back to a note number. No clamping.
func (r Repr) Note() Note {
	return Note((r.Octave+1)*12 + r.Name.Index())
}

func (r Repr) String() string {
	return string(r.Name) + strconv.Itoa(r.Octave)
}

// Index returns the position of the name in PitchClasses, or -1
func (n Name) Index() int {
	for i, pc := range PitchClasses {
		if pc == n {
			return i
		}
	}
	return -1
}

// IsBlack reports whether the pitch class is one of the five sharps
func (n Name) IsBlack() bool {
	switch n {
	case CSharp, DSharp, FSharp, GSharp, ASharp:
		return true
	}
	return false
}

var flats = map[string]Name{
	"Db": CSharp,
	"Eb": DSharp,
	"Gb": FSharp,
	"Ab": GSharp,
	"Bb": ASharp,
}

// ParseName accepts a sharp name or one of the five flat spellings and
// returns the canonical sharp name.
func ParseName(s string) (Name, bool) {
	if n := Name(s); n.Index() >= 0 {
		return n, true
	}
	n, ok := flats[s]
	return n, ok
}

// ToRepr splits a note number into name and octave (octave = floor(n/12) - 1)
func ToRepr(n Note) Repr {
	octave := floorDiv(int(n), 12) - 1
	idx := int(n) - floorDiv(int(n), 12)*12
	return Repr{Name: PitchClasses[idx], Octave: octave}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

var noteText = regexp.MustCompile(`^([A-G][#b]?)\s*(\d+)$`)

// Parse reads text like "C4", "F#3" or "Bb2". Flats are normalized to
// sharps. The octave must be between 0 and MaxOctave.
func Parse(s string) (Note, error) {
	r, err := ParseRepr(s)
	if err != nil {
		return 0, err
	}
	return r.Note(), nil
}

// ParseRepr is Parse without the final conversion to a note number
func ParseRepr(s string) (Repr, error) {
	m := noteText.FindStringSubmatch(s)
	if m == nil {
		return Repr{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	name, ok := ParseName(m[1])
	if !ok {
		return Repr{}, fmt.Errorf("%w: unknown note name %q", ErrInvalidFormat, m[1])
	}
	octave, err := strconv.Atoi(m[2])
	if err != nil || octave < 0 || octave > MaxOctave {
		return Repr{}, fmt.Errorf("%w: octave out of range in %q", ErrInvalidFormat, s)
	}
	return Repr{Name: name, Octave: octave}, nil
}

// Format renders a note as name and octave, e.g. "C#4"
func Format(n Note) string {
	return ToRepr(n).String()
}

func (n Note) String() string {
	return Format(n)
}

// IsBlack reports whether the note falls on a black piano key
func IsBlack(n Note) bool {
	return ToRepr(n).Name.IsBlack()
}

// PitchClass returns the note's position within its octave (0 = C)
func PitchClass(n Note) int {
	return ToRepr(n).Name.Index()
}

// InRange reports whether n is a valid 7-bit note number
func InRange(n Note) bool {
	return n >= 0 && n <= 127
}

// Frequency returns the equal-tempered frequency in Hz (A4 = 440)
func Frequency(n Note) float64 {
	return 440.0 * math.Pow(2.0, float64(n-69)/12.0)
}
