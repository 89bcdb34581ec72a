// Package sax models saxophone-style fingerings: a fixed set of named keys
// and a priority-ordered table of key combinations that resolve to a note.
package sax

import "strings"

// Key is one named fingering key
type Key string

// Main column, top to bottom
const (
	B Key = "B"
	A Key = "A"
	G Key = "G"
	F Key = "F"
	E Key = "E"
	D Key = "D"
	C Key = "C"
)

// Side and auxiliary keys
const (
	GSharp    Key = "G♯"
	LowCSharp Key = "Low C♯"
	LowBFlat  Key = "Low B♭"
	LowB      Key = "Low B"
	DSharp    Key = "D♯"
	FSharp    Key = "F♯"
	AltBFlat  Key = "Alt B♭"
	BisBFlat  Key = "Bis B♭"
	AltC      Key = "Alt C"
)

// Control keys
const (
	Octave1 Key = "Oct 1"
	Octave2 Key = "Oct 2"
	Octave3 Key = "Oct 3"
	Play    Key = "Play"
)

// AllKeys lists every key in canonical order
var AllKeys = []Key{
	B, A, G, F, E, D, C,
	GSharp, LowCSharp, LowBFlat, LowB, DSharp, FSharp, AltBFlat, BisBFlat, AltC,
	Octave1, Octave2, Octave3, Play,
}

// OctaveKeys each raise the resolved note by one octave; they stack
var OctaveKeys = []Key{Octave1, Octave2, Octave3}

var aliases = func() map[string]Key {
	m := make(map[string]Key, len(AllKeys)*2)
	for _, k := range AllKeys {
		m[strings.ToLower(string(k))] = k
		ascii := strings.NewReplacer("♯", "#", "♭", "b").Replace(string(k))
		m[strings.ToLower(ascii)] = k
	}
	return m
}()

// Parse returns the key named s. Matching ignores case and accepts ASCII
// spellings ("G#", "Low Bb") for the accidentals.
func Parse(s string) (Key, bool) {
	k, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// IsControl reports whether k is an octave or play key
func (k Key) IsControl() bool {
	return k == Play || k.IsOctave()
}

// IsOctave reports whether k is one of the octave keys
func (k Key) IsOctave() bool {
	switch k {
	case Octave1, Octave2, Octave3:
		return true
	}
	return false
}

// IsMain reports whether k belongs to the main B..C column
func (k Key) IsMain() bool {
	switch k {
	case B, A, G, F, E, D, C:
		return true
	}
	return false
}

// IsSide reports whether k is a side or auxiliary key
func (k Key) IsSide() bool {
	return !k.IsMain() && !k.IsControl() && k.Valid()
}

// Valid reports whether k is part of the key set
func (k Key) Valid() bool {
	for _, v := range AllKeys {
		if v == k {
			return true
		}
	}
	return false
}
