// Package mapping holds the per-pad action table: what each pad does, the
// colors it shows at rest and while pressed, the generators that build whole
// layouts, and the JSON text format used to import and export a table.
package mapping

import (
	"fmt"

	"github.com/PixPMusic/gopher-pads/internal/notes"
	"github.com/PixPMusic/gopher-pads/internal/sax"
)

// Key identifies a physical pad
type Key int

// Color is a palette code, 0x00..0x7F
type Color uint8

// MaxColor is the highest valid palette code
const MaxColor Color = 0x7F

const (
	DefaultColor     Color = 0x00
	DefaultAntiColor Color = 0x25
)

// ColorPair is the color of a pad at rest and while pressed
type ColorPair struct {
	Rest    Color
	Pressed Color
}

// DefaultPair is used for pads that get a mapping without an explicit color
var DefaultPair = ColorPair{Rest: DefaultColor, Pressed: DefaultAntiColor}

// Kind names a Mapping case; the values are the "type" strings of the text format
type Kind string

const (
	KindNote   Kind = "note"
	KindPitch  Kind = "pitch"
	KindTimbre Kind = "timbre"
	KindSax    Kind = "sax"
)

// Mapping is the action a pad triggers. The set of cases is closed:
// NoteAction, PitchBend, Timbre and Fingering.
type Mapping interface {
	Kind() Kind
	fmt.Stringer
	isMapping()
}

// NoteAction plays a note
type NoteAction struct {
	Target notes.Note
}

// PitchBend bends every sounding note while held. Bend is a signed 14-bit
// offset from center (-8192..8191).
type PitchBend struct {
	Bend int
}

// Timbre switches the oscillator waveform
type Timbre struct {
	Waveform Waveform
}

// Fingering holds one saxophone key
type Fingering struct {
	Key sax.Key
}

func (NoteAction) Kind() Kind { return KindNote }
func (PitchBend) Kind() Kind  { return KindPitch }
func (Timbre) Kind() Kind     { return KindTimbre }
func (Fingering) Kind() Kind  { return KindSax }

func (NoteAction) isMapping() {}
func (PitchBend) isMapping()  {}
func (Timbre) isMapping()     {}
func (Fingering) isMapping()  {}

func (m NoteAction) String() string { return "note " + notes.Format(m.Target) }
func (m PitchBend) String() string  { return fmt.Sprintf("pitch %+d", m.Bend) }
func (m Timbre) String() string     { return "timbre " + string(m.Waveform) }
func (m Fingering) String() string  { return "sax " + string(m.Key) }

// Waveform is an oscillator shape
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
	Triangle Waveform = "triangle"
)

// Waveforms lists every supported shape
var Waveforms = []Waveform{Sine, Square, Sawtooth, Triangle}

// ParseWaveform returns the waveform named s
func ParseWaveform(s string) (Waveform, bool) {
	for _, w := range Waveforms {
		if string(w) == s {
			return w, true
		}
	}
	return "", false
}

// Entry is one pad's mapping and colors
type Entry struct {
	Mapping Mapping
	Color   ColorPair
}
