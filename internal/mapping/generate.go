package mapping

import (
	"github.com/PixPMusic/gopher-pads/internal/notes"
	"github.com/PixPMusic/gopher-pads/internal/sax"
)

// Wicky-Hayden defaults: D#2 bottom-left, whole tone to the right, fourth up
const (
	DefaultStartNote      notes.Note = 39
	DefaultHorizontalStep            = 2
	DefaultVerticalStep              = 5
)

// Isomorphic maps the pad at row, col to start + col*h + row*v
func Isomorphic(g Grid, start notes.Note, h, v int, rule ColorRule) Table {
	entries := make(map[Key]Entry)
	for row, keys := range g {
		for col, k := range keys {
			target := start + notes.Note(col*h+row*v)
			entries[k] = noteEntry(target, rule)
		}
	}
	return Table{entries: entries}
}

// FromDeltaTable maps the pad at row, col to start + delta[row][col].
// Pads with no delta cell are left unmapped.
func FromDeltaTable(g Grid, delta [][]int, start notes.Note, rule ColorRule) Table {
	entries := make(map[Key]Entry)
	for row, keys := range g {
		if row >= len(delta) {
			break
		}
		for col, k := range keys {
			if col >= len(delta[row]) {
				break
			}
			entries[k] = noteEntry(start+notes.Note(delta[row][col]), rule)
		}
	}
	return Table{entries: entries}
}

func noteEntry(target notes.Note, rule ColorRule) Entry {
	m := NoteAction{Target: target}
	return Entry{Mapping: m, Color: rule(m)}
}

// ApplyColorRule recolors every entry from its mapping
func ApplyColorRule(t Table, rule ColorRule) Table {
	entries := make(map[Key]Entry, len(t.entries))
	for k, e := range t.entries {
		e.Color = rule(e.Mapping)
		entries[k] = e
	}
	return Table{entries: entries}
}

var majorRow = []int{0, 2, 4, 5, 7, 9, 11, 12, 14}

func shifted(row []int, by int) []int {
	out := make([]int, len(row))
	for i, d := range row {
		out[i] = d + by
	}
	return out
}

// DefaultDeltaTable repeats a major scale on every row, each row a
// semitone above the one below.
var DefaultDeltaTable = func() [][]int {
	t := make([][]int, 9)
	for r := range t {
		t[r] = shifted(majorRow, r)
	}
	return t
}()

// ExtraDeltaTable pairs a major-scale row with its sharps row and stacks
// the pairs an octave apart.
var ExtraDeltaTable = func() [][]int {
	t := make([][]int, 9)
	for r := range t {
		t[r] = shifted(majorRow, 12*(r/2)+r%2)
	}
	return t
}()

type saxPad struct {
	key      sax.Key
	col, row int
}

var saxPads = []saxPad{
	{sax.DSharp, 4, 0},
	{sax.C, 3, 0},
	{sax.D, 4, 1},
	{sax.FSharp, 3, 1},
	{sax.E, 4, 2},
	{sax.F, 4, 3},
	{sax.AltBFlat, 0, 2},
	{sax.AltBFlat, 0, 3},
	{sax.AltBFlat, 0, 4},
	{sax.Play, 0, 5},
	{sax.Play, 0, 6},
	{sax.LowBFlat, 5, 3},
	{sax.LowCSharp, 6, 4},
	{sax.GSharp, 5, 4},
	{sax.LowB, 4, 4},
	{sax.G, 4, 5},
	{sax.A, 4, 6},
	{sax.B, 4, 7},
	{sax.BisBFlat, 5, 7},
	{sax.BisBFlat, 3, 7},
	{sax.AltC, 5, 6},
	{sax.Octave1, 7, 8},
	{sax.Octave2, 6, 8},
	{sax.Octave3, 5, 8},
}

// Saxophone lays out the fingering keys on a 9x9 grid: main column in the
// middle, side keys beside it, octave keys on the top row and play gates on
// the left edge. Pads missing from g are skipped.
func Saxophone(g Grid, rule ColorRule) Table {
	entries := make(map[Key]Entry)
	for _, p := range saxPads {
		k, ok := g.At(p.row, p.col)
		if !ok {
			continue
		}
		m := Fingering{Key: p.key}
		entries[k] = Entry{Mapping: m, Color: rule(m)}
	}
	return Table{entries: entries}
}
