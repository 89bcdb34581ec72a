// Package preview draws a mapping table on its grid in the terminal, each
// pad colored with its palette color.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/notes"
	"github.com/PixPMusic/gopher-pads/internal/palette"
	"github.com/PixPMusic/gopher-pads/internal/sax"
)

const cellWidth = 6

var (
	cellStyle  = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	emptyStyle = cellStyle.Foreground(lipgloss.Color("8"))
)

var saxLabels = map[sax.Key]string{
	sax.LowCSharp: "LoC♯",
	sax.LowBFlat:  "LoB♭",
	sax.LowB:      "LoB",
	sax.AltBFlat:  "AltB♭",
	sax.BisBFlat:  "BisB♭",
	sax.AltC:      "AltC",
	sax.Octave1:   "Oct1",
	sax.Octave2:   "Oct2",
	sax.Octave3:   "Oct3",
}

// Label is the short text shown on a pad
func Label(m mapping.Mapping) string {
	switch m := m.(type) {
	case mapping.NoteAction:
		return notes.Format(m.Target)
	case mapping.PitchBend:
		return fmt.Sprintf("%+d", m.Bend/1024) + "b"
	case mapping.Timbre:
		return string(m.Waveform)[:min(len(m.Waveform), 4)]
	case mapping.Fingering:
		if l, ok := saxLabels[m.Key]; ok {
			return l
		}
		return string(m.Key)
	}
	return "?"
}

// textColor picks black or white for legibility on hex
func textColor(c mapping.Color) lipgloss.Color {
	r, g, b := palette.RGB(uint8(c))
	if 299*int(r)+587*int(g)+114*int(b) > 150_000 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#ffffff")
}

// Render draws g top row first. Pads for which lit returns true use their
// pressed color; lit may be nil.
func Render(g mapping.Grid, t mapping.Table, lit func(mapping.Key) bool) string {
	rows := make([]string, 0, len(g))
	for r := len(g) - 1; r >= 0; r-- {
		cells := make([]string, 0, len(g[r]))
		for _, k := range g[r] {
			cells = append(cells, renderCell(k, t, lit))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(k mapping.Key, t mapping.Table, lit func(mapping.Key) bool) string {
	e, ok := t.Get(k)
	if !ok {
		return emptyStyle.Render("·")
	}
	c := e.Color.Rest
	if lit != nil && lit(k) {
		c = e.Color.Pressed
	}
	return cellStyle.
		Background(lipgloss.Color(palette.Hex(uint8(c)))).
		Foreground(textColor(c)).
		Render(Label(e.Mapping))
}

// Legend lists every mapped pad, one per line, in key order
func Legend(t mapping.Table) string {
	var b strings.Builder
	t.Each(func(k mapping.Key, e mapping.Entry) {
		fmt.Fprintf(&b, "%3d  %-16s rest 0x%02x  pressed 0x%02x\n", k, e.Mapping.String(), e.Color.Rest, e.Color.Pressed)
	})
	return b.String()
}
