package sax

import "github.com/PixPMusic/gopher-pads/internal/notes"

func combo(priority int, name notes.Name, octave int, keys ...Key) Combo {
	return Combo{Keys: keys, Note: notes.Repr{Name: name, Octave: octave}, Priority: priority}
}

// DefaultCombos is the stock fingering chart. Octaves are relative to the
// resolver's base octave. Larger key sets carry higher priorities so the
// most specific fingering wins.
var DefaultCombos = []Combo{
	combo(100, notes.ASharp, -1, B, A, G, F, E, D, C, LowBFlat),
	combo(99, notes.B, -1, B, A, G, F, E, D, C, LowB),
	combo(98, notes.CSharp, 0, B, A, G, F, E, D, C, LowCSharp),
	combo(90, notes.C, 0, B, A, G, F, E, D, C),
	combo(85, notes.DSharp, 0, B, A, G, F, E, D, DSharp),
	combo(80, notes.D, 0, B, A, G, F, E, D),
	combo(70, notes.E, 0, B, A, G, F, E),
	combo(65, notes.FSharp, 0, B, A, G, F, FSharp),
	combo(60, notes.F, 0, B, A, G, F),
	combo(55, notes.FSharp, 0, B, A, G, E),
	combo(45, notes.GSharp, 0, B, A, G, GSharp),
	combo(40, notes.G, 0, B, A, G),
	combo(35, notes.ASharp, 0, B, A, AltBFlat),
	combo(30, notes.A, 0, B, A),
	combo(25, notes.ASharp, 0, B, BisBFlat),
	combo(24, notes.C, 1, B, AltC),
	combo(22, notes.ASharp, 0, B, F),
	combo(21, notes.ASharp, 0, B, E),
	combo(10, notes.B, 0, B),
	combo(5, notes.C, 1, A),
	combo(0, notes.CSharp, 1),
}
