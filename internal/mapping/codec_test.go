package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-pads/internal/notes"
	"github.com/PixPMusic/gopher-pads/internal/sax"
)

func TestParseDocument(t *testing.T) {
	tbl, err := Parse(`[
  { "k": 36, "type": "note", "n": "C", "o": 4, "r": 0, "p": 37 },
  { "k": 37, "type": "sax",  "s": "G♯" },
  { "k": 38, "type": "pitch", "b": -4096, "r": 5 },
  { "k": 39, "type": "timbre", "w": "square", "p": 127 }
]`)
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())

	e, ok := tbl.Get(36)
	require.True(t, ok)
	assert.Equal(t, Entry{Mapping: NoteAction{Target: 60}, Color: ColorPair{Rest: 0, Pressed: 37}}, e)

	e, _ = tbl.Get(37)
	assert.Equal(t, Fingering{Key: sax.GSharp}, e.Mapping)
	assert.Equal(t, ColorPair{Rest: DefaultColor, Pressed: DefaultColor}, e.Color)

	e, _ = tbl.Get(38)
	assert.Equal(t, PitchBend{Bend: -4096}, e.Mapping)
	assert.Equal(t, ColorPair{Rest: 5, Pressed: DefaultColor}, e.Color)

	e, _ = tbl.Get(39)
	assert.Equal(t, Timbre{Waveform: Square}, e.Mapping)
	assert.Equal(t, Color(127), e.Color.Pressed)
}

func TestParseAcceptsFlatsAndAsciiKeys(t *testing.T) {
	tbl, err := Parse(`[{"k":1,"type":"note","n":"Bb","o":2},{"k":2,"type":"sax","s":"Low C#"}]`)
	require.NoError(t, err)
	e, _ := tbl.Get(1)
	assert.Equal(t, NoteAction{Target: 46}, e.Mapping)
	e, _ = tbl.Get(2)
	assert.Equal(t, Fingering{Key: sax.LowCSharp}, e.Mapping)
}

func TestParseLaterDuplicateWins(t *testing.T) {
	tbl, err := Parse(`[{"k":5,"type":"pitch","b":1},{"k":5,"type":"pitch","b":2}]`)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	e, _ := tbl.Get(5)
	assert.Equal(t, PitchBend{Bend: 2}, e.Mapping)
}

func TestParseEmptyArray(t *testing.T) {
	tbl, err := Parse(" [ ] ")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ErrorKind
	}{
		{"not json", `[{`, MalformedJSON},
		{"empty text", ``, MalformedJSON},
		{"trailing garbage", `[] []`, MalformedJSON},
		{"object top level", `{"k":1}`, NotAnArray},
		{"number top level", `42`, NotAnArray},
		{"k missing", `[{"type":"pitch","b":1}]`, MissingKey},
		{"k string", `[{"k":"1","type":"pitch","b":1}]`, MissingKey},
		{"k fractional", `[{"k":1.5,"type":"pitch","b":1}]`, MissingKey},
		{"element not object", `[3]`, MissingKey},
		{"type unknown", `[{"k":1,"type":"drum"}]`, UnknownType},
		{"type missing", `[{"k":1}]`, UnknownType},
		{"note n not string", `[{"k":1,"type":"note","n":4,"o":4}]`, InvalidFieldForType},
		{"note o missing", `[{"k":1,"type":"note","n":"C"}]`, InvalidFieldForType},
		{"pitch b string", `[{"k":1,"type":"pitch","b":"up"}]`, InvalidFieldForType},
		{"timbre w missing", `[{"k":1,"type":"timbre"}]`, InvalidFieldForType},
		{"timbre w unknown", `[{"k":1,"type":"timbre","w":"noise"}]`, InvalidFieldForType},
		{"sax s missing", `[{"k":1,"type":"sax"}]`, InvalidFieldForType},
		{"color out of range", `[{"k":1,"type":"pitch","b":0,"r":128}]`, InvalidFieldForType},
		{"color not number", `[{"k":1,"type":"pitch","b":0,"p":"red"}]`, InvalidFieldForType},
		{"note name H", `[{"k":1,"type":"note","n":"H","o":4}]`, InvalidNoteName},
		{"note name with octave", `[{"k":1,"type":"note","n":"C4","o":4}]`, InvalidNoteName},
		{"sax key unknown", `[{"k":1,"type":"sax","s":"Thumb"}]`, InvalidFingeringKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %T", err)
			assert.Equal(t, tt.want, pe.Kind, err.Error())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseAcceptsIntegralFloats(t *testing.T) {
	tbl, err := Parse(`[{"k":36.0,"type":"note","n":"C","o":4.0,"r":5.0},{"k":1e2,"type":"pitch","b":-2e3}]`)
	require.NoError(t, err)

	e, ok := tbl.Get(36)
	require.True(t, ok)
	assert.Equal(t, NoteAction{Target: 60}, e.Mapping)
	assert.Equal(t, Color(5), e.Color.Rest)

	e, ok = tbl.Get(100)
	require.True(t, ok)
	assert.Equal(t, PitchBend{Bend: -2000}, e.Mapping)
}

func TestParseErrorLeavesTableUntouched(t *testing.T) {
	current := Isomorphic(ProgrammerGrid(), DefaultStartNote, DefaultHorizontalStep, DefaultVerticalStep, DefaultRule)
	before := current.Entries()

	next, err := Parse(`[{"k":1,"type":"note","n":"H","o":4}]`)
	require.ErrorIs(t, err, InvalidNoteName)
	assert.Equal(t, 0, next.Len())

	assert.Equal(t, before, current.Entries())
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Parse(`[{"k":1,"type":"pitch","b":0},{"k":2,"type":"note","n":"H","o":4}]`)
	require.EqualError(t, err, `mapping: entry 1: invalid note name: "H"`)

	_, err = Parse(`"x"`)
	require.EqualError(t, err, "mapping: not an array: top level is a string")
}

func TestFormatAlignsColumns(t *testing.T) {
	tbl := NewTable(map[Key]Entry{
		36: {Mapping: NoteAction{Target: 60}, Color: ColorPair{Rest: 0, Pressed: 37}},
		37: {Mapping: Fingering{Key: sax.GSharp}, Color: ColorPair{Rest: 0, Pressed: 0}},
		38: {Mapping: NoteAction{Target: 61}, Color: ColorPair{Rest: 3, Pressed: 36}},
	})
	want := `[
  { "k": 36, "type": "note", "n": "C",  "o": 4, "r": 0, "p": 37 },
  { "k": 37, "type": "sax",  "s": "G♯", "r": 0, "p": 0 },
  { "k": 38, "type": "note", "n": "C#", "o": 4, "r": 3, "p": 36 }
]`
	assert.Equal(t, want, Format(tbl))
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "[]", Format(Table{}))
}

func TestRoundTripGenerated(t *testing.T) {
	tables := map[string]Table{
		"isomorphic": Isomorphic(ProgrammerGrid(), DefaultStartNote, DefaultHorizontalStep, DefaultVerticalStep, DefaultRule),
		"low":        Isomorphic(DrumGrid(), 0, 1, -3, DefaultRule),
		"delta":      FromDeltaTable(ProgrammerGrid(), ExtraDeltaTable, 36, DefaultRule),
		"sax":        Saxophone(ProgrammerGrid(), DefaultRule),
		"mixed": Isomorphic(ProgrammerGrid(), 48, 1, 4, DefaultRule).
			SetMapping(19, PitchBend{Bend: 8191}).
			SetMapping(29, PitchBend{Bend: -8192}).
			SetMapping(39, Timbre{Waveform: Triangle}).
			SetMapping(49, Fingering{Key: sax.Octave3}).
			SetColor(11, ColorPair{Rest: 0x7F, Pressed: 0x01}),
	}
	for name, tbl := range tables {
		t.Run(name, func(t *testing.T) {
			back, err := Parse(Format(tbl))
			require.NoError(t, err)
			assert.True(t, tbl.Equal(back), "round trip changed the table")
		})
	}
}

func TestRoundTripParsed(t *testing.T) {
	tbl, err := Parse(`[{"k":1,"type":"note","n":"Eb","o":9},{"k":2,"type":"sax","s":"alt b♭"},{"k":3,"type":"timbre","w":"sine"}]`)
	require.NoError(t, err)
	back, err := Parse(Format(tbl))
	require.NoError(t, err)
	assert.True(t, tbl.Equal(back))

	e, _ := back.Get(1)
	assert.Equal(t, "D#9", notes.Format(e.Mapping.(NoteAction).Target))
}
