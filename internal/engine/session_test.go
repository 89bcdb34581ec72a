package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/notes"
	"github.com/PixPMusic/gopher-pads/internal/sax"
)

type fakeSound struct {
	calls    []string
	waveform mapping.Waveform
	bend     int
}

func (f *fakeSound) NoteOn(n notes.Note, _ float64) { f.calls = append(f.calls, "on "+notes.Format(n)) }
func (f *fakeSound) NoteOff(n notes.Note)           { f.calls = append(f.calls, "off "+notes.Format(n)) }
func (f *fakeSound) PitchBend(b int)                { f.bend = b }
func (f *fakeSound) SetWaveform(w mapping.Waveform) { f.waveform = w }
func (f *fakeSound) StopAll()                       { f.calls = append(f.calls, "stop") }

func (f *fakeSound) take() []string {
	c := f.calls
	f.calls = nil
	return c
}

type fakeLights struct {
	colors map[mapping.Key]mapping.Color
	sends  int
	fail   bool
}

func newFakeLights() *fakeLights {
	return &fakeLights{colors: make(map[mapping.Key]mapping.Color)}
}

func (f *fakeLights) SetPadColor(k mapping.Key, c mapping.Color) error {
	if f.fail {
		return errors.New("port closed")
	}
	f.colors[k] = c
	f.sends++
	return nil
}

var testColors = mapping.ColorPair{Rest: 1, Pressed: 2}

func constRule(mapping.Mapping) mapping.ColorPair { return testColors }

func newTestSession(t *testing.T, tbl mapping.Table) (*Session, *fakeSound, *fakeLights) {
	t.Helper()
	snd, lights := &fakeSound{}, newFakeLights()
	s := NewSession(snd, lights)
	s.SetTable(tbl)
	return s, snd, lights
}

func TestAliasedNoteSoundsUntilLastRelease(t *testing.T) {
	// pads 1 and 2 both play C4
	tbl := mapping.Isomorphic(mapping.Grid{{1, 2, 3}}, 60, 0, 0, constRule)
	s, snd, _ := newTestSession(t, tbl)

	s.KeyDown(1, 1)
	s.KeyDown(2, 1)
	assert.Equal(t, []string{"on C4"}, snd.take())

	s.KeyUp(1)
	assert.Empty(t, snd.take(), "still held by pad 2")
	assert.Equal(t, []notes.Note{60}, s.ActiveNotes())

	s.KeyUp(2)
	assert.Equal(t, []string{"off C4"}, snd.take())
	assert.Empty(t, s.ActiveNotes())
}

func TestDuplicateAndStrayEventsIgnored(t *testing.T) {
	tbl := mapping.Isomorphic(mapping.Grid{{1}}, 60, 0, 0, constRule)
	s, snd, _ := newTestSession(t, tbl)

	s.KeyUp(1)
	s.KeyDown(1, 1)
	s.KeyDown(1, 1)
	s.KeyDown(99, 1)
	assert.Equal(t, []string{"on C4"}, snd.take())

	s.KeyUp(1)
	s.KeyUp(1)
	assert.Equal(t, []string{"off C4"}, snd.take())
}

func TestTableSwapKeepsPressTimeMapping(t *testing.T) {
	tbl := mapping.Isomorphic(mapping.Grid{{1}}, 60, 0, 0, constRule)
	s, snd, _ := newTestSession(t, tbl)

	s.KeyDown(1, 1)
	s.SetTable(tbl.SetMapping(1, mapping.NoteAction{Target: 72}))
	s.KeyUp(1)
	assert.Equal(t, []string{"on C4", "off C4"}, snd.take())

	s.KeyDown(1, 1)
	assert.Equal(t, []string{"on C5"}, snd.take())
}

func TestPitchBendAndTimbre(t *testing.T) {
	tbl := mapping.NewTable(map[mapping.Key]mapping.Entry{
		1: {Mapping: mapping.PitchBend{Bend: 4096}, Color: testColors},
		2: {Mapping: mapping.PitchBend{Bend: -8192}, Color: testColors},
		3: {Mapping: mapping.Timbre{Waveform: mapping.Sawtooth}, Color: testColors},
	})
	s, snd, _ := newTestSession(t, tbl)

	s.KeyDown(1, 1)
	assert.Equal(t, 4096, snd.bend)
	s.KeyDown(2, 1)
	assert.Equal(t, -8192, snd.bend)
	s.KeyUp(2)
	assert.Equal(t, 4096, snd.bend)
	s.KeyUp(1)
	assert.Equal(t, 0, snd.bend)

	s.KeyDown(3, 1)
	assert.Equal(t, mapping.Sawtooth, snd.waveform)
}

func saxTable(keys ...sax.Key) mapping.Table {
	entries := make(map[mapping.Key]mapping.Entry)
	for i, k := range keys {
		entries[mapping.Key(i+1)] = mapping.Entry{Mapping: mapping.Fingering{Key: k}, Color: testColors}
	}
	return mapping.NewTable(entries)
}

func TestFingeringWithoutPlayKey(t *testing.T) {
	main := []sax.Key{sax.B, sax.A, sax.G, sax.F, sax.E, sax.D, sax.C}
	s, snd, _ := newTestSession(t, saxTable(main...))

	for i := range main {
		s.KeyDown(mapping.Key(i+1), 1)
	}
	calls := snd.take()
	require.NotEmpty(t, calls)
	assert.Equal(t, "on C4", calls[len(calls)-1])
	assert.Equal(t, []notes.Note{60}, s.ActiveNotes())

	// releasing C moves to D
	s.KeyUp(7)
	assert.Equal(t, []string{"off C4", "on D4"}, snd.take())

	// walking back up the column ends on B, then silence
	for i := 6; i >= 1; i-- {
		s.KeyUp(mapping.Key(i))
	}
	calls = snd.take()
	assert.Equal(t, "off B4", calls[len(calls)-1])
	assert.Empty(t, s.ActiveNotes())
}

func TestFingeringGatedByPlay(t *testing.T) {
	s, snd, _ := newTestSession(t, saxTable(sax.B, sax.A, sax.Play, sax.Octave1))

	s.KeyDown(1, 1)
	s.KeyDown(2, 1)
	assert.Empty(t, snd.take(), "no sound before play")

	s.KeyDown(3, 1)
	assert.Equal(t, []string{"on A4"}, snd.take())

	s.KeyDown(4, 1)
	assert.Equal(t, []string{"off A4", "on A5"}, snd.take())

	s.KeyUp(4)
	s.KeyDown(4, 1)
	assert.Equal(t, []string{"off A5", "on A4", "off A4", "on A5"}, snd.take())

	s.KeyUp(3)
	assert.Equal(t, []string{"off A5"}, snd.take())
}

func TestFingeringSameNoteNoRetrigger(t *testing.T) {
	// G♯ on its own does not change the B/A fingering
	s, snd, _ := newTestSession(t, saxTable(sax.B, sax.A, sax.GSharp))
	s.KeyDown(1, 1)
	s.KeyDown(2, 1)
	snd.take()

	s.KeyDown(3, 1)
	assert.Empty(t, snd.take())
}

func TestFingeringSharesNoteWithPad(t *testing.T) {
	tbl := saxTable(sax.B).Set(10, mapping.Entry{Mapping: mapping.NoteAction{Target: 71}, Color: testColors})
	s, snd, _ := newTestSession(t, tbl)

	s.KeyDown(10, 1)
	s.KeyDown(1, 1)
	assert.Equal(t, []string{"on B4"}, snd.take())

	s.KeyUp(10)
	assert.Empty(t, snd.take(), "fingering still holds B4")
	s.KeyUp(1)
	assert.Equal(t, []string{"off B4"}, snd.take())
}

func TestStopAllDrains(t *testing.T) {
	tbl := mapping.Isomorphic(mapping.Grid{{1, 2}}, 60, 1, 0, constRule)
	s, snd, lights := newTestSession(t, tbl)

	s.KeyDown(1, 1)
	s.KeyDown(2, 1)
	snd.take()
	s.StopAll()
	assert.Equal(t, []string{"stop"}, snd.take())
	assert.Empty(t, s.ActiveNotes())
	assert.False(t, s.IsHeld(1))
	assert.Equal(t, testColors.Rest, lights.colors[1])
	assert.Equal(t, testColors.Rest, lights.colors[2])

	// a release after the drain is a stray event
	s.KeyUp(1)
	assert.Empty(t, snd.take())
	s.KeyDown(1, 1)
	assert.Equal(t, []string{"on C4"}, snd.take())
}

func TestLightingModes(t *testing.T) {
	// pads 1 and 2 play C4, pad 3 plays C5, pad 4 plays D4
	tbl := mapping.NewTable(map[mapping.Key]mapping.Entry{
		1: {Mapping: mapping.NoteAction{Target: 60}, Color: testColors},
		2: {Mapping: mapping.NoteAction{Target: 60}, Color: testColors},
		3: {Mapping: mapping.NoteAction{Target: 72}, Color: testColors},
		4: {Mapping: mapping.NoteAction{Target: 62}, Color: testColors},
	})
	tests := []struct {
		mode ShowSameNote
		want map[mapping.Key]mapping.Color
	}{
		{ShowPressed, map[mapping.Key]mapping.Color{1: 2, 2: 1, 3: 1, 4: 1}},
		{ShowSame, map[mapping.Key]mapping.Color{1: 2, 2: 2, 3: 1, 4: 1}},
		{ShowOctave, map[mapping.Key]mapping.Color{1: 2, 2: 2, 3: 2, 4: 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			s, _, lights := newTestSession(t, tbl)
			s.SetShowSameNote(tt.mode)
			s.KeyDown(1, 1)
			assert.Equal(t, tt.want, lights.colors)

			s.KeyUp(1)
			for k := range tt.want {
				assert.Equal(t, testColors.Rest, lights.colors[k], "pad %d", k)
			}
		})
	}
}

func TestLightingSendsOnlyChanges(t *testing.T) {
	tbl := mapping.Isomorphic(mapping.Grid{{1, 2, 3}}, 60, 1, 0, constRule)
	s, _, lights := newTestSession(t, tbl)
	assert.Equal(t, 3, lights.sends, "initial paint")

	s.KeyDown(1, 1)
	assert.Equal(t, 4, lights.sends)
	s.KeyUp(1)
	assert.Equal(t, 5, lights.sends)

	s.Sync()
	assert.Equal(t, 8, lights.sends)
}

func TestLightingRetriesAfterFailure(t *testing.T) {
	tbl := mapping.Isomorphic(mapping.Grid{{1}}, 60, 1, 0, constRule)
	snd, lights := &fakeSound{}, newFakeLights()
	lights.fail = true
	s := NewSession(snd, lights)
	s.SetTable(tbl)
	assert.Empty(t, lights.colors)

	lights.fail = false
	s.KeyDown(1, 1)
	assert.Equal(t, testColors.Pressed, lights.colors[1])
}

func TestRemovedPadsAreCleared(t *testing.T) {
	tbl := mapping.Isomorphic(mapping.Grid{{1, 2}}, 60, 1, 0, constRule)
	s, _, lights := newTestSession(t, tbl)
	s.SetTable(tbl.Delete(2))
	assert.Equal(t, mapping.DefaultColor, lights.colors[2])
}

func TestParseShowSameNote(t *testing.T) {
	m, err := ParseShowSameNote("octave")
	require.NoError(t, err)
	assert.Equal(t, ShowOctave, m)
	_, err = ParseShowSameNote("maybe")
	assert.Error(t, err)
}

func TestRunProcessesEventsInOrder(t *testing.T) {
	tbl := mapping.Isomorphic(mapping.Grid{{1, 2}}, 60, 1, 0, constRule)
	s, snd, _ := newTestSession(t, tbl)

	events := make(chan Event, 4)
	events <- Event{Kind: Down, Key: 1, Velocity: 0.5}
	events <- Event{Kind: Down, Key: 2, Velocity: 0.5}
	events <- Event{Kind: Up, Key: 1}
	close(events)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Run(ctx, events))
	assert.Equal(t, []string{"on C4", "on C#4", "off C4", "stop"}, snd.take())
}

func TestRunStopsOnCancel(t *testing.T) {
	s, snd, _ := newTestSession(t, mapping.Table{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, make(chan Event))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"stop"}, snd.take())
}

func TestMultiSound(t *testing.T) {
	a, b := &fakeSound{}, &fakeSound{}
	m := MultiSound{a, b}
	m.NoteOn(60, 1)
	m.NoteOff(60)
	m.SetWaveform(mapping.Square)
	m.PitchBend(3)
	for i, f := range []*fakeSound{a, b} {
		assert.Equal(t, []string{"on C4", "off C4"}, f.calls, fmt.Sprint(i))
		assert.Equal(t, mapping.Square, f.waveform)
		assert.Equal(t, 3, f.bend)
	}
}

func TestMultiLights(t *testing.T) {
	a, b := newFakeLights(), newFakeLights()
	b.fail = true
	err := MultiLights{a, b}.SetPadColor(11, 5)
	assert.ErrorContains(t, err, "port closed")
	assert.Equal(t, mapping.Color(5), a.colors[11])
}

func TestSetResolverRetunesSoundingFingering(t *testing.T) {
	s, snd, _ := newTestSession(t, saxTable(sax.B))
	s.KeyDown(1, 1)
	assert.Equal(t, []string{"on B4"}, snd.take())

	s.SetResolver(sax.NewResolver(sax.DefaultCombos, 3))
	assert.Equal(t, []string{"off B4", "on B3"}, snd.take())

	s.KeyUp(1)
	assert.Equal(t, []string{"off B3"}, snd.take())
}
