package synth

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/notes"
)

func peak(buf []float64) float64 {
	p := 0.0
	for _, v := range buf {
		p = math.Max(p, math.Abs(v))
	}
	return p
}

func TestSilentWithoutNotes(t *testing.T) {
	s := New(SampleRate, DefaultSettings)
	buf := make([]float64, 256)
	s.GenerateSamples(buf)
	assert.Zero(t, peak(buf))
}

func TestNoteOnProducesSound(t *testing.T) {
	s := New(SampleRate, DefaultSettings)
	s.NoteOn(69, 1)
	buf := make([]float64, SampleRate/10)
	s.GenerateSamples(buf)
	assert.Greater(t, peak(buf), 0.05)
	assert.LessOrEqual(t, peak(buf), 1.0)
}

func TestReleaseFadesOut(t *testing.T) {
	settings := DefaultSettings
	settings.ReleaseMs = 10
	s := New(SampleRate, settings)
	s.NoteOn(60, 1)
	s.GenerateSamples(make([]float64, SampleRate/20))

	s.NoteOff(60)
	assert.Equal(t, 1, s.Voices(), "still releasing")

	// 10ms release is 441 samples
	s.GenerateSamples(make([]float64, 500))
	assert.Equal(t, 0, s.Voices())
}

func TestNoteOnDuringReleaseRestarts(t *testing.T) {
	s := New(SampleRate, DefaultSettings)
	s.NoteOn(60, 1)
	s.GenerateSamples(make([]float64, 1000))
	s.NoteOff(60)
	s.NoteOn(60, 1)
	s.GenerateSamples(make([]float64, SampleRate))
	assert.Equal(t, 1, s.Voices())
}

func TestStopAllIsImmediate(t *testing.T) {
	s := New(SampleRate, DefaultSettings)
	s.NoteOn(60, 1)
	s.NoteOn(64, 1)
	s.GenerateSamples(make([]float64, 100))
	s.StopAll()
	assert.Equal(t, 0, s.Voices())
}

func TestPitchBendRange(t *testing.T) {
	s := New(SampleRate, DefaultSettings)
	s.NoteOn(69, 1)
	s.PitchBend(8191)
	assert.InDelta(t, notes.Frequency(71), s.voices[69].osc.Frequency, 0.1)
	s.PitchBend(-8192)
	assert.InDelta(t, notes.Frequency(67), s.voices[69].osc.Frequency, 0.01)
	s.PitchBend(0)
	assert.InDelta(t, 440.0, s.voices[69].osc.Frequency, 1e-9)
}

func TestSetWaveformAppliesToVoices(t *testing.T) {
	s := New(SampleRate, DefaultSettings)
	s.NoteOn(60, 1)
	s.SetWaveform(mapping.Square)
	assert.Equal(t, mapping.Square, s.voices[60].osc.Waveform)
	s.NoteOn(62, 1)
	assert.Equal(t, mapping.Square, s.voices[62].osc.Waveform)
}

func TestReadWritesPCM(t *testing.T) {
	s := New(SampleRate, Settings{Volume: 1, Waveform: mapping.Square, AttackMs: 0, ReleaseMs: 0})
	s.NoteOn(60, 1)
	buf := make([]byte, 64)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 64, n)
	first := int16(binary.LittleEndian.Uint16(buf))
	// full-scale square at unity volume, scaled by the per-voice gain
	assert.Equal(t, int16(4915), first)
}

func TestOscillatorShapes(t *testing.T) {
	tests := []struct {
		w    mapping.Waveform
		at   float64
		want float64
	}{
		{mapping.Sine, 0.25, 1},
		{mapping.Square, 0.25, 1},
		{mapping.Square, 0.75, -1},
		{mapping.Sawtooth, 0.5, 0},
		{mapping.Triangle, 0.5, 1},
		{mapping.Triangle, 0, -1},
	}
	for _, tt := range tests {
		o := NewOscillator(tt.w, 100)
		o.Frequency = 1
		o.Phase = tt.at
		assert.InDelta(t, tt.want, o.Sample(), 1e-9, "%s at %v", tt.w, tt.at)
	}
}

func TestOscillatorSilentAtZeroFrequency(t *testing.T) {
	o := NewOscillator(mapping.Square, 100)
	assert.Zero(t, o.Sample())
}
