package midi

import (
	"log/slog"
	"sync"

	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/notes"
)

// General MIDI programs (zero-based) standing in for each oscillator shape
var waveformPrograms = map[mapping.Waveform]uint8{
	mapping.Sine:     79, // ocarina
	mapping.Square:   80, // lead 1 (square)
	mapping.Sawtooth: 81, // lead 2 (sawtooth)
	mapping.Triangle: 72, // flute
}

// SynthOut is a sound driver that plays through an external MIDI synth
type SynthOut struct {
	mu      sync.Mutex
	send    SendFunc
	channel uint8
	log     *slog.Logger
}

// NewSynthOut sends on channel 0-15
func NewSynthOut(send SendFunc, channel uint8) *SynthOut {
	return &SynthOut{
		send:    send,
		channel: channel & 0x0F,
		log:     slog.Default().With("component", "synth-out"),
	}
}

func (s *SynthOut) write(msg midi.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.send(msg); err != nil {
		s.log.Warn("failed to send", "msg", msg.String(), "error", err)
	}
}

func (s *SynthOut) NoteOn(n notes.Note, velocity float64) {
	if !notes.InRange(n) {
		return
	}
	v := uint8(max(1, min(127, int(velocity*127+0.5))))
	s.write(midi.NoteOn(s.channel, uint8(n), v))
}

func (s *SynthOut) NoteOff(n notes.Note) {
	if !notes.InRange(n) {
		return
	}
	s.write(midi.NoteOff(s.channel, uint8(n)))
}

func (s *SynthOut) PitchBend(bend int) {
	s.write(midi.Pitchbend(s.channel, int16(max(-8192, min(8191, bend)))))
}

func (s *SynthOut) SetWaveform(w mapping.Waveform) {
	if p, ok := waveformPrograms[w]; ok {
		s.write(midi.ProgramChange(s.channel, p))
	}
}

// StopAll sends all-sound-off and all-notes-off
func (s *SynthOut) StopAll() {
	s.write(midi.ControlChange(s.channel, 120, 0))
	s.write(midi.ControlChange(s.channel, 123, 0))
}
