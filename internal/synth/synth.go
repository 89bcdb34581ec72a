// Package synth is the built-in sound driver: one oscillator voice per
// sounding note with a linear attack/release envelope, mixed to mono.
package synth

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/notes"
)

const (
	// SampleRate of the generated stream
	SampleRate = 44100

	// BendRange is the pitch-bend range in semitones either way
	BendRange = 2.0

	// voiceGain keeps several full-scale voices from clipping
	voiceGain = 0.15
)

// Settings are the user-adjustable sound parameters
type Settings struct {
	Volume    float64 // 0..1
	Waveform  mapping.Waveform
	AttackMs  float64
	ReleaseMs float64
}

// DefaultSettings are used when nothing is configured
var DefaultSettings = Settings{
	Volume:    0.8,
	Waveform:  mapping.Triangle,
	AttackMs:  10,
	ReleaseMs: 200,
}

type voice struct {
	osc      *Oscillator
	note     notes.Note
	velocity float64
	level    float64
	release  float64 // per-sample decrement once released, 0 while held
}

// Synth mixes voices. It is safe for concurrent use: the engine calls the
// driver methods while the audio backend reads samples.
type Synth struct {
	mu         sync.Mutex
	sampleRate float64
	settings   Settings
	voices     map[notes.Note]*voice
	bend       int
	buffer     []float64
}

// New creates a synth at sampleRate
func New(sampleRate int, s Settings) *Synth {
	return &Synth{
		sampleRate: float64(sampleRate),
		settings:   s,
		voices:     make(map[notes.Note]*voice),
	}
}

// SetSettings replaces the sound settings; sounding voices keep their waveform
func (s *Synth) SetSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

func (s *Synth) NoteOn(n notes.Note, velocity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voices[n]
	if !ok {
		v = &voice{osc: NewOscillator(s.settings.Waveform, s.sampleRate), note: n}
		s.voices[n] = v
	}
	v.velocity = velocity
	v.release = 0
	v.osc.Frequency = s.frequency(n)
}

func (s *Synth) NoteOff(n notes.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voices[n]
	if !ok {
		return
	}
	samples := s.settings.ReleaseMs * s.sampleRate / 1000
	if samples < 1 || v.level == 0 {
		delete(s.voices, n)
		return
	}
	v.release = v.level / samples
}

func (s *Synth) PitchBend(bend int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bend = max(-8192, min(8191, bend))
	for n, v := range s.voices {
		v.osc.Frequency = s.frequency(n)
	}
}

func (s *Synth) SetWaveform(w mapping.Waveform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Waveform = w
	for _, v := range s.voices {
		v.osc.Waveform = w
	}
}

func (s *Synth) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.voices)
}

// Voices returns the number of voices still producing sound
func (s *Synth) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

func (s *Synth) frequency(n notes.Note) float64 {
	semitones := float64(s.bend) / 8192 * BendRange
	return notes.Frequency(n) * math.Pow(2, semitones/12)
}

// GenerateSamples fills out with mixed samples in -1..1
func (s *Synth) GenerateSamples(out []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attack := 1.0
	if samples := s.settings.AttackMs * s.sampleRate / 1000; samples >= 1 {
		attack = 1 / samples
	}
	gain := s.settings.Volume * voiceGain

	for i := range out {
		mix := 0.0
		for n, v := range s.voices {
			switch {
			case v.release > 0:
				v.level -= v.release
				if v.level <= 0 {
					delete(s.voices, n)
					continue
				}
			case v.level < 1:
				v.level = min(1, v.level+attack)
			}
			mix += v.osc.Sample() * v.level * v.velocity
		}
		out[i] = max(-1, min(1, mix*gain))
	}
}

// Read renders signed 16-bit little-endian mono PCM, for audio backends
// that pull from an io.Reader.
func (s *Synth) Read(buf []byte) (int, error) {
	samples := len(buf) / 2
	if samples > len(s.buffer) {
		s.buffer = make([]float64, samples)
	}
	s.GenerateSamples(s.buffer[:samples])
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(s.buffer[i]*32767)))
	}
	return samples * 2, nil
}
