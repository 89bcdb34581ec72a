// Package engine turns pad presses into sound and light. A Session owns the
// activity counts for notes, fingering keys and bends, and reports every
// transition to a SoundDriver and every color change to a LightingDriver.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PixPMusic/gopher-pads/internal/activity"
	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/notes"
	"github.com/PixPMusic/gopher-pads/internal/sax"
)

// ShowSameNote controls which pads light up besides the ones being pressed
type ShowSameNote string

const (
	// ShowPressed lights only pads that are physically held
	ShowPressed ShowSameNote = "no"
	// ShowSame also lights every pad mapped to an active note or key
	ShowSame ShowSameNote = "yes"
	// ShowOctave also lights pads whose note shares a pitch class with an active note
	ShowOctave ShowSameNote = "octave"
)

// ParseShowSameNote returns the mode named s
func ParseShowSameNote(s string) (ShowSameNote, error) {
	switch m := ShowSameNote(s); m {
	case ShowPressed, ShowSame, ShowOctave:
		return m, nil
	}
	return "", fmt.Errorf("unknown show-same-note mode %q (want no, yes or octave)", s)
}

// Session processes key events against a mapping table.
//
// A Session is not safe for concurrent use. Callers serialize events, for
// example by feeding them through Run.
type Session struct {
	sound  SoundDriver
	lights LightingDriver
	log    *slog.Logger

	table    mapping.Table
	resolver *sax.Resolver
	showSame ShowSameNote

	notes   *activity.Tracker[notes.Note]
	saxKeys *activity.Tracker[sax.Key]
	bends   *activity.Tracker[int]

	// held remembers the mapping each pad had when it went down
	held map[mapping.Key]mapping.Mapping

	playGated   bool
	saxNote     notes.Note
	saxSounding bool
	saxVelocity float64

	sent map[mapping.Key]mapping.Color
}

// NewSession creates a session with an empty table. Either driver may be nil.
func NewSession(sound SoundDriver, lights LightingDriver) *Session {
	if sound == nil {
		sound = nopSound{}
	}
	if lights == nil {
		lights = nopLights{}
	}
	return &Session{
		sound:       sound,
		lights:      lights,
		log:         slog.Default().With("component", "engine"),
		resolver:    sax.DefaultResolver(),
		showSame:    ShowSame,
		notes:       activity.New[notes.Note](),
		saxKeys:     activity.New[sax.Key](),
		bends:       activity.New[int](),
		held:        make(map[mapping.Key]mapping.Mapping),
		saxVelocity: 1,
		sent:        make(map[mapping.Key]mapping.Color),
	}
}

// Table returns the current table
func (s *Session) Table() mapping.Table {
	return s.table
}

// SetTable replaces the table. Pads already held keep the mapping they had
// when pressed until they are released.
func (s *Session) SetTable(t mapping.Table) {
	s.table = t
	s.playGated = t.HasFingering(sax.Play)
	s.log.Debug("table replaced", "pads", t.Len(), "play_gated", s.playGated)
	s.updateSax()
	s.refresh()
}

// SetResolver replaces the fingering resolver
func (s *Session) SetResolver(r *sax.Resolver) {
	s.resolver = r
	s.updateSax()
	s.refresh()
}

// SetShowSameNote changes the lighting mode
func (s *Session) SetShowSameNote(mode ShowSameNote) {
	s.showSame = mode
	s.refresh()
}

// KeyDown handles a pad press. Velocity is 0..1. A second press of a pad
// that is already down is ignored, as is a press of an unmapped pad.
func (s *Session) KeyDown(k mapping.Key, velocity float64) {
	if _, down := s.held[k]; down {
		return
	}
	e, ok := s.table.Get(k)
	if !ok {
		s.log.Debug("unmapped pad", "key", k)
		return
	}
	s.held[k] = e.Mapping
	s.log.Debug("key down", "key", k, "mapping", e.Mapping.String(), "velocity", velocity)

	switch m := e.Mapping.(type) {
	case mapping.NoteAction:
		s.startNote(m.Target, velocity)
	case mapping.PitchBend:
		s.bends.Increment(m.Bend)
		s.sound.PitchBend(m.Bend)
	case mapping.Timbre:
		s.sound.SetWaveform(m.Waveform)
	case mapping.Fingering:
		s.saxKeys.Increment(m.Key)
		s.saxVelocity = velocity
		s.updateSax()
	}
	s.refresh()
}

// KeyUp handles a pad release. Releasing a pad that is not down is ignored.
func (s *Session) KeyUp(k mapping.Key) {
	m, down := s.held[k]
	if !down {
		return
	}
	delete(s.held, k)
	s.log.Debug("key up", "key", k, "mapping", m.String())

	switch m := m.(type) {
	case mapping.NoteAction:
		s.stopNote(m.Target)
	case mapping.PitchBend:
		s.bends.Decrement(m.Bend)
		s.sound.PitchBend(s.currentBend())
	case mapping.Timbre:
	case mapping.Fingering:
		s.saxKeys.Decrement(m.Key)
		s.updateSax()
	}
	s.refresh()
}

// StopAll releases every pad, drains all activity and silences the sound
// driver. The pads go back to their rest colors.
func (s *Session) StopAll() {
	drained := s.notes.DrainAll()
	s.saxKeys.DrainAll()
	s.bends.DrainAll()
	clear(s.held)
	s.saxSounding = false
	s.sound.StopAll()
	s.sound.PitchBend(0)
	s.log.Info("stopped all notes", "notes", len(drained))
	s.refresh()
}

// Sync repaints every pad, whether or not its color changed
func (s *Session) Sync() {
	clear(s.sent)
	s.refresh()
}

// ActiveNotes returns the sounding notes in no particular order
func (s *Session) ActiveNotes() []notes.Note {
	return s.notes.Active()
}

// IsHeld reports whether pad k is down
func (s *Session) IsHeld(k mapping.Key) bool {
	_, ok := s.held[k]
	return ok
}

func (s *Session) startNote(n notes.Note, velocity float64) {
	if !s.notes.IsActive(n) {
		s.sound.NoteOn(n, velocity)
	}
	s.notes.Increment(n)
}

func (s *Session) stopNote(n notes.Note) {
	if s.notes.IsLastHolder(n) {
		s.sound.NoteOff(n)
	}
	s.notes.Decrement(n)
}

// currentBend picks the bend of largest magnitude still held, or 0
func (s *Session) currentBend() int {
	bend := 0
	for _, b := range s.bends.Active() {
		if abs(b) > abs(bend) || (abs(b) == abs(bend) && b > bend) {
			bend = b
		}
	}
	return bend
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// saxGate reports whether the fingering should sound. With a play key on
// the table only play opens the gate; otherwise any held non-control key does.
func (s *Session) saxGate() bool {
	if s.playGated {
		return s.saxKeys.IsActive(sax.Play)
	}
	for _, k := range s.saxKeys.Active() {
		if !k.IsControl() {
			return true
		}
	}
	return false
}

// updateSax re-resolves the fingering and retriggers only on a change
func (s *Session) updateSax() {
	var (
		n  notes.Note
		on bool
	)
	if s.saxGate() {
		n, on = s.resolver.Resolve(s.saxKeys)
	}
	if on && s.saxSounding && n == s.saxNote {
		return
	}
	if s.saxSounding {
		s.stopNote(s.saxNote)
		s.saxSounding = false
	}
	if on {
		s.log.Debug("fingering", "note", notes.Format(n))
		s.startNote(n, s.saxVelocity)
		s.saxNote, s.saxSounding = n, true
	}
}

func (s *Session) lit(k mapping.Key, m mapping.Mapping) bool {
	if _, down := s.held[k]; down {
		return true
	}
	if s.showSame == ShowPressed {
		return false
	}
	switch m := m.(type) {
	case mapping.NoteAction:
		if s.notes.IsActive(m.Target) {
			return true
		}
		if s.showSame == ShowOctave {
			pc := notes.PitchClass(m.Target)
			for _, n := range s.notes.Active() {
				if notes.PitchClass(n) == pc {
					return true
				}
			}
		}
	case mapping.Fingering:
		return s.saxKeys.IsActive(m.Key)
	case mapping.PitchBend:
		return s.bends.IsActive(m.Bend)
	case mapping.Timbre:
	}
	return false
}

// refresh sends the colors that differ from what each pad last received
func (s *Session) refresh() {
	for k := range s.sent {
		if _, ok := s.table.Get(k); !ok {
			s.paint(k, mapping.DefaultColor)
		}
	}
	s.table.Each(func(k mapping.Key, e mapping.Entry) {
		c := e.Color.Rest
		if s.lit(k, e.Mapping) {
			c = e.Color.Pressed
		}
		s.paint(k, c)
	})
	for k := range s.sent {
		if _, ok := s.table.Get(k); !ok {
			delete(s.sent, k)
		}
	}
}

func (s *Session) paint(k mapping.Key, c mapping.Color) {
	if prev, ok := s.sent[k]; ok && prev == c {
		return
	}
	if err := s.lights.SetPadColor(k, c); err != nil {
		s.log.Warn("failed to set pad color", "key", k, "color", c, "error", err)
		return
	}
	s.sent[k] = c
}

// EventKind distinguishes Event types
type EventKind int

const (
	Down EventKind = iota
	Up
	Stop
)

// Event is one input for Run
type Event struct {
	Kind     EventKind
	Key      mapping.Key
	Velocity float64
}

// Run applies events in order until ctx is done or events is closed, then
// stops all sound.
func (s *Session) Run(ctx context.Context, events <-chan Event) error {
	defer s.StopAll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case Down:
				s.KeyDown(ev.Key, ev.Velocity)
			case Up:
				s.KeyUp(ev.Key)
			case Stop:
				s.StopAll()
			}
		}
	}
}
