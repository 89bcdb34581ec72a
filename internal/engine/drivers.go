package engine

import (
	"errors"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/notes"
)

// SoundDriver turns note activity into sound. Velocity is 0..1.
type SoundDriver interface {
	NoteOn(n notes.Note, velocity float64)
	NoteOff(n notes.Note)
	// PitchBend applies a signed 14-bit bend to every sounding note
	PitchBend(bend int)
	SetWaveform(w mapping.Waveform)
	// StopAll silences everything immediately
	StopAll()
}

// LightingDriver paints pads
type LightingDriver interface {
	SetPadColor(k mapping.Key, c mapping.Color) error
}

type nopSound struct{}

func (nopSound) NoteOn(notes.Note, float64)   {}
func (nopSound) NoteOff(notes.Note)           {}
func (nopSound) PitchBend(int)                {}
func (nopSound) SetWaveform(mapping.Waveform) {}
func (nopSound) StopAll()                     {}

type nopLights struct{}

func (nopLights) SetPadColor(mapping.Key, mapping.Color) error { return nil }

// MultiSound fans every call out to several drivers
type MultiSound []SoundDriver

func (m MultiSound) NoteOn(n notes.Note, velocity float64) {
	for _, d := range m {
		d.NoteOn(n, velocity)
	}
}

func (m MultiSound) NoteOff(n notes.Note) {
	for _, d := range m {
		d.NoteOff(n)
	}
}

func (m MultiSound) PitchBend(bend int) {
	for _, d := range m {
		d.PitchBend(bend)
	}
}

func (m MultiSound) SetWaveform(w mapping.Waveform) {
	for _, d := range m {
		d.SetWaveform(w)
	}
}

func (m MultiSound) StopAll() {
	for _, d := range m {
		d.StopAll()
	}
}

// MultiLights paints on several devices. Every driver is tried; the
// failures are joined.
type MultiLights []LightingDriver

func (m MultiLights) SetPadColor(k mapping.Key, c mapping.Color) error {
	var errs []error
	for _, d := range m {
		if err := d.SetPadColor(k, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
