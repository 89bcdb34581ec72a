package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/palette"
)

// ClassicDevice implements Device for Launchpad S. Keys use the
// programmer-mode numbering so layouts are shared with the Mini Mk3.
type ClassicDevice struct{}

func (d *ClassicDevice) Grid() mapping.Grid {
	return mapping.ProgrammerGrid()
}

func (d *ClassicDevice) ActivateProgrammerMode(send SendFunc) error {
	// Launchpad S - reset to default state
	// Send reset: B0 00 00 (CC 0 value 0)
	if err := send(midi.ControlChange(0, 0, 0)); err != nil {
		return fmt.Errorf("failed to reset Launchpad S: %w", err)
	}
	return nil
}

// address maps a key to the Launchpad S message that lights it.
// Top row: CC 104-111, no ninth button. Grid and right column: notes,
// 16 apart per row counting down from the top.
func (d *ClassicDevice) address(k mapping.Key) (isCC bool, number uint8, ok bool) {
	row, col, ok := keyCoord(k)
	if !ok {
		return false, 0, false
	}
	fromTop := 8 - row
	if fromTop == 0 {
		if col == 8 {
			return false, 0, false
		}
		return true, uint8(104 + col), true
	}
	return false, uint8((fromTop-1)*16 + col), true
}

func (d *ClassicDevice) SetPadColor(send SendFunc, k mapping.Key, c mapping.Color) error {
	isCC, number, ok := d.address(k)
	if !ok {
		return nil
	}
	velocity := d.velocity(c)
	if isCC {
		return send(midi.ControlChange(0, number, velocity))
	}
	return send(midi.NoteOn(0, number, velocity))
}

// velocity packs a palette color into the Launchpad S format:
// bits 0-1 red, bits 2-3 copy/clear flags, bits 4-5 green
func (d *ClassicDevice) velocity(c mapping.Color) uint8 {
	r8, g8, b8 := palette.RGB(uint8(c))
	r, g, b := r8>>1, g8>>1, b8>>1

	if r < 5 && g < 5 && b < 5 {
		return 0x0C // flags only, no color = off
	}

	// No blue LED: blue adds mostly to green, a little to red for brightness
	effectiveR := min(int(r)+int(b)/4, 127)
	effectiveG := min(int(g)+(int(b)*3)/4, 127)

	redLevel := colorTo4Level(uint8(effectiveR))
	greenLevel := colorTo4Level(uint8(effectiveG))
	return (greenLevel << 4) | 0x0C | redLevel
}

// colorTo4Level converts 0-127 color value to 0-3 intensity for Launchpad S
func colorTo4Level(value uint8) uint8 {
	switch {
	case value < 32:
		return 0
	case value < 64:
		return 1
	case value < 96:
		return 2
	}
	return 3
}

func (d *ClassicDevice) ClearAllPads(send SendFunc) error {
	// Reset Launchpad S: B0 00 00
	return send(midi.ControlChange(0, 0, 0))
}

func (d *ClassicDevice) HandleMessage(msg midi.Message) (mapping.Key, uint8, bool, bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		if k, ok := d.noteKey(key); ok {
			return k, velocity, velocity > 0, true
		}
	case msg.GetNoteOff(&channel, &key, &velocity):
		if k, ok := d.noteKey(key); ok {
			return k, 0, false, true
		}
	case msg.GetControlChange(&channel, &key, &velocity):
		if key >= 104 && key <= 111 {
			return coordKey(8, int(key-104)), velocity, velocity > 0, true
		}
	}
	return 0, 0, false, false
}

func (d *ClassicDevice) noteKey(note uint8) (mapping.Key, bool) {
	fromTop := int(note/16) + 1
	col := int(note % 16)
	if fromTop < 1 || fromTop > 8 || col > 8 {
		return 0, false
	}
	return coordKey(8-fromTop, col), true
}
