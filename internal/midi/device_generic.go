package midi

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/notes"
)

// GenericDevice implements Device for any grid that sends plain notes.
// Keys are the note numbers; pads are lit by echoing a note whose
// velocity is the palette color.
type GenericDevice struct {
	Channel uint8
}

func (d *GenericDevice) Grid() mapping.Grid {
	return mapping.DrumGrid()
}

func (d *GenericDevice) ActivateProgrammerMode(send SendFunc) error {
	return nil
}

func (d *GenericDevice) SetPadColor(send SendFunc, k mapping.Key, c mapping.Color) error {
	if !notes.InRange(notes.Note(k)) {
		return nil
	}
	return send(midi.NoteOn(d.Channel, uint8(k), uint8(c)&0x7F))
}

func (d *GenericDevice) ClearAllPads(send SendFunc) error {
	for _, k := range d.Grid().Keys() {
		if err := send(midi.NoteOff(d.Channel, uint8(k))); err != nil {
			return err
		}
	}
	return nil
}

func (d *GenericDevice) HandleMessage(msg midi.Message) (mapping.Key, uint8, bool, bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		return mapping.Key(key), velocity, velocity > 0, true
	case msg.GetNoteOff(&channel, &key, &velocity):
		return mapping.Key(key), 0, false, true
	}
	return 0, 0, false, false
}
