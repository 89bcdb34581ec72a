package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
)

// ColorfulDevice implements Device for Launchpad Mini Mk3. In programmer
// mode every pad's message number equals its LED index, which is the key.
type ColorfulDevice struct{}

var novationHeader = []byte{0x00, 0x20, 0x29, 0x02, 0x0D}

func sysex(body ...byte) midi.Message {
	return midi.SysEx(append(append([]byte{}, novationHeader...), body...))
}

func (d *ColorfulDevice) Grid() mapping.Grid {
	return mapping.ProgrammerGrid()
}

func (d *ColorfulDevice) ActivateProgrammerMode(send SendFunc) error {
	// SysEx for programmer mode: 00 20 29 02 0D 0E 01
	if err := send(sysex(0x0E, 0x01)); err != nil {
		return fmt.Errorf("failed to send programmer mode message: %w", err)
	}
	return nil
}

func (d *ColorfulDevice) SetPadColor(send SendFunc, k mapping.Key, c mapping.Color) error {
	if _, _, ok := keyCoord(k); !ok {
		return nil
	}
	// LED lighting: 03, then <type 00 = static palette> <led> <color>
	return send(sysex(0x03, 0x00, uint8(k), uint8(c)&0x7F))
}

func (d *ColorfulDevice) ClearAllPads(send SendFunc) error {
	body := []byte{0x03}
	for _, k := range d.Grid().Keys() {
		body = append(body, 0x00, uint8(k), 0x00) // static off
	}
	return send(sysex(body...))
}

func (d *ColorfulDevice) HandleMessage(msg midi.Message) (mapping.Key, uint8, bool, bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		if _, _, ok := keyCoord(mapping.Key(key)); ok {
			return mapping.Key(key), velocity, velocity > 0, true
		}
	case msg.GetNoteOff(&channel, &key, &velocity):
		if _, _, ok := keyCoord(mapping.Key(key)); ok {
			return mapping.Key(key), 0, false, true
		}
	case msg.GetControlChange(&channel, &key, &velocity):
		// top row (91-98) and right column (19, 29... 89) send CC
		if (key >= 91 && key <= 98) || (key%10 == 9 && key >= 19 && key <= 89) {
			return mapping.Key(key), velocity, velocity > 0, true
		}
	}
	return 0, 0, false, false
}
