package midi

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-pads/internal/mapping"
)

// DeviceType represents the type of device
type DeviceType string

const (
	DeviceTypeClassic  DeviceType = "classic"  // Launchpad S - note/CC addressed, red/green LEDs
	DeviceTypeColorful DeviceType = "colorful" // Launchpad Mini Mk3 - programmer mode over SysEx
	DeviceTypeGeneric  DeviceType = "generic"  // any note-numbered grid, velocity as color
)

// SendFunc writes one message to an output port
type SendFunc func(midi.Message) error

// Device represents a MIDI pad controller. Pads are identified by the keys
// of the device's Grid.
type Device interface {
	// ActivateProgrammerMode sends necessary commands to initialize the device
	ActivateProgrammerMode(send SendFunc) error

	// SetPadColor lights pad k with palette color c
	SetPadColor(send SendFunc, k mapping.Key, c mapping.Color) error

	// ClearAllPads turns every pad off
	ClearAllPads(send SendFunc) error

	// HandleMessage translates an incoming message into a pad event.
	// handled is false for messages that do not address a pad.
	HandleMessage(msg midi.Message) (k mapping.Key, velocity uint8, pressed bool, handled bool)

	// Grid is the pad layout the device reports keys in
	Grid() mapping.Grid
}

// programmer-mode coordinates: row 0 is the bottom row
func keyCoord(k mapping.Key) (row, col int, ok bool) {
	row, col = int(k)/10-1, int(k)%10-1
	if row < 0 || row > 8 || col < 0 || col > 8 {
		return 0, 0, false
	}
	return row, col, true
}

func coordKey(row, col int) mapping.Key {
	return mapping.Key((row+1)*10 + col + 1)
}
