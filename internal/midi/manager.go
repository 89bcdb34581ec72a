package midi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver

	"github.com/PixPMusic/gopher-pads/internal/mapping"
)

// ErrPortNotFound is returned when a named port is not present
var ErrPortNotFound = errors.New("port not found")

// Manager handles MIDI port discovery and management
type Manager struct {
	mu sync.RWMutex
}

// NewManager creates a new MIDI manager
func NewManager() *Manager {
	return &Manager{}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetInPort returns an input port by name
func (m *Manager) GetInPort(name string) (drivers.In, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, in := range midi.GetInPorts() {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("input %q: %w", name, ErrPortNotFound)
}

// GetOutPort returns an output port by name
func (m *Manager) GetOutPort(name string) (drivers.Out, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, out := range midi.GetOutPorts() {
		if out.String() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("output %q: %w", name, ErrPortNotFound)
}

// Sender opens an output port for writing
func (m *Manager) Sender(outPortName string) (SendFunc, error) {
	outPort, err := m.GetOutPort(outPortName)
	if err != nil {
		return nil, err
	}
	send, err := midi.SendTo(outPort)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}
	return send, nil
}

// KeyCallback is called for every pad press or release
type KeyCallback func(k mapping.Key, velocity uint8, pressed bool)

// StartListening begins listening for pad events on the specified port.
// The callback runs on the driver's goroutine.
func (m *Manager) StartListening(inPortName string, device Device, callback KeyCallback) (func(), error) {
	inPort, err := m.GetInPort(inPortName)
	if err != nil {
		return nil, err
	}

	log := slog.Default().With("port", inPortName)
	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		k, velocity, pressed, ok := device.HandleMessage(msg)
		if !ok {
			log.Debug("ignored message", "msg", msg.String())
			return
		}
		callback(k, velocity, pressed)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start listening: %w", err)
	}
	return stop, nil
}

// WatchPort polls the port list and closes the returned channel once
// inPortName disappears or ctx is done.
func (m *Manager) WatchPort(ctx context.Context, inPortName string, pollRate time.Duration) <-chan struct{} {
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		ticker := time.NewTicker(pollRate)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !slices.Contains(m.ListInPorts(), inPortName) {
					slog.Warn("MIDI port disconnected", "port", inPortName)
					return
				}
			}
		}
	}()
	return gone
}

// Pads is a lighting driver for one device's output port
type Pads struct {
	mu     sync.Mutex
	device Device
	send   SendFunc
}

// NewPads wraps an open sender for device
func NewPads(device Device, send SendFunc) *Pads {
	return &Pads{device: device, send: send}
}

// OpenPads opens outPortName, puts the device into programmer mode and
// clears it.
func (m *Manager) OpenPads(outPortName string, device Device) (*Pads, error) {
	send, err := m.Sender(outPortName)
	if err != nil {
		return nil, err
	}
	p := NewPads(device, send)
	if err := device.ActivateProgrammerMode(send); err != nil {
		return nil, err
	}
	if err := p.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear pads: %w", err)
	}
	return p, nil
}

// SetPadColor lights pad k
func (p *Pads) SetPadColor(k mapping.Key, c mapping.Color) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device.SetPadColor(p.send, k, c)
}

// Clear turns every pad off
func (p *Pads) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device.ClearAllPads(p.send)
}
