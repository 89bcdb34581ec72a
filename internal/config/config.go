package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/PixPMusic/gopher-pads/internal/engine"
	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/sax"
	"github.com/PixPMusic/gopher-pads/internal/synth"
)

// DeviceType represents the type of MIDI device
type DeviceType string

const (
	DeviceTypeClassic  DeviceType = "classic"  // Launchpad S
	DeviceTypeColorful DeviceType = "colorful" // Launchpad Mini Mk3
	DeviceTypeGeneric  DeviceType = "generic"  // any note-numbered grid
)

// DeviceConfig holds configuration for a single MIDI device
type DeviceConfig struct {
	ID      string     `json:"id"`       // Unique identifier
	Name    string     `json:"name"`     // User-friendly name
	InPort  string     `json:"in_port"`  // MIDI input port name
	OutPort string     `json:"out_port"` // MIDI output port name, empty for no lighting
	Type    DeviceType `json:"type"`
}

// NewDeviceConfig creates a new device config with a generated ID
func NewDeviceConfig() DeviceConfig {
	return DeviceConfig{
		ID:   uuid.New().String(),
		Name: "New Device",
		Type: DeviceTypeColorful,
	}
}

// Sound outputs
const (
	OutputAudio = "audio" // built-in synth
	OutputMIDI  = "midi"  // external synth on MIDIPort
	OutputNone  = "none"
)

// SoundConfig selects and tunes the sound driver
type SoundConfig struct {
	Output      string  `json:"output"`
	Volume      float64 `json:"volume"` // 0-1
	Waveform    string  `json:"waveform"`
	AttackMs    float64 `json:"attack_ms"`
	ReleaseMs   float64 `json:"release_ms"`
	MIDIPort    string  `json:"midi_port,omitempty"`
	MIDIChannel int     `json:"midi_channel"` // 0-15
}

// Settings converts to the synth's settings
func (s SoundConfig) Settings() synth.Settings {
	w, ok := mapping.ParseWaveform(s.Waveform)
	if !ok {
		w = synth.DefaultSettings.Waveform
	}
	return synth.Settings{
		Volume:    s.Volume,
		Waveform:  w,
		AttackMs:  s.AttackMs,
		ReleaseMs: s.ReleaseMs,
	}
}

// ColorConfig stores the palette codes used by the layout generators
type ColorConfig struct {
	SingleColor    bool          `json:"single_color"`
	WhiteRest      mapping.Color `json:"white_rest"`
	WhitePressed   mapping.Color `json:"white_pressed"`
	BlackRest      mapping.Color `json:"black_rest"`
	BlackPressed   mapping.Color `json:"black_pressed"`
	SaxRest        mapping.Color `json:"sax_rest"`
	SaxPressed     mapping.Color `json:"sax_pressed"`
	SaxSideRest    mapping.Color `json:"sax_side_rest"`
	SaxSidePressed mapping.Color `json:"sax_side_pressed"`
}

// Settings converts to the mapping package's color settings
func (c ColorConfig) Settings() mapping.ColorSettings {
	return mapping.ColorSettings(c)
}

// Layout is a saved mapping table in its text form
type Layout struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Mapping string `json:"mapping"`
}

// NewLayout stores t under name with a generated ID
func NewLayout(name string, t mapping.Table) Layout {
	return Layout{
		ID:      uuid.New().String(),
		Name:    name,
		Mapping: mapping.Format(t),
	}
}

// Table parses the stored mapping
func (l Layout) Table() (mapping.Table, error) {
	t, err := mapping.Parse(l.Mapping)
	if err != nil {
		return mapping.Table{}, fmt.Errorf("layout %q: %w", l.Name, err)
	}
	return t, nil
}

// Config holds application configuration
type Config struct {
	Devices         []DeviceConfig `json:"devices"`
	Sound           SoundConfig    `json:"sound"`
	Colors          ColorConfig    `json:"colors"`
	ShowSameNote    string         `json:"show_same_note"`
	SaxBaseOctave   int            `json:"sax_base_octave"` // octave the fingering chart plays in
	Layouts         []Layout       `json:"layouts"`
	CurrentLayoutID string         `json:"current_layout_id"`
}

// Default returns the configuration used when no file exists: no devices,
// the built-in synth and one Wicky-Hayden layout.
func Default() *Config {
	colors := mapping.DefaultColorSettings
	layout := NewLayout("Wicky-Hayden", mapping.Isomorphic(
		mapping.ProgrammerGrid(),
		mapping.DefaultStartNote,
		mapping.DefaultHorizontalStep,
		mapping.DefaultVerticalStep,
		colors.Rule(),
	))
	return &Config{
		Devices: []DeviceConfig{},
		Sound: SoundConfig{
			Output:    OutputAudio,
			Volume:    synth.DefaultSettings.Volume,
			Waveform:  string(synth.DefaultSettings.Waveform),
			AttackMs:  synth.DefaultSettings.AttackMs,
			ReleaseMs: synth.DefaultSettings.ReleaseMs,
		},
		Colors:          ColorConfig(colors),
		ShowSameNote:    string(engine.ShowSame),
		SaxBaseOctave:   sax.DefaultBaseOctave,
		Layouts:         []Layout{layout},
		CurrentLayoutID: layout.ID,
	}
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-pads"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default location
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the config at path, returning defaults if it does not exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	cfg.Layouts = nil
	cfg.CurrentLayoutID = ""
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Ensure slices are not nil
	if cfg.Devices == nil {
		cfg.Devices = []DeviceConfig{}
	}
	if len(cfg.Layouts) == 0 {
		def := Default()
		cfg.Layouts = def.Layouts
		cfg.CurrentLayoutID = def.CurrentLayoutID
	}

	slog.Debug("loaded config", "path", path, "devices", len(cfg.Devices), "layouts", len(cfg.Layouts))
	return cfg, nil
}

// Save writes the config to the default location
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports every setting that cannot be used
func (c *Config) Validate() error {
	var errs []error
	for _, d := range c.Devices {
		switch d.Type {
		case DeviceTypeClassic, DeviceTypeColorful, DeviceTypeGeneric, "":
		default:
			errs = append(errs, fmt.Errorf("device %q: unknown type %q", d.Name, d.Type))
		}
		if d.InPort == "" {
			errs = append(errs, fmt.Errorf("device %q: no input port", d.Name))
		}
	}

	switch c.Sound.Output {
	case OutputAudio, OutputNone:
	case OutputMIDI:
		if c.Sound.MIDIPort == "" {
			errs = append(errs, errors.New("sound: midi output needs midi_port"))
		}
	default:
		errs = append(errs, fmt.Errorf("sound: unknown output %q", c.Sound.Output))
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		errs = append(errs, fmt.Errorf("sound: volume %v out of range 0-1", c.Sound.Volume))
	}
	if _, ok := mapping.ParseWaveform(c.Sound.Waveform); !ok {
		errs = append(errs, fmt.Errorf("sound: unknown waveform %q", c.Sound.Waveform))
	}
	if c.Sound.AttackMs < 0 || c.Sound.ReleaseMs < 0 {
		errs = append(errs, errors.New("sound: attack and release must not be negative"))
	}
	if c.Sound.MIDIChannel < 0 || c.Sound.MIDIChannel > 15 {
		errs = append(errs, fmt.Errorf("sound: midi channel %d out of range 0-15", c.Sound.MIDIChannel))
	}

	if _, err := engine.ParseShowSameNote(c.ShowSameNote); err != nil {
		errs = append(errs, err)
	}
	if c.SaxBaseOctave < 0 || c.SaxBaseOctave > maxSaxBaseOctave {
		errs = append(errs, fmt.Errorf("sax_base_octave %d out of range 0-%d", c.SaxBaseOctave, maxSaxBaseOctave))
	}
	for _, l := range c.Layouts {
		if _, err := l.Table(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// maxSaxBaseOctave keeps the highest fingering with all octave keys held
// inside the MIDI note range
const maxSaxBaseOctave = 5

// Resolver returns the stock fingering chart played at SaxBaseOctave
func (c *Config) Resolver() *sax.Resolver {
	return sax.NewResolver(sax.DefaultCombos, c.SaxBaseOctave)
}

// GetCurrentLayout returns the current layout
func (c *Config) GetCurrentLayout() *Layout {
	for i := range c.Layouts {
		if c.Layouts[i].ID == c.CurrentLayoutID {
			return &c.Layouts[i]
		}
	}
	if len(c.Layouts) > 0 {
		return &c.Layouts[0]
	}
	return nil
}

// FindLayout returns the layout with the given ID or name
func (c *Config) FindLayout(idOrName string) *Layout {
	for i := range c.Layouts {
		if c.Layouts[i].ID == idOrName || c.Layouts[i].Name == idOrName {
			return &c.Layouts[i]
		}
	}
	return nil
}

// PutLayout stores t under name, replacing a layout of the same name, and
// makes it current.
func (c *Config) PutLayout(name string, t mapping.Table) Layout {
	if l := c.FindLayout(name); l != nil {
		l.Mapping = mapping.Format(t)
		c.CurrentLayoutID = l.ID
		return *l
	}
	l := NewLayout(name, t)
	c.Layouts = append(c.Layouts, l)
	c.CurrentLayoutID = l.ID
	return l
}

// RemoveLayout removes a layout by ID
func (c *Config) RemoveLayout(id string) {
	for i, l := range c.Layouts {
		if l.ID == id {
			c.Layouts = append(c.Layouts[:i], c.Layouts[i+1:]...)
			if c.CurrentLayoutID == id {
				c.CurrentLayoutID = ""
			}
			return
		}
	}
}

// GetDevice returns a device by ID or name
func (c *Config) GetDevice(idOrName string) *DeviceConfig {
	for i := range c.Devices {
		if c.Devices[i].ID == idOrName || c.Devices[i].Name == idOrName {
			return &c.Devices[i]
		}
	}
	return nil
}

// AddDevice adds a new device to the config
func (c *Config) AddDevice(device DeviceConfig) {
	c.Devices = append(c.Devices, device)
}

// RemoveDevice removes a device by ID
func (c *Config) RemoveDevice(id string) {
	for i, d := range c.Devices {
		if d.ID == id {
			c.Devices = append(c.Devices[:i], c.Devices[i+1:]...)
			return
		}
	}
}

// UpdateDevice updates an existing device by ID
func (c *Config) UpdateDevice(device DeviceConfig) {
	for i, d := range c.Devices {
		if d.ID == device.ID {
			c.Devices[i] = device
			return
		}
	}
}
