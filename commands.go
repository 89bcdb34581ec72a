package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/PixPMusic/gopher-pads/internal/config"
	"github.com/PixPMusic/gopher-pads/internal/engine"
	"github.com/PixPMusic/gopher-pads/internal/mapping"
	"github.com/PixPMusic/gopher-pads/internal/midi"
	"github.com/PixPMusic/gopher-pads/internal/notes"
	"github.com/PixPMusic/gopher-pads/internal/preview"
	"github.com/PixPMusic/gopher-pads/internal/sax"
	"github.com/PixPMusic/gopher-pads/internal/startup"
	"github.com/PixPMusic/gopher-pads/internal/synth"
)

// portPollRate is how often run checks that device inputs still exist
const portPollRate = time.Second

// globalFlags are accepted by every command
type globalFlags struct {
	configPath string
	debug      bool
}

func newFlagSet(name string) (*flag.FlagSet, *globalFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	g := &globalFlags{}
	fs.StringVar(&g.configPath, "config", "", "config file (default: user config dir)")
	fs.BoolVar(&g.debug, "debug", false, "enable debug logging")
	return fs, g
}

func (g *globalFlags) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if g.debug {
		initLogger(true)
	}
	return nil
}

func (g *globalFlags) load() (*config.Config, error) {
	if g.configPath == "" {
		return config.Load()
	}
	return config.LoadFrom(g.configPath)
}

func (g *globalFlags) save(cfg *config.Config) error {
	if g.configPath == "" {
		return cfg.Save()
	}
	return cfg.SaveTo(g.configPath)
}

// readInput reads path, or stdin for "-"
func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// layoutTable returns the named layout, or the current one for ""
func layoutTable(cfg *config.Config, name string) (mapping.Table, error) {
	l := cfg.GetCurrentLayout()
	if name != "" {
		l = cfg.FindLayout(name)
	}
	if l == nil {
		if name == "" {
			return mapping.Table{}, errors.New("no layouts configured")
		}
		return mapping.Table{}, fmt.Errorf("no layout named %q", name)
	}
	return l.Table()
}

func runPorts(args []string, stdout io.Writer) error {
	fs, g := newFlagSet("ports")
	if err := g.parse(fs, args); err != nil {
		return err
	}

	m := midi.NewManager()
	defer m.Close()

	fmt.Fprintln(stdout, "inputs:")
	for _, name := range m.ListInPorts() {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	fmt.Fprintln(stdout, "outputs:")
	for _, name := range m.ListOutPorts() {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	return nil
}

func generateLayout(kind string, g mapping.Grid, start notes.Note, h, v int, rule mapping.ColorRule) (mapping.Table, error) {
	switch kind {
	case "isomorphic":
		return mapping.Isomorphic(g, start, h, v, rule), nil
	case "delta":
		return mapping.FromDeltaTable(g, mapping.DefaultDeltaTable, start, rule), nil
	case "extra":
		return mapping.FromDeltaTable(g, mapping.ExtraDeltaTable, start, rule), nil
	case "sax":
		return mapping.Saxophone(g, rule), nil
	}
	return mapping.Table{}, fmt.Errorf("unknown layout kind %q (want isomorphic, delta, extra or sax)", kind)
}

func runGenerate(args []string, stdout io.Writer) error {
	fs, g := newFlagSet("generate")
	kind := fs.String("layout", "isomorphic", "isomorphic, delta, extra or sax")
	start := fs.String("start", notes.Format(mapping.DefaultStartNote), "note on the bottom-left pad")
	h := fs.Int("h", mapping.DefaultHorizontalStep, "semitones per step to the right")
	v := fs.Int("v", mapping.DefaultVerticalStep, "semitones per step up")
	gridName := fs.String("grid", "9x9", "9x9 or 8x8")
	save := fs.String("save", "", "also store the layout in the config under this name")
	if err := g.parse(fs, args); err != nil {
		return err
	}

	grid, ok := mapping.ParseGrid(*gridName)
	if !ok {
		return fmt.Errorf("unknown grid %q", *gridName)
	}
	startNote, err := notes.Parse(*start)
	if err != nil {
		return fmt.Errorf("start note: %w", err)
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}

	tbl, err := generateLayout(*kind, grid, startNote, *h, *v, cfg.Colors.Settings().Rule())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, mapping.Format(tbl))

	if *save == "" {
		return nil
	}
	l := cfg.PutLayout(*save, tbl)
	if err := g.save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	slog.Info("saved layout", "name", l.Name, "id", l.ID, "pads", tbl.Len())
	return nil
}

func runExport(args []string, stdout io.Writer) error {
	fs, g := newFlagSet("export")
	name := fs.String("layout", "", "layout name or ID (default: current)")
	if err := g.parse(fs, args); err != nil {
		return err
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}
	tbl, err := layoutTable(cfg, *name)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, mapping.Format(tbl))
	return nil
}

func runImport(args []string, stdout io.Writer) error {
	fs, g := newFlagSet("import")
	name := fs.String("name", "", "layout name (required)")
	if err := g.parse(fs, args); err != nil {
		return err
	}
	if *name == "" || fs.NArg() != 1 {
		return errors.New("usage: import -name <layout> <file|->")
	}

	text, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	tbl, err := mapping.Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}
	l := cfg.PutLayout(*name, tbl)
	if err := g.save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(stdout, "imported %d pads as %q\n", tbl.Len(), l.Name)
	return nil
}

func runValidate(args []string, stdout io.Writer) error {
	fs, g := newFlagSet("validate")
	if err := g.parse(fs, args); err != nil {
		return err
	}

	if fs.NArg() > 0 {
		text, err := readInput(fs.Arg(0))
		if err != nil {
			return err
		}
		tbl, err := mapping.Parse(text)
		if err != nil {
			return fmt.Errorf("%s: %w", fs.Arg(0), err)
		}
		fmt.Fprintf(stdout, "%s: ok, %d pads\n", fs.Arg(0), tbl.Len())
		return nil
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	if err := errors.Join(cfg.Validate(), sax.Validate(sax.DefaultCombos)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "config ok: %d devices, %d layouts\n", len(cfg.Devices), len(cfg.Layouts))
	return nil
}

func runShow(args []string, stdout io.Writer) error {
	fs, g := newFlagSet("show")
	name := fs.String("layout", "", "layout name or ID (default: current)")
	gridName := fs.String("grid", "9x9", "9x9 or 8x8")
	legend := fs.Bool("legend", false, "also list every pad")
	if err := g.parse(fs, args); err != nil {
		return err
	}
	grid, ok := mapping.ParseGrid(*gridName)
	if !ok {
		return fmt.Errorf("unknown grid %q", *gridName)
	}

	var tbl mapping.Table
	if fs.NArg() > 0 {
		text, err := readInput(fs.Arg(0))
		if err != nil {
			return err
		}
		if tbl, err = mapping.Parse(text); err != nil {
			return fmt.Errorf("%s: %w", fs.Arg(0), err)
		}
	} else {
		cfg, err := g.load()
		if err != nil {
			return err
		}
		if tbl, err = layoutTable(cfg, *name); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout, preview.Render(grid, tbl, nil))
	if *legend {
		fmt.Fprint(stdout, preview.Legend(tbl))
	}
	return nil
}

func runStartup(args []string, stdout io.Writer) error {
	fs, g := newFlagSet("startup")
	if err := g.parse(fs, args); err != nil {
		return err
	}

	switch fs.Arg(0) {
	case "enable":
		runArgs := []string{"run"}
		if g.configPath != "" {
			abs, err := filepath.Abs(g.configPath)
			if err != nil {
				return err
			}
			runArgs = append(runArgs, "-config", abs)
		}
		e, err := startup.NewEntry(runArgs...)
		if err != nil {
			return err
		}
		if err := startup.Enable(e); err != nil {
			return fmt.Errorf("failed to enable startup: %w", err)
		}
		fmt.Fprintf(stdout, "will run at login: %s\n", e.CommandLine())
	case "disable":
		if err := startup.Disable(); err != nil {
			return fmt.Errorf("failed to disable startup: %w", err)
		}
		fmt.Fprintln(stdout, "startup disabled")
	case "", "status":
		if startup.IsEnabled() {
			fmt.Fprintln(stdout, "startup enabled")
		} else {
			fmt.Fprintln(stdout, "startup disabled")
		}
	default:
		return fmt.Errorf("unknown startup action %q (want enable, disable or status)", fs.Arg(0))
	}
	return nil
}

// openSound builds the configured sound driver. The returned closer is
// never nil.
func openSound(m *midi.Manager, sc config.SoundConfig) (engine.SoundDriver, func(), error) {
	switch sc.Output {
	case config.OutputAudio:
		s := synth.New(synth.SampleRate, sc.Settings())
		out, err := synth.Start(s)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := out.Close(); err != nil {
				slog.Warn("audio close failed", "error", err)
			}
		}, nil
	case config.OutputMIDI:
		send, err := m.Sender(sc.MIDIPort)
		if err != nil {
			return nil, nil, fmt.Errorf("sound output: %w", err)
		}
		return midi.NewSynthOut(send, uint8(sc.MIDIChannel)), func() {}, nil
	}
	return nil, func() {}, nil
}

func runPlay(args []string, stdout io.Writer) error {
	fs, g := newFlagSet("run")
	deviceName := fs.String("device", "", "only use this device (name or ID)")
	layoutName := fs.String("layout", "", "layout name or ID (default: current)")
	if err := g.parse(fs, args); err != nil {
		return err
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	tbl, err := layoutTable(cfg, *layoutName)
	if err != nil {
		return err
	}
	mode, err := engine.ParseShowSameNote(cfg.ShowSameNote)
	if err != nil {
		return err
	}

	devices := cfg.Devices
	if *deviceName != "" {
		d := cfg.GetDevice(*deviceName)
		if d == nil {
			return fmt.Errorf("no device named %q", *deviceName)
		}
		devices = []config.DeviceConfig{*d}
	}
	if len(devices) == 0 {
		return errors.New("no devices configured")
	}

	m := midi.NewManager()
	defer m.Close()

	sound, closeSound, err := openSound(m, cfg.Sound)
	if err != nil {
		return err
	}
	defer closeSound()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	events := make(chan engine.Event, 64)
	var lights engine.MultiLights
	for _, dc := range devices {
		dt, err := midi.ParseDeviceType(string(dc.Type))
		if err != nil {
			return fmt.Errorf("device %q: %w", dc.Name, err)
		}
		device := midi.GetDevice(dt)
		log := slog.With("device", dc.Name)

		if dc.OutPort != "" {
			pads, err := m.OpenPads(dc.OutPort, device)
			if err != nil {
				return fmt.Errorf("device %q: %w", dc.Name, err)
			}
			lights = append(lights, pads)
			defer func() {
				if err := pads.Clear(); err != nil {
					log.Warn("failed to clear pads", "error", err)
				}
			}()
		}

		stopListening, err := m.StartListening(dc.InPort, device, func(k mapping.Key, velocity uint8, pressed bool) {
			ev := engine.Event{Kind: engine.Up, Key: k}
			if pressed {
				ev = engine.Event{Kind: engine.Down, Key: k, Velocity: float64(velocity) / 127}
			}
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return fmt.Errorf("device %q: %w", dc.Name, err)
		}
		defer stopListening()

		gone := m.WatchPort(ctx, dc.InPort, portPollRate)
		go func(name string) {
			<-gone
			if ctx.Err() == nil {
				cancel(fmt.Errorf("device %q disconnected", name))
			}
		}(dc.Name)

		log.Info("device ready", "in", dc.InPort, "out", dc.OutPort, "type", dt)
	}

	session := engine.NewSession(sound, lights)
	session.SetResolver(cfg.Resolver())
	session.SetShowSameNote(mode)
	session.SetTable(tbl)

	fmt.Fprintf(stdout, "playing %d pads on %d devices, ctrl-c to quit\n", tbl.Len(), len(devices))
	err = session.Run(ctx, events)
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// splitAction separates a leading action word from the flags that follow it
func splitAction(args []string, def string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return def, args
	}
	return args[0], args[1:]
}

func runDevices(args []string, stdout io.Writer) error {
	action, args := splitAction(args, "list")
	fs, g := newFlagSet("devices " + action)
	name := fs.String("name", "", "device name")
	in := fs.String("in", "", "MIDI input port")
	out := fs.String("out", "", `MIDI output port for lighting (default: same as -in, "none" to disable)`)
	typ := fs.String("type", string(config.DeviceTypeColorful), "classic, colorful or generic")
	if err := g.parse(fs, args); err != nil {
		return err
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}

	switch action {
	case "list":
		if len(cfg.Devices) == 0 {
			fmt.Fprintln(stdout, "no devices configured")
		}
		for _, d := range cfg.Devices {
			fmt.Fprintf(stdout, "%s  %-9s in=%q out=%q  %s\n", d.Name, d.Type, d.InPort, d.OutPort, d.ID)
		}
		return nil
	case "add":
		if *name == "" || *in == "" {
			return errors.New("usage: devices add -name <name> -in <port> [-out <port>|none] [-type classic|colorful|generic]")
		}
		dt, err := midi.ParseDeviceType(*typ)
		if err != nil {
			return err
		}
		outPort := *out
		switch outPort {
		case "":
			outPort = *in
		case "none":
			outPort = ""
		}

		d := config.NewDeviceConfig()
		existing := cfg.GetDevice(*name)
		if existing != nil {
			d = *existing
		}
		d.Name, d.InPort, d.OutPort, d.Type = *name, *in, outPort, config.DeviceType(dt)
		if existing != nil {
			cfg.UpdateDevice(d)
		} else {
			cfg.AddDevice(d)
		}
		if err := g.save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(stdout, "saved device %q (%s)\n", d.Name, d.ID)
		return nil
	case "remove":
		if fs.NArg() != 1 {
			return errors.New("usage: devices remove <name|id>")
		}
		d := cfg.GetDevice(fs.Arg(0))
		if d == nil {
			return fmt.Errorf("no device named %q", fs.Arg(0))
		}
		removed := *d
		cfg.RemoveDevice(removed.ID)
		if err := g.save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(stdout, "removed device %q\n", removed.Name)
		return nil
	}
	return fmt.Errorf("unknown devices action %q (want list, add or remove)", action)
}

func runLayouts(args []string, stdout io.Writer) error {
	action, args := splitAction(args, "list")
	fs, g := newFlagSet("layouts " + action)
	if err := g.parse(fs, args); err != nil {
		return err
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}

	if action == "list" {
		cur := cfg.GetCurrentLayout()
		for _, l := range cfg.Layouts {
			mark := " "
			if cur != nil && cur.ID == l.ID {
				mark = "*"
			}
			fmt.Fprintf(stdout, "%s %s  %s\n", mark, l.Name, l.ID)
		}
		return nil
	}
	if action != "use" && action != "remove" {
		return fmt.Errorf("unknown layouts action %q (want list, use or remove)", action)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: layouts %s <name|id>", action)
	}
	l := cfg.FindLayout(fs.Arg(0))
	if l == nil {
		return fmt.Errorf("no layout named %q", fs.Arg(0))
	}
	picked, verb := *l, "using"
	if action == "use" {
		cfg.CurrentLayoutID = picked.ID
	} else {
		cfg.RemoveLayout(picked.ID)
		verb = "removed"
	}
	if err := g.save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(stdout, "%s layout %q\n", verb, picked.Name)
	return nil
}
