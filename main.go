package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
)

type command struct {
	summary string
	run     func(args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"run":      {"play through the configured devices", runPlay},
	"ports":    {"list MIDI input and output ports", runPorts},
	"generate": {"print a generated layout", runGenerate},
	"export":   {"print a saved layout", runExport},
	"import":   {"save a layout file into the config", runImport},
	"validate": {"check a layout file, or the config and fingering chart", runValidate},
	"show":     {"draw a layout in the terminal", runShow},
	"startup":  {"start playing at login (enable, disable or status)", runStartup},
	"devices":  {"list, add or remove controllers", runDevices},
	"layouts":  {"list, pick or remove saved layouts", runLayouts},
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug, // include file:line in debug mode
	})
	slog.SetDefault(slog.New(h))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: gopher-pads <command> [flags]\n\ncommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nrun 'gopher-pads <command> -h' for command flags\n")
}

func main() {
	initLogger(false)

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		if os.Args[1] == "-h" || os.Args[1] == "help" {
			usage(os.Stdout)
			return
		}
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}

	if err := cmd.run(os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}
