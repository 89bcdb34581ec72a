// Package startup registers a command line to run when the user logs in,
// so a controller setup can start playing without opening a terminal.
package startup

import (
	"errors"
	"fmt"
	"html"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	label   = "com.pixpmusic.gopher-pads"
	appName = "GopherPads"
)

// Entry is the command launched at login
type Entry struct {
	Exec string
	Args []string
}

// NewEntry runs the current executable with args
func NewEntry(args ...string) (Entry, error) {
	execPath, err := os.Executable()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to locate executable: %w", err)
	}
	return Entry{Exec: execPath, Args: args}, nil
}

// CommandLine is the entry as one shell-quoted string
func (e Entry) CommandLine() string {
	parts := make([]string, 0, len(e.Args)+1)
	for _, p := range append([]string{e.Exec}, e.Args...) {
		parts = append(parts, quoteArg(p))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'\\") {
		return s
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// Enable registers e to launch at login, replacing any earlier entry
func Enable(e Entry) error {
	switch runtime.GOOS {
	case "darwin":
		return writeFile(launchAgentPath(), e.launchAgent())
	case "linux":
		return writeFile(desktopPath(), e.desktopFile())
	case "windows":
		return exec.Command("reg", "add", windowsRunKey,
			"/v", appName, "/t", "REG_SZ", "/d", e.CommandLine(), "/f").Run()
	}
	return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
}

// Disable removes the login entry. Removing a missing entry is not an error.
func Disable() error {
	switch runtime.GOOS {
	case "darwin":
		return removeFile(launchAgentPath())
	case "linux":
		return removeFile(desktopPath())
	case "windows":
		out, err := exec.Command("reg", "delete", windowsRunKey, "/v", appName, "/f").CombinedOutput()
		if err != nil && !strings.Contains(string(out), "unable to find") {
			return err
		}
		return nil
	}
	return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
}

// IsEnabled reports whether a login entry exists
func IsEnabled() bool {
	switch runtime.GOOS {
	case "darwin":
		return exists(launchAgentPath())
	case "linux":
		return exists(desktopPath())
	case "windows":
		return exec.Command("reg", "query", windowsRunKey, "/v", appName).Run() == nil
	}
	return false
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func removeFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// macOS

func launchAgentPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "LaunchAgents", label+".plist")
}

func (e Entry) launchAgent() string {
	var args strings.Builder
	for _, a := range append([]string{e.Exec}, e.Args...) {
		fmt.Fprintf(&args, "        <string>%s</string>\n", html.EscapeString(a))
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>%s</string>
    <key>ProgramArguments</key>
    <array>
%s    </array>
    <key>RunAtLoad</key>
    <true/>
</dict>
</plist>
`, label, args.String())
}

// Linux

func desktopPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", "gopher-pads.desktop")
}

func (e Entry) desktopFile() string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
Terminal=false
X-GNOME-Autostart-enabled=true
`, appName, e.CommandLine())
}

// Windows

const windowsRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`
