// Package service renders, writes, and removes the systemd user unit
// that supervises a detached VM.
package service

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

const unitTemplate = `[Unit]
Description=Virtual Machine: {{.Name}}
[Service]
Type=simple
ExecStart={{.EmuPath}} run -e {{.Name}}
TimeoutStopSec=30
ExecStop={{.EmuPath}} shutdown {{.Name}}
KillSignal=SIGCONT
FinalKillSignal=SIGKILL
[Install]
WantedBy=default.target
`

var tmpl = template.Must(template.New("unit").Parse(unitTemplate))

type unitFields struct {
	Name    string
	EmuPath string
}

// Dir returns the user-scoped systemd unit directory, creating it if
// absent.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	dir := filepath.Join(cfg, "systemd", "user")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "create systemd user dir")
	}
	return dir, nil
}

func unitPath(dir, vmName string) string {
	return filepath.Join(dir, unitFileName(vmName))
}

func unitFileName(vmName string) string {
	return "emu." + vmName + ".service"
}

// Exists reports whether a unit file for vmName is installed.
func Exists(dir, vmName string) bool {
	_, err := os.Stat(unitPath(dir, vmName))
	return err == nil
}

// Create renders and writes the unit file for vmName, targeting the
// currently running executable as emuPath.
func Create(dir, vmName, emuPath string) error {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, unitFields{Name: vmName, EmuPath: emuPath}); err != nil {
		return errors.Wrap(err, "render unit template")
	}
	return errors.Wrap(os.WriteFile(unitPath(dir, vmName), []byte(buf.String()), 0644), "write unit file")
}

// Remove unlinks the unit file for vmName, tolerating its absence.
func Remove(dir, vmName string) error {
	err := os.Remove(unitPath(dir, vmName))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove unit file")
	}
	return nil
}

// List enumerates installed unit files and returns the VM names they
// name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read systemd user dir")
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "emu.") && strings.HasSuffix(name, ".service") {
			names = append(names, strings.TrimSuffix(strings.TrimPrefix(name, "emu."), ".service"))
		}
	}
	return names, nil
}

// CurrentExecutable resolves the absolute path to this program's
// running binary, for use as EmuPath.
func CurrentExecutable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "resolve current executable")
	}
	return filepath.Abs(path)
}
