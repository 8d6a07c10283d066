package supervisor

import (
	"fmt"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/tetsuo/emuctl/internal/store"
)

// SystemdSupervisor tracks VM liveness through a systemd user unit
// named emu.<vm-name>.service, shelling to systemctl --user.
type SystemdSupervisor struct {
	Store *store.Store
}

// NewSystemd returns a SystemdSupervisor bound to s.
func NewSystemd(s *store.Store) *SystemdSupervisor {
	return &SystemdSupervisor{Store: s}
}

func (s *SystemdSupervisor) Kind() Kind       { return Systemd }
func (s *SystemdSupervisor) Supervised() bool { return true }

func unitName(vmName string) string {
	return fmt.Sprintf("emu.%s.service", vmName)
}

// IsActive shells to `systemctl --user is-active` for the VM's unit.
// systemctl exits non-zero for any state other than "active", which we
// treat as "not active" rather than an error.
func (s *SystemdSupervisor) IsActive(vmName string) (bool, error) {
	cmd := exec.Command("systemctl", "--user", "is-active", unitName(vmName))
	out, err := cmd.Output()
	if err != nil {
		return false, nil
	}
	return string(trimNewline(out)) == "active", nil
}

// Pidof still reads the pidfile: the unit's ExecStart ultimately writes
// it via the same detached-launch path as the pid supervisor.
func (s *SystemdSupervisor) Pidof(vmName string) (int, error) {
	return s.Store.ReadPid(vmName)
}

// Reload triggers systemd's user-daemon reload, picking up unit file
// changes made by the service package.
func (s *SystemdSupervisor) Reload() error {
	cmd := exec.Command("systemctl", "--user", "daemon-reload")
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "systemctl daemon-reload: %s", out)
	}
	return nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
