package supervisor

import (
	"github.com/pkg/errors"

	"github.com/tetsuo/emuctl/internal/store"
)

// PidSupervisor tracks VM liveness purely through the pidfile the
// launcher writes on detached launch and the /proc filesystem.
type PidSupervisor struct {
	Store *store.Store
}

// NewPid returns a PidSupervisor bound to s.
func NewPid(s *store.Store) *PidSupervisor {
	return &PidSupervisor{Store: s}
}

func (p *PidSupervisor) Kind() Kind       { return Pid }
func (p *PidSupervisor) Supervised() bool { return false }

// IsActive reads the pidfile and checks /proc/<pid>. A missing or
// unparsable pidfile is reported as "not active", not an error.
func (p *PidSupervisor) IsActive(vmName string) (bool, error) {
	pid, err := p.Store.ReadPid(vmName)
	if err != nil {
		return false, nil
	}
	return store.ProcessAlive(pid), nil
}

func (p *PidSupervisor) Pidof(vmName string) (int, error) {
	return p.Store.ReadPid(vmName)
}

func (p *PidSupervisor) Reload() error {
	return errors.New("pid supervisor has nothing to reload")
}
