// Package vm provides the in-memory VM handle: a name bound to its
// loaded Configuration, supervisor kind, and runtime overrides.
package vm

import (
	"github.com/tetsuo/emuctl/internal/service"
	"github.com/tetsuo/emuctl/internal/store"
	"github.com/tetsuo/emuctl/internal/supervisor"
	"github.com/tetsuo/emuctl/internal/vmconfig"
)

// VM is a cheaply-clonable in-memory handle to a named VM. Cloning does
// not re-read the filesystem.
type VM struct {
	name           string
	cdrom          string
	extraDisk      string
	headless       bool
	config         vmconfig.Configuration
	supervisorKind supervisor.Kind
}

// New constructs a VM handle for name, loading its Configuration from s
// (defaults if absent) and determining its supervisor kind by checking
// whether a systemd unit is installed for it.
func New(name string, s *store.Store) (*VM, error) {
	if err := store.ValidateName(name); err != nil {
		return nil, err
	}

	v := &VM{name: name, config: vmconfig.FromFile(s.ConfigPath(name))}

	dir, err := service.Dir()
	if err == nil && service.Exists(dir, name) {
		v.supervisorKind = supervisor.Systemd
	} else {
		v.supervisorKind = supervisor.Pid
	}
	return v, nil
}

// String returns the VM's name, matching the original's Display impl.
func (v *VM) String() string { return v.name }

// Name returns the VM's identity.
func (v *VM) Name() string { return v.name }

func (v *VM) Headless() bool        { return v.headless }
func (v *VM) SetHeadless(h bool)    { v.headless = h }
func (v *VM) Cdrom() string         { return v.cdrom }
func (v *VM) SetCdrom(path string)  { v.cdrom = path }
func (v *VM) ExtraDisk() string     { return v.extraDisk }
func (v *VM) SetExtraDisk(p string) { v.extraDisk = p }

// Config returns a copy of the VM's current Configuration.
func (v *VM) Config() vmconfig.Configuration { return v.config }

// SetConfig replaces the VM's in-memory Configuration. Callers persist
// it via Configuration.ToFile(store.ConfigPath(name)).
func (v *VM) SetConfig(c vmconfig.Configuration) { v.config = c }

// SupervisorKind reports which supervisor implementation governs this
// VM.
func (v *VM) SupervisorKind() supervisor.Kind { return v.supervisorKind }

// Supervisor returns the concrete Supervisor implementation for this
// VM's kind, bound to s.
func (v *VM) Supervisor(s *store.Store) supervisor.Supervisor {
	if v.supervisorKind == supervisor.Systemd {
		return supervisor.NewSystemd(s)
	}
	return supervisor.NewPid(s)
}
