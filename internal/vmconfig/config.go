// Package vmconfig holds the typed machine settings and port-forward map
// that make up a VM's Configuration, with TOML load/save.
package vmconfig

import (
	"os"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Machine holds the hardware-shaped settings of a VM.
type Machine struct {
	SSHPort        uint16 `toml:"ssh_port"`
	Memory         uint32 `toml:"memory"`
	CPUs           uint32 `toml:"cpus"`
	CPUType        string `toml:"cpu_type"`
	VGA            string `toml:"vga"`
	ImageInterface string `toml:"image_interface"`
}

// DefaultMachine returns the machine defaults named in the data model.
func DefaultMachine() Machine {
	return Machine{
		SSHPort:        2222,
		Memory:         16384,
		CPUs:           8,
		CPUType:        "host",
		VGA:            "virtio",
		ImageInterface: "virtio",
	}
}

// PortMap maps a host port to a guest port. Keys are the decimal string
// form of the host port, matching the on-disk TOML representation.
type PortMap map[string]uint16

// Configuration is a VM's full declarative configuration.
type Configuration struct {
	Machine Machine `toml:"machine"`
	Ports   PortMap `toml:"ports"`
}

// Default returns a Configuration with default Machine settings and no
// port forwards.
func Default() Configuration {
	return Configuration{Machine: DefaultMachine(), Ports: PortMap{}}
}

// FromFile reads and parses a Configuration from path. Any read or parse
// error yields the default Configuration rather than failing
// construction.
func FromFile(path string) Configuration {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	var c Configuration
	if err := toml.Unmarshal(data, &c); err != nil {
		return Default()
	}
	if c.Ports == nil {
		c.Ports = PortMap{}
	}
	return c
}

// ToFile atomically serializes c to path as pretty TOML.
func (c Configuration) ToFile(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal configuration")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, "write temp config")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "rename temp config")
	}
	return nil
}

// Valid checks the positivity invariants on Machine.
func (c Configuration) Valid() bool {
	return c.Machine.Memory > 0 && c.Machine.CPUs > 0
}

// MapPort adds or overwrites a host->guest port forward.
func (c *Configuration) MapPort(host, guest uint16) {
	if c.Ports == nil {
		c.Ports = PortMap{}
	}
	c.Ports[strconv.Itoa(int(host))] = guest
}

// UnmapPort removes a host port forward, if present.
func (c *Configuration) UnmapPort(host uint16) {
	delete(c.Ports, strconv.Itoa(int(host)))
}

// machineKeys enumerates the only keys SetMachineValue accepts.
var machineKeys = map[string]bool{
	"memory":          true,
	"cpus":            true,
	"vga":             true,
	"image-interface": true,
	"cpu-type":        true,
	"ssh-port":        true,
}

// SetMachineValue sets a single Machine field by its external key name.
// It fails if key is not one of the enumerated machine keys, or if value
// does not parse for that key's type.
func (c *Configuration) SetMachineValue(key, value string) error {
	if !machineKeys[key] {
		return errors.Errorf("unknown machine config key %q", key)
	}

	switch key {
	case "memory":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return errors.Wrap(err, "parse memory")
		}
		c.Machine.Memory = uint32(n)
	case "cpus":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return errors.Wrap(err, "parse cpus")
		}
		c.Machine.CPUs = uint32(n)
	case "vga":
		c.Machine.VGA = value
	case "image-interface":
		c.Machine.ImageInterface = value
	case "cpu-type":
		c.Machine.CPUType = value
	case "ssh-port":
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return errors.Wrap(err, "parse ssh-port")
		}
		c.Machine.SSHPort = uint16(n)
	}
	return nil
}

// IsPortConflict reports whether c and other share any host port key.
func (c Configuration) IsPortConflict(other Configuration) bool {
	for k := range c.Ports {
		if _, ok := other.Ports[k]; ok {
			return true
		}
	}
	return false
}
