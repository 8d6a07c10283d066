package vmconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	c := Default()
	c.MapPort(2222, 22)
	c.Machine.Memory = 2048

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, c.ToFile(path))

	got := FromFile(path)
	assert.Equal(t, c.Machine, got.Machine)
	assert.Equal(t, c.Ports, got.Ports)
}

func TestFromFileMissingYieldsDefault(t *testing.T) {
	got := FromFile(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Equal(t, Default(), got)
}

func TestFromFileCorruptYieldsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("not valid toml {{{"), 0644))
	got := FromFile(path)
	assert.Equal(t, Default(), got)
}

func TestPortConflictSymmetry(t *testing.T) {
	a := Default()
	a.MapPort(2222, 22)
	b := Default()
	b.MapPort(2222, 2222)
	c := Default()
	c.MapPort(3333, 22)

	assert.Equal(t, a.IsPortConflict(b), b.IsPortConflict(a))
	assert.True(t, a.IsPortConflict(b))
	assert.False(t, a.IsPortConflict(c))
	assert.False(t, c.IsPortConflict(a))
}

func TestMapUnmapIdempotence(t *testing.T) {
	c := Default()
	before := clonePorts(c.Ports)

	c.MapPort(9999, 22)
	c.UnmapPort(9999)

	assert.Equal(t, before, c.Ports)
}

func clonePorts(p PortMap) PortMap {
	out := make(PortMap, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func TestMachineKeyClosure(t *testing.T) {
	ok := []string{"memory", "cpus", "vga", "image-interface", "cpu-type", "ssh-port"}
	for _, k := range ok {
		c := Default()
		assert.NoError(t, c.SetMachineValue(k, validValueFor(k)), k)
	}

	bad := []string{"", "disk", "image_interface", "Memory"}
	for _, k := range bad {
		c := Default()
		assert.Error(t, c.SetMachineValue(k, "1"), k)
	}
}

func validValueFor(key string) string {
	switch key {
	case "memory":
		return "4096"
	case "cpus":
		return "4"
	case "ssh-port":
		return "2022"
	default:
		return "value"
	}
}

func TestValid(t *testing.T) {
	c := Default()
	assert.True(t, c.Valid())

	c.Machine.Memory = 0
	assert.False(t, c.Valid())
}
