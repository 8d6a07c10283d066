package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetsuo/emuctl/internal/store"
	"github.com/tetsuo/emuctl/internal/supervisor"
)

func TestNewDefaultsToPidSupervisor(t *testing.T) {
	s := store.New(t.TempDir())
	require.NoError(t, s.Create("vm1"))

	v, err := New("vm1", s)
	require.NoError(t, err)
	assert.Equal(t, supervisor.Pid, v.SupervisorKind())
	assert.Equal(t, "vm1", v.String())
	assert.False(t, v.Headless())
}

func TestNewRejectsInvalidName(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := New("../etc", s)
	assert.Error(t, err)
}

func TestSettersMutateInPlace(t *testing.T) {
	s := store.New(t.TempDir())
	v, err := New("vm1", s)
	require.NoError(t, err)

	v.SetHeadless(true)
	v.SetCdrom("/tmp/disk.iso")
	assert.True(t, v.Headless())
	assert.Equal(t, "/tmp/disk.iso", v.Cdrom())
}
