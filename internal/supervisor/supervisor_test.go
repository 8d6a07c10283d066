package supervisor

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetsuo/emuctl/internal/store"
)

func TestPidSupervisorNotActiveWithoutPidfile(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir)
	require.NoError(t, s.Create("vm1"))

	sup := NewPid(s)
	assert.False(t, sup.Supervised())
	assert.Equal(t, Pid, sup.Kind())

	active, err := sup.IsActive("vm1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestPidSupervisorActiveForSelf(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir)
	require.NoError(t, s.Create("vm1"))
	require.NoError(t, s.WritePid("vm1", os.Getpid()))

	sup := NewPid(s)
	active, err := sup.IsActive("vm1")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestSystemdSupervisorKind(t *testing.T) {
	dir := t.TempDir()
	sup := NewSystemd(store.New(dir))
	assert.Equal(t, Systemd, sup.Kind())
	assert.True(t, sup.Supervised())
}
