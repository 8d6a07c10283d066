package launcher

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetsuo/emuctl/internal/store"
	"github.com/tetsuo/emuctl/internal/vm"
)

func TestCheckPortConflictSkipsSelfAndNonConflicting(t *testing.T) {
	s := store.New(t.TempDir())
	require.NoError(t, s.Create("vm1"))
	require.NoError(t, s.Create("vm2"))

	v1, err := vm.New("vm1", s)
	require.NoError(t, err)
	cfg1 := v1.Config()
	cfg1.MapPort(2222, 22)
	v1.SetConfig(cfg1)

	v2, err := vm.New("vm2", s)
	require.NoError(t, err)
	cfg2 := v2.Config()
	cfg2.MapPort(3333, 22)
	v2.SetConfig(cfg2)
	require.NoError(t, cfg1.ToFile(s.ConfigPath("vm1")))
	require.NoError(t, cfg2.ToFile(s.ConfigPath("vm2")))

	// Both VMs are reported running (their pidfiles name this test
	// process): vm1 is skipped as self, and vm2's ports do not overlap.
	require.NoError(t, s.WritePid("vm1", os.Getpid()))
	require.NoError(t, s.WritePid("vm2", os.Getpid()))

	l := New(s)
	require.NoError(t, l.checkPortConflict(v1))
}

func TestRunningVMsEmptyWhenNoPidfiles(t *testing.T) {
	s := store.New(t.TempDir())
	require.NoError(t, s.Create("vm1"))

	l := New(s)
	running, err := l.RunningVMs()
	require.NoError(t, err)
	assert.Empty(t, running)
}

func TestRunningVMsReflectsPidSupervisor(t *testing.T) {
	s := store.New(t.TempDir())
	require.NoError(t, s.Create("vm1"))
	require.NoError(t, s.WritePid("vm1", 1))

	l := New(s)
	running, err := l.RunningVMs()
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "vm1", running[0].Name())
}

func TestReadPidFailsWithoutPidfile(t *testing.T) {
	// ShutdownWait treats this read failure as "already exited". The
	// test covers only the pidfile read, not ShutdownWait itself, which
	// would first need a live monitor socket.
	s := store.New(t.TempDir())
	require.NoError(t, s.Create("vm1"))
	l := New(s)

	_, err := l.Store.ReadPid("vm1")
	assert.Error(t, err)
}
