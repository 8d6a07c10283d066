// Package launcher assembles emulator arguments, drives attached and
// detached launches, shuts the emulator down, and wraps QMP snapshot
// operations with the launcher's reserved "quick save" tag.
package launcher

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/tetsuo/emuctl/internal/emulog"
	"github.com/tetsuo/emuctl/internal/qmp"
	"github.com/tetsuo/emuctl/internal/service"
	"github.com/tetsuo/emuctl/internal/store"
	"github.com/tetsuo/emuctl/internal/vm"
)

// SuspendTag is the reserved snapshot tag behind Save/Load/ClearState.
const SuspendTag = "[EMU-Suspend]"

// SupervisorSubcommand is the hidden CLI entry point cmd/emuctl exposes
// so the detached-launch re-exec has something to spawn itself into.
const SupervisorSubcommand = "__supervise"

const (
	shutdownPollInterval  = 50 * time.Microsecond
	shutdownProgressEvery = 10 * time.Second
	monitorWaitTimeout    = 5 * time.Second
	pidfileWaitTimeout    = 1 * time.Second
)

// Launcher drives the full lifecycle of emulator processes for VMs
// backed by s.
type Launcher struct {
	Store    *store.Store
	Emulator string // the hypervisor binary, e.g. "qemu-system-x86_64"
}

// New returns a Launcher using the conventional qemu-system-x86_64
// binary.
func New(s *store.Store) *Launcher {
	return &Launcher{Store: s, Emulator: "qemu-system-x86_64"}
}

// RunningVMs returns every VM under the store whose supervisor reports
// it active.
func (l *Launcher) RunningVMs() ([]*vm.VM, error) {
	names, err := l.Store.List()
	if err != nil {
		return nil, err
	}

	var running []*vm.VM
	for _, name := range names {
		v, err := vm.New(name, l.Store)
		if err != nil {
			continue
		}
		active, err := v.Supervisor(l.Store).IsActive(name)
		if err == nil && active {
			running = append(running, v)
		}
	}
	return running, nil
}

func (l *Launcher) checkPortConflict(v *vm.VM) error {
	running, err := l.RunningVMs()
	if err != nil {
		return err
	}
	for _, r := range running {
		if r.Name() == v.Name() {
			continue
		}
		if r.Config().IsPortConflict(v.Config()) {
			return errors.Errorf("port conflict between %s and %s", v, r)
		}
	}
	return nil
}

func (l *Launcher) buildCmd(v *vm.VM) (*exec.Cmd, error) {
	disks, err := l.Store.DiskList(v.Name())
	if err != nil {
		return nil, err
	}
	args, err := BuildArgs(v.Config(), l.Store.MonitorPath(v.Name()), disks, v.Headless(), v.Cdrom(), v.ExtraDisk())
	if err != nil {
		return nil, err
	}
	return exec.Command(l.Emulator, args...), nil
}

// Attached spawns the emulator as a child of the current process,
// inheriting its TTY, and blocks until it exits.
func (l *Launcher) Attached(v *vm.VM) error {
	if err := l.checkPortConflict(v); err != nil {
		return err
	}
	if err := l.Store.CleanStaleMonitor(v.Name()); err != nil {
		return err
	}

	cmd, err := l.buildCmd(v)
	if err != nil {
		return err
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return errors.Wrap(cmd.Run(), "run emulator")
}

// Detach re-execs the current binary into the hidden supervisor
// subcommand under a new session, then waits (bounded) for the pidfile
// to appear before returning. It does not join the detached process.
func (l *Launcher) Detach(v *vm.VM) error {
	if err := l.checkPortConflict(v); err != nil {
		return err
	}

	self, err := service.CurrentExecutable()
	if err != nil {
		return err
	}

	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return errors.Wrap(err, "open /dev/null")
	}
	defer devnull.Close()

	cmd := exec.Command(self, SupervisorSubcommand, v.Name())
	cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, devnull, devnull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "spawn supervisor")
	}
	if err := cmd.Process.Release(); err != nil {
		return errors.Wrap(err, "release supervisor")
	}

	return l.waitForPidfile(v.Name(), pidfileWaitTimeout)
}

func (l *Launcher) waitForPidfile(vmName string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := l.Store.ReadPid(vmName); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return errors.New("timed out waiting for detached emulator to persist its pid")
}

// Supervise runs in the re-exec'd child: it spawns the emulator itself,
// writes the pidfile, and blocks until the emulator exits. This is the
// body invoked by the hidden __supervise subcommand.
func (l *Launcher) Supervise(vmName string) error {
	v, err := vm.New(vmName, l.Store)
	if err != nil {
		return err
	}

	if err := l.Store.CleanStaleMonitor(vmName); err != nil {
		return err
	}

	cmd, err := l.buildCmd(v)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "start emulator")
	}

	if err := l.Store.WritePid(vmName, cmd.Process.Pid); err != nil {
		return err
	}

	if err := l.waitForMonitorSocket(vmName, monitorWaitTimeout); err != nil {
		emulog.Warn("monitor socket for %s did not appear within %s: %v", vmName, monitorWaitTimeout, err)
	}

	waitErr := cmd.Wait()
	_ = l.Store.RemovePid(vmName)
	return waitErr
}

// waitForMonitorSocket blocks until the VM's monitor socket is created
// by the emulator, or until timeout elapses.
func (l *Launcher) waitForMonitorSocket(vmName string, timeout time.Duration) error {
	monPath := l.Store.MonitorPath(vmName)
	if _, err := os.Stat(monPath); err == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(monPath)); err != nil {
		return err
	}

	deadline := time.After(timeout)
	for {
		select {
		case ev := <-watcher.Events:
			if ev.Name == monPath && (ev.Op&fsnotify.Create) != 0 {
				return nil
			}
		case err := <-watcher.Errors:
			return err
		case <-deadline:
			return errors.New("timed out waiting for monitor socket")
		}
	}
}

func (l *Launcher) dialMonitor(vmName string) (*qmp.Conn, error) {
	return qmp.Dial(l.Store.MonitorPath(vmName))
}

// ShutdownImmediate sends a graceful power-down request and returns
// without waiting for the emulator to exit.
func (l *Launcher) ShutdownImmediate(vmName string) error {
	conn, err := l.dialMonitor(vmName)
	if err != nil {
		return errors.Wrap(err, "connect to monitor")
	}
	defer conn.Close()

	return conn.Command("system_powerdown", nil, nil)
}

// ShutdownWait sends a graceful power-down request, then blocks until
// the pidfile's process exits, removing the pidfile once it has.
func (l *Launcher) ShutdownWait(vmName string) error {
	if err := l.ShutdownImmediate(vmName); err != nil {
		return err
	}

	pid, err := l.Store.ReadPid(vmName)
	if err != nil {
		// No readable pidfile: treat as already exited.
		return nil
	}

	elapsed := time.Duration(0)
	for store.ProcessAlive(pid) {
		time.Sleep(shutdownPollInterval)
		elapsed += shutdownPollInterval
		if elapsed >= shutdownProgressEvery {
			emulog.Info("still waiting for %s to shut down", vmName)
			elapsed = 0
		}
	}

	return l.Store.RemovePid(vmName)
}

// Restart waits for a graceful shutdown to complete, then launches the
// VM again in detached mode.
func (l *Launcher) Restart(v *vm.VM) error {
	if err := l.ShutdownWait(v.Name()); err != nil {
		return err
	}
	return l.Detach(v)
}

// Reset issues a hard QMP reset.
func (l *Launcher) Reset(vmName string) error {
	conn, err := l.dialMonitor(vmName)
	if err != nil {
		return errors.Wrap(err, "connect to monitor")
	}
	defer conn.Close()

	return conn.Command("system_reset", nil, nil)
}

func (l *Launcher) snapshotJob(vmName, command string) error {
	return l.snapshotJobTag(vmName, command, SuspendTag)
}

// Snapshot runs a snapshot-save, snapshot-load or snapshot-delete job
// under a caller-supplied tag, for general-purpose (non-suspend) use.
func (l *Launcher) Snapshot(vmName, command, tag string) error {
	return l.snapshotJobTag(vmName, command, tag)
}

func (l *Launcher) snapshotJobTag(vmName, command, tag string) error {
	conn, err := l.dialMonitor(vmName)
	if err != nil {
		return errors.Wrap(err, "connect to monitor")
	}
	defer conn.Close()

	vmstate, devices, err := conn.SnapshotDevices()
	if err != nil {
		return err
	}

	args := map[string]interface{}{
		"tag":     tag,
		"devices": devices,
	}
	if command == "snapshot-save" {
		args["vmstate"] = vmstate
	}

	return conn.RunJob(command, "snapshot", args)
}

// SaveState takes a point-in-time snapshot under the reserved suspend
// tag.
func (l *Launcher) SaveState(vmName string) error { return l.snapshotJob(vmName, "snapshot-save") }

// LoadState restores the reserved suspend snapshot.
func (l *Launcher) LoadState(vmName string) error { return l.snapshotJob(vmName, "snapshot-load") }

// ClearState deletes the reserved suspend snapshot.
func (l *Launcher) ClearState(vmName string) error {
	return l.snapshotJob(vmName, "snapshot-delete")
}
