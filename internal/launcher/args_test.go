package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetsuo/emuctl/internal/vmconfig"
)

func TestBuildArgsOrderAndDefaults(t *testing.T) {
	cfg := vmconfig.Default()
	cfg.MapPort(2222, 22)

	args, err := BuildArgs(cfg, "/tmp/vm1/mon", []string{"/tmp/vm1/qemu-1.qcow2"}, true, "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"-nodefaults",
		"-chardev", "socket,server=on,wait=off,id=char0,path=/tmp/vm1/mon",
		"-snapshot",
		"-mon", "chardev=char0,mode=control,pretty=on",
		"-machine", "accel=kvm",
		"-vga", "virtio",
		"-m", "16384M",
		"-cpu", "host",
		"-smp", "cpus=8,cores=8,maxcpus=8",
		"-nic", "user,hostfwd=tcp:127.0.0.1:2222-:22",
		"-drive", "driver=qcow2,if=virtio,file=/tmp/vm1/qemu-1.qcow2,cache=none,media=disk,index=0,snapshot=on",
		"-display", "none",
	}, args)
}

func TestBuildArgsMissingCdromIsHardError(t *testing.T) {
	cfg := vmconfig.Default()
	_, err := BuildArgs(cfg, "/tmp/vm1/mon", nil, false, "/nonexistent/disk.iso", "")
	assert.Error(t, err)
}

func TestBuildArgsNoPortsStillEmitsNic(t *testing.T) {
	cfg := vmconfig.Default()
	args, err := BuildArgs(cfg, "/tmp/vm1/mon", nil, false, "", "")
	require.NoError(t, err)
	assert.Contains(t, args, "-nic")

	idx := indexOf(args, "-nic")
	require.NotEqual(t, -1, idx)
	assert.Equal(t, "user", args[idx+1])
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
