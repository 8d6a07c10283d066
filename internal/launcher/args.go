package launcher

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/tetsuo/emuctl/internal/vmconfig"
)

// BuildArgs assembles the emulator's command-line arguments in the
// deterministic order specified by the launcher's argument assembly
// contract. disks is the already-sorted disk_list(vm) result.
func BuildArgs(cfg vmconfig.Configuration, monitorPath string, disks []string, headless bool, cdrom, extraDisk string) ([]string, error) {
	args := []string{
		"-nodefaults",
		"-chardev", fmt.Sprintf("socket,server=on,wait=off,id=char0,path=%s", monitorPath),
		"-snapshot",
		"-mon", "chardev=char0,mode=control,pretty=on",
		"-machine", "accel=kvm",
		"-vga", cfg.Machine.VGA,
		"-m", fmt.Sprintf("%dM", cfg.Machine.Memory),
		"-cpu", cfg.Machine.CPUType,
		"-smp", fmt.Sprintf("cpus=%d,cores=%d,maxcpus=%d", cfg.Machine.CPUs, cfg.Machine.CPUs, cfg.Machine.CPUs),
	}

	args = append(args, nicArgs(cfg.Ports)...)

	for i, disk := range disks {
		args = append(args, "-drive", fmt.Sprintf(
			"driver=qcow2,if=%s,file=%s,cache=none,media=disk,index=%d,snapshot=on",
			cfg.Machine.ImageInterface, disk, i,
		))
	}

	if headless {
		args = append(args, "-display", "none")
	} else {
		args = append(args, "-display", "gtk")
	}

	if cdrom != "" {
		if _, err := os.Stat(cdrom); err != nil {
			return nil, errors.Wrapf(err, "cdrom %s", cdrom)
		}
		args = append(args, "-drive", fmt.Sprintf("file=%s,media=cdrom,index=%d", cdrom, len(disks)+2))
	}

	if extraDisk != "" {
		if _, err := os.Stat(extraDisk); err != nil {
			return nil, errors.Wrapf(err, "extra image %s", extraDisk)
		}
		args = append(args, "-drive", fmt.Sprintf("file=%s,media=cdrom,index=%d", extraDisk, len(disks)+3))
	}

	return args, nil
}

// nicArgs renders a single -nic flag carrying one hostfwd segment per
// port mapping, in a stable order: host-port keys sorted as strings.
func nicArgs(ports vmconfig.PortMap) []string {
	spec := "user"

	hosts := make([]string, 0, len(ports))
	for h := range ports {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)

	for _, h := range hosts {
		spec += fmt.Sprintf(",hostfwd=tcp:127.0.0.1:%s-:%d", h, ports[h])
	}
	return []string{"-nic", spec}
}
