// Package store owns the on-disk layout of VM roots: their config, pid,
// monitor socket, and disk files.
package store

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	proc "github.com/c9s/goprocinfo/linux"
	"github.com/pkg/errors"
)

const (
	// DiskSuffix is the filename suffix every qcow2 disk under a VM root
	// carries.
	DiskSuffix = ".qcow2"

	configFile  = "config"
	pidFile     = "pid"
	monitorFile = "mon"
)

// ErrInvalidName is returned when a candidate VM name fails validation.
var ErrInvalidName = errors.New("invalid vm name")

// ValidateName reports whether s is a valid VM name: a UTF-8 string that is
// a single path component, containing no "..", no path separator, and no
// NUL byte.
func ValidateName(s string) error {
	if s == "" {
		return errors.Wrap(ErrInvalidName, "empty name")
	}
	if !isValidUTF8(s) {
		return errors.Wrap(ErrInvalidName, "not valid UTF-8")
	}
	if strings.ContainsRune(s, 0) {
		return errors.Wrap(ErrInvalidName, "contains NUL")
	}
	if strings.ContainsAny(s, "/\\") {
		return errors.Wrap(ErrInvalidName, "contains a path separator")
	}
	if strings.Contains(s, "..") {
		return errors.Wrap(ErrInvalidName, `contains ".."`)
	}
	if s == "." {
		return errors.Wrap(ErrInvalidName, "is a relative path component")
	}
	return nil
}

func isValidUTF8(s string) bool {
	return strings.ToValidUTF8(s, "�") == s
}

// Store is a handle to the directory tree holding every VM's on-disk
// state, rooted at base.
type Store struct {
	base string
}

// New returns a Store rooted at base, without touching the filesystem.
func New(base string) *Store {
	return &Store{base: base}
}

// DefaultBase resolves the conventional per-user data directory for
// emuctl, creating it if absent.
func DefaultBase() (string, error) {
	data := os.Getenv("XDG_DATA_HOME")
	if data == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve user data dir")
		}
		data = filepath.Join(home, ".local", "share")
	}
	base := filepath.Join(data, "emu")
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", errors.Wrap(err, "create base dir")
	}
	return base, nil
}

// BasePath returns s's root directory, creating it if it does not yet
// exist.
func (s *Store) BasePath() (string, error) {
	if err := os.MkdirAll(s.base, 0755); err != nil {
		return "", errors.Wrap(err, "create base dir")
	}
	return s.base, nil
}

// VMRoot returns the root directory for the named VM.
func (s *Store) VMRoot(name string) string {
	return filepath.Join(s.base, name)
}

// Exists reports whether the named VM's root directory exists.
func (s *Store) Exists(name string) bool {
	fi, err := os.Stat(s.VMRoot(name))
	return err == nil && fi.IsDir()
}

// Create makes the named VM's root directory and any missing ancestors.
// It is idempotent only if the root is already a directory.
func (s *Store) Create(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	root := s.VMRoot(name)
	if fi, err := os.Stat(root); err == nil {
		if fi.IsDir() {
			return nil
		}
		return errors.Errorf("%s exists and is not a directory", root)
	}
	return errors.Wrap(os.MkdirAll(root, 0755), "create vm root")
}

// Rename atomically renames a VM root. It fails if newName already
// exists.
func (s *Store) Rename(oldName, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	if s.Exists(newName) {
		return errors.Errorf("vm %s already exists", newName)
	}
	return errors.Wrap(os.Rename(s.VMRoot(oldName), s.VMRoot(newName)), "rename vm root")
}

// Delete removes a disk (when disk is non-empty) or the entire VM root.
// disk is the disk's unix-timestamp component, without suffix or
// directory.
func (s *Store) Delete(name, disk string) error {
	if disk == "" {
		return errors.Wrap(os.RemoveAll(s.VMRoot(name)), "remove vm root")
	}
	path := filepath.Join(s.VMRoot(name), "qemu-"+disk+DiskSuffix)
	return errors.Wrap(os.Remove(path), "remove disk")
}

// List enumerates the direct children of the base path that are valid VM
// names. A non-UTF-8 child name is a hard error.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read base dir")
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if !isValidUTF8(name) {
			return nil, errors.Errorf("non-UTF-8 vm directory name %q", name)
		}
		if ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// DiskList returns the sorted set of disk files under the named VM's
// root.
func (s *Store) DiskList(name string) ([]string, error) {
	entries, err := os.ReadDir(s.VMRoot(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read vm root")
	}

	var disks []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), DiskSuffix) {
			disks = append(disks, filepath.Join(s.VMRoot(name), e.Name()))
		}
	}
	sort.Strings(disks)
	return disks, nil
}

// PidPath, MonitorPath, and ConfigPath are pure path joins onto the
// named VM's root.
func (s *Store) PidPath(name string) string     { return filepath.Join(s.VMRoot(name), pidFile) }
func (s *Store) MonitorPath(name string) string { return filepath.Join(s.VMRoot(name), monitorFile) }
func (s *Store) ConfigPath(name string) string  { return filepath.Join(s.VMRoot(name), configFile) }

// Size returns the recursive sum of regular-file sizes under the named
// VM's root.
func (s *Store) Size(name string) (int64, error) {
	var total int64
	err := filepath.Walk(s.VMRoot(name), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, nil
	}
	return total, errors.Wrap(err, "walk vm root")
}

// ReadPid reads and parses the named VM's pidfile. It returns an error
// if the file is missing or unparsable.
func (s *Store) ReadPid(name string) (int, error) {
	data, err := os.ReadFile(s.PidPath(name))
	if err != nil {
		return 0, errors.Wrap(err, "read pidfile")
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrap(err, "parse pidfile")
	}
	return pid, nil
}

// WritePid persists pid to the named VM's pidfile.
func (s *Store) WritePid(name string, pid int) error {
	return errors.Wrap(os.WriteFile(s.PidPath(name), []byte(strconv.Itoa(pid)), 0644), "write pidfile")
}

// RemovePid removes the named VM's pidfile, tolerating its absence.
func (s *Store) RemovePid(name string) error {
	err := os.Remove(s.PidPath(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove pidfile")
	}
	return nil
}

// ProcessAlive reports whether pid refers to a live process, using
// /proc, the same mechanism the pid-based supervisor relies on.
func ProcessAlive(pid int) bool {
	_, err := proc.ReadProcessStat(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	return err == nil
}

// CleanStaleMonitor unlinks the named VM's monitor socket if the
// pidfile's process is no longer alive. It resolves the §9 open question
// about a monitor socket left behind by a crashed emulator.
func (s *Store) CleanStaleMonitor(name string) error {
	monPath := s.MonitorPath(name)
	if _, err := os.Stat(monPath); os.IsNotExist(err) {
		return nil
	}

	pid, err := s.ReadPid(name)
	if err != nil {
		// No pidfile, or unparsable: the socket can't be owned by a
		// tracked emulator, so it's stale.
		return errors.Wrap(os.Remove(monPath), "remove stale monitor socket")
	}
	if ProcessAlive(pid) {
		return nil
	}
	return errors.Wrap(os.Remove(monPath), "remove stale monitor socket")
}
