package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"vm1", true},
		{"my-vm", true},
		{"", false},
		{"..", false},
		{"a/b", false},
		{"a\\b", false},
		{"a\x00b", false},
	}
	for _, c := range cases {
		err := ValidateName(c.name)
		if c.valid {
			assert.NoError(t, err, c.name)
		} else {
			assert.Error(t, err, c.name)
		}
	}
}

func TestCreateDeleteList(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.Create("vm1"))
	assert.True(t, s.Exists("vm1"))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"vm1"}, names)

	require.NoError(t, s.Delete("vm1", ""))
	assert.False(t, s.Exists("vm1"))

	names, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDiskListSorted(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Create("vm1"))

	root := s.VMRoot("vm1")
	for _, ts := range []string{"300", "100", "200"} {
		f := filepath.Join(root, "qemu-"+ts+DiskSuffix)
		require.NoError(t, os.WriteFile(f, nil, 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "config"), nil, 0644))

	disks, err := s.DiskList("vm1")
	require.NoError(t, err)
	require.Len(t, disks, 3)
	assert.Contains(t, disks[0], "qemu-100")
	assert.Contains(t, disks[1], "qemu-200")
	assert.Contains(t, disks[2], "qemu-300")
}

func TestPidRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Create("vm1"))

	require.NoError(t, s.WritePid("vm1", 4242))
	pid, err := s.ReadPid("vm1")
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	require.NoError(t, s.RemovePid("vm1"))
	require.NoError(t, s.RemovePid("vm1")) // idempotent
}

func TestRenameFailsIfTargetExists(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Create("vm1"))
	require.NoError(t, s.Create("vm2"))

	err := s.Rename("vm1", "vm2")
	assert.Error(t, err)
}
