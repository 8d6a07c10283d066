package service

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRenderRemove(t *testing.T) {
	dir := t.TempDir()

	assert.False(t, Exists(dir, "vm1"))
	require.NoError(t, Create(dir, "vm1", "/usr/local/bin/emuctl"))
	assert.True(t, Exists(dir, "vm1"))

	data, err := os.ReadFile(unitPath(dir, "vm1"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Description=Virtual Machine: vm1")
	assert.Contains(t, content, "ExecStart=/usr/local/bin/emuctl run -e vm1")
	assert.Contains(t, content, "ExecStop=/usr/local/bin/emuctl shutdown vm1")
	assert.Contains(t, content, "KillSignal=SIGCONT")

	require.NoError(t, Remove(dir, "vm1"))
	assert.False(t, Exists(dir, "vm1"))
	require.NoError(t, Remove(dir, "vm1")) // idempotent
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Create(dir, "vm1", "/bin/emuctl"))
	require.NoError(t, Create(dir, "vm2", "/bin/emuctl"))

	names, err := List(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"vm1", "vm2"}, names)
}
