package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolName(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		explicit string
		want     string
	}{
		{name: "derived from filename", script: "/tmp/My Tool.py", want: "my_tool"},
		{name: "strips extension", script: "server.py", want: "server"},
		{name: "no extension", script: "runme", want: "runme"},
		{name: "explicit wins", script: "server.py", explicit: "custom", want: "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolName(tt.script, tt.explicit))
		})
	}
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "mcp_permission_server__my_tool", FullName("mcp_permission_server", "my_tool"))
}

func writeScript(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return path
}

func TestRegistry_Register(t *testing.T) {
	dir := t.TempDir()
	reg, err := NewRegistry(filepath.Join(dir, "tools"))
	require.NoError(t, err)

	script := writeScript(t, dir, "my_server.py")

	fullName, err := reg.Register(script, "perm", "")
	require.NoError(t, err)
	assert.Equal(t, "perm__my_server", fullName)

	target, err := os.Readlink(filepath.Join(reg.Dir(), fullName))
	require.NoError(t, err)
	assert.Equal(t, script, target)
}

func TestRegistry_RegisterReplacesExistingSymlink(t *testing.T) {
	dir := t.TempDir()
	reg, err := NewRegistry(filepath.Join(dir, "tools"))
	require.NoError(t, err)

	first := writeScript(t, dir, "first.py")
	second := writeScript(t, dir, "second.py")

	_, err = reg.Register(first, "perm", "tool")
	require.NoError(t, err)
	fullName, err := reg.Register(second, "perm", "tool")
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(reg.Dir(), fullName))
	require.NoError(t, err)
	assert.Equal(t, second, target)
}

func TestRegistry_RegisterRefusesNonSymlinkCollision(t *testing.T) {
	dir := t.TempDir()
	toolsDir := filepath.Join(dir, "tools")
	reg, err := NewRegistry(toolsDir)
	require.NoError(t, err)

	script := writeScript(t, dir, "tool.py")
	require.NoError(t, os.MkdirAll(toolsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(toolsDir, "perm__tool"), []byte("x"), 0o644))

	_, err = reg.Register(script, "perm", "tool")
	assert.ErrorContains(t, err, "not a symlink")
}

func TestRegistry_UnregisterAndList(t *testing.T) {
	dir := t.TempDir()
	reg, err := NewRegistry(filepath.Join(dir, "tools"))
	require.NoError(t, err)

	script := writeScript(t, dir, "tool.py")
	fullName, err := reg.Register(script, "perm", "")
	require.NoError(t, err)

	names, err := reg.Registered()
	require.NoError(t, err)
	assert.Equal(t, []string{fullName}, names)

	require.NoError(t, reg.Unregister(fullName))
	require.NoError(t, reg.Unregister(fullName), "unregistering twice is a no-op")

	names, err = reg.Registered()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRegistry_RegisteredWithMissingDir(t *testing.T) {
	reg, err := NewRegistry(filepath.Join(t.TempDir(), "never-created"))
	require.NoError(t, err)

	names, err := reg.Registered()
	require.NoError(t, err)
	assert.Empty(t, names)
}
