package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracken-labs/skiff/internal/mcp"
)

func TestToolsCommand(t *testing.T) {
	toolsDir := filepath.Join(t.TempDir(), "mcp_tools")
	t.Setenv("SKIFF_MCP_TOOLS_DIR", toolsDir)

	script := filepath.Join(t.TempDir(), "tool.py")
	require.NoError(t, os.WriteFile(script, []byte("#!/usr/bin/env python3\n"), 0o755))

	registry, err := mcp.NewRegistry(toolsDir)
	require.NoError(t, err)
	fullName, err := registry.Register(script, "perm", "")
	require.NoError(t, err)

	t.Run("list shows registered tools", func(t *testing.T) {
		names, err := registry.Registered()
		require.NoError(t, err)
		assert.Equal(t, []string{fullName}, names)

		cmd := NewToolsCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"list"})
		require.NoError(t, cmd.Execute())
	})

	t.Run("remove deletes the symlink", func(t *testing.T) {
		cmd := NewToolsCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"remove", fullName})
		require.NoError(t, cmd.Execute())

		names, err := registry.Registered()
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
