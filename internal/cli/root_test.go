package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Version(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "skiff version")
}

func TestRootCommand_ArgValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no args", args: []string{}, wantErr: "requires a script path"},
		{name: "too many args", args: []string{"a", "b", "c"}, wantErr: "at most"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRootCommand_AddMCPMissingScriptLeavesNoSymlink(t *testing.T) {
	toolsDir := filepath.Join(t.TempDir(), "mcp_tools")
	t.Setenv("SKIFF_MCP_TOOLS_DIR", toolsDir)
	t.Setenv("HOME", t.TempDir())

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--add-mcp", filepath.Join(t.TempDir(), "missing.py")})

	err := cmd.Execute()
	require.ErrorContains(t, err, "does not exist")

	entries, err := os.ReadDir(toolsDir)
	if err != nil {
		require.True(t, os.IsNotExist(err), "tools dir should not have been created")
		return
	}
	assert.Empty(t, entries, "no symlink may be registered for an invalid script")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "docker")
	assert.Contains(t, names, "tools")
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()

	for _, flag := range []string{
		"add-mcp", "tool-name", "server-name", "claude-path",
		"claude-args", "timeout", "grace-period",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestDockerCommand_Flags(t *testing.T) {
	cmd := NewDockerCommand()

	for _, flag := range []string{
		"skip-build", "run-directly", "show-docker-logs", "interactive",
		"skip-tool-setup", "tool-name", "server-name", "claude-args",
		"timeout", "grace-period",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}
