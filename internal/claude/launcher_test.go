package claude

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracken-labs/skiff/internal/output"
	"github.com/bracken-labs/skiff/internal/supervisor"
)

// fakeRunner records invocations and replays canned results in order
type fakeRunner struct {
	specs   []supervisor.Spec
	results []supervisor.Result
}

func (f *fakeRunner) Run(_ context.Context, spec supervisor.Spec) (supervisor.Result, error) {
	f.specs = append(f.specs, spec)
	if len(f.specs) <= len(f.results) {
		return f.results[len(f.specs)-1], nil
	}
	return supervisor.Result{}, nil
}

func newTestLauncher(fake *fakeRunner) (*Launcher, *bytes.Buffer) {
	var out bytes.Buffer
	printer := output.NewPrinterWithWriters(&out, &out, false)
	return NewLauncherWithRunner(fake, printer), &out
}

func testScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.py")
	require.NoError(t, os.WriteFile(path, []byte("#!/usr/bin/env python3\n"), 0o755))
	return path
}

func TestLauncher_Run(t *testing.T) {
	t.Setenv(APIKeyEnvVar, "sk-test")

	t.Run("plain run relays exit code", func(t *testing.T) {
		fake := &fakeRunner{results: []supervisor.Result{{ExitCode: 3}}}
		launcher, _ := newTestLauncher(fake)

		result, err := launcher.Run(context.Background(), LaunchConfig{
			ScriptPath: testScript(t),
			Prompt:     "hello",
			ClaudePath: "sh", // resolvable stand-in for the claude binary
			ServerName: "mcp_permission_server",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitCode)
		require.Len(t, fake.specs, 1)
		assert.Contains(t, fake.specs[0].Command, "--print")
	})

	t.Run("mcp registration runs add and list first", func(t *testing.T) {
		fake := &fakeRunner{results: []supervisor.Result{{}, {}, {}}}
		launcher, _ := newTestLauncher(fake)

		_, err := launcher.Run(context.Background(), LaunchConfig{
			ScriptPath: testScript(t),
			Prompt:     "hello",
			AddMCP:     true,
			ClaudePath: "sh",
			ServerName: "mcp_permission_server",
		})
		require.NoError(t, err)
		require.Len(t, fake.specs, 3)
		assert.Contains(t, fake.specs[0].Command, "add")
		assert.Contains(t, fake.specs[1].Command, "list")
		assert.Contains(t, fake.specs[2].Command, "--prompt-permission-tool")
	})

	t.Run("failed registration aborts the launch", func(t *testing.T) {
		fake := &fakeRunner{results: []supervisor.Result{{ExitCode: 1}}}
		launcher, _ := newTestLauncher(fake)

		_, err := launcher.Run(context.Background(), LaunchConfig{
			ScriptPath: testScript(t),
			AddMCP:     true,
			ClaudePath: "sh",
			ServerName: "mcp_permission_server",
		})
		require.ErrorContains(t, err, "mcp registration failed")
		assert.Len(t, fake.specs, 1, "the launch itself must not run")
	})

	t.Run("missing api key fails before anything runs", func(t *testing.T) {
		t.Setenv(APIKeyEnvVar, "")
		fake := &fakeRunner{}
		launcher, _ := newTestLauncher(fake)

		_, err := launcher.Run(context.Background(), LaunchConfig{
			ScriptPath: testScript(t),
			ClaudePath: "sh",
			ServerName: "mcp_permission_server",
		})
		require.Error(t, err)
		assert.Empty(t, fake.specs)
	})

	t.Run("missing claude binary fails before anything runs", func(t *testing.T) {
		fake := &fakeRunner{}
		launcher, _ := newTestLauncher(fake)

		_, err := launcher.Run(context.Background(), LaunchConfig{
			ScriptPath: testScript(t),
			ClaudePath: "skiff-no-such-binary-xyz",
			ServerName: "mcp_permission_server",
		})
		require.ErrorContains(t, err, "not found")
		assert.Empty(t, fake.specs)
	})

	t.Run("invalid script fails before anything runs", func(t *testing.T) {
		fake := &fakeRunner{}
		launcher, _ := newTestLauncher(fake)

		_, err := launcher.Run(context.Background(), LaunchConfig{
			ScriptPath: filepath.Join(t.TempDir(), "missing.py"),
			ClaudePath: "sh",
			ServerName: "mcp_permission_server",
		})
		require.Error(t, err)
		assert.Empty(t, fake.specs)
	})

	t.Run("timeout reported through printer", func(t *testing.T) {
		fake := &fakeRunner{results: []supervisor.Result{{ExitCode: -1, TimedOut: true}}}
		launcher, out := newTestLauncher(fake)

		result, err := launcher.Run(context.Background(), LaunchConfig{
			ScriptPath: testScript(t),
			ClaudePath: "sh",
			ServerName: "mcp_permission_server",
		})
		require.NoError(t, err)
		assert.True(t, result.TimedOut)
		assert.Contains(t, out.String(), "timed out")
	})
}
