// Package docker runs scripts inside the Claude Code container.
//
// It mirrors the operator workflow: ensure the image exists (building
// it via make when missing), mount the script or directory into the
// container workspace, and run Claude Code against it with output
// relayed in real time.
package docker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bracken-labs/skiff/internal/claude"
	"github.com/bracken-labs/skiff/internal/logger"
	"github.com/bracken-labs/skiff/internal/mcp"
	"github.com/bracken-labs/skiff/internal/output"
	"github.com/bracken-labs/skiff/internal/supervisor"
)

const (
	dockerCommand = "docker"
	podmanCommand = "podman"

	// containerBinary is the Claude Code executable inside the container
	containerBinary = "claude-code"

	// setupScript registers MCP tools inside the container
	setupScript = "/opt/claude-code/setup_mcp_tool.py"
)

// Options describes a containerised script run
type Options struct {
	// Image is the container image to run
	Image string

	// ScriptPath is the file or directory mounted into the workspace
	ScriptPath string

	// WorkspaceDir is the mount point inside the container
	WorkspaceDir string

	// ToolName and ServerName configure MCP tool setup inside the
	// container. ToolName empty with the default ServerName skips the
	// setup step entirely when SkipToolSetup is unset.
	ToolName   string
	ServerName string

	// ClaudeArgs are extra arguments passed to Claude Code verbatim
	ClaudeArgs []string

	// SkipToolSetup runs the script directly without MCP registration
	SkipToolSetup bool

	// Interactive requests a TTY. It is ignored with a warning when
	// stdin or stdout is not a terminal.
	Interactive bool

	// Timeout and GracePeriod bound the container run
	Timeout     time.Duration
	GracePeriod time.Duration
}

// Runner executes docker operations under process supervision
type Runner struct {
	runner    claude.Runner
	printer   *output.Printer
	dockerCmd string
}

// NewRunner creates a docker runner. Podman is used when docker is not
// on the PATH but podman is.
func NewRunner() *Runner {
	dockerCmd := dockerCommand
	if _, err := exec.LookPath(podmanCommand); err == nil {
		if _, err := exec.LookPath(dockerCommand); err != nil {
			dockerCmd = podmanCommand
		}
	}

	return &Runner{
		runner:    claude.RunnerFunc(supervisor.Run),
		printer:   output.NewPrinter(),
		dockerCmd: dockerCmd,
	}
}

// NewRunnerWith creates a runner with explicit collaborators, for tests
func NewRunnerWith(runner claude.Runner, printer *output.Printer, dockerCmd string) *Runner {
	return &Runner{runner: runner, printer: printer, dockerCmd: dockerCmd}
}

// ImageExists reports whether the image is present locally
func (r *Runner) ImageExists(ctx context.Context, image string) bool {
	result, err := r.runner.Run(ctx, supervisor.Spec{
		Command: []string{r.dockerCmd, "image", "inspect", image},
		Stdout:  func(string) {},
		Stderr:  func(string) {},
	})
	return err == nil && result.ExitCode == 0
}

// BuildImage builds the container image via make. Build output is
// collected quietly and only surfaced on failure, unless showLogs is set.
func (r *Runner) BuildImage(ctx context.Context, showLogs bool) error {
	cmd := []string{"make", "build"}

	if showLogs {
		r.printer.Command(cmd)
		result, err := r.runner.Run(ctx, supervisor.Spec{
			Command: cmd,
			Stdout:  r.printer.StdoutSink(),
			Stderr:  r.printer.StderrSink(),
		})
		if err != nil {
			return fmt.Errorf("image build failed: %w", err)
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("image build failed with code %d", result.ExitCode)
		}
		return nil
	}

	r.printer.Info("Building container image (this may take a while)...")
	var stderrLines []string
	result, err := r.runner.Run(ctx, supervisor.Spec{
		Command: cmd,
		Stdout:  func(string) {},
		Stderr:  func(line string) { stderrLines = append(stderrLines, line) },
	})
	if err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	if result.ExitCode != 0 {
		for _, line := range stderrLines {
			r.printer.Detail(line)
		}
		return fmt.Errorf("image build failed with code %d", result.ExitCode)
	}
	return nil
}

// EnsureImage builds the image when it is not already present
func (r *Runner) EnsureImage(ctx context.Context, image string, showLogs bool) error {
	if r.ImageExists(ctx, image) {
		return nil
	}
	r.printer.Warning("Container image %q does not exist, building it now", image)
	return r.BuildImage(ctx, showLogs)
}

// RunScript mounts the script into the container workspace and runs
// Claude Code against it. The container's exit status is reported
// through the returned Result.
func (r *Runner) RunScript(ctx context.Context, opts Options) (supervisor.Result, error) {
	mount, target, err := resolveMount(opts.ScriptPath, opts.WorkspaceDir)
	if err != nil {
		return supervisor.Result{}, err
	}

	args := []string{r.dockerCmd, "run", "--rm",
		"-v", mount,
		"-e", fmt.Sprintf("%s=%s", claude.APIKeyEnvVar, os.Getenv(claude.APIKeyEnvVar)),
	}

	if opts.Interactive {
		if output.IsInteractive() {
			args = append(args, "-it")
		} else {
			r.printer.Warning("Not running in a TTY, disabling interactive mode")
		}
	}

	args = append(args, opts.Image, "/bin/bash", "-c", containerCommand(opts, target))

	logger.Debugf("container run: %s", strings.Join(args, " "))
	r.printer.Command(args)

	return r.runner.Run(ctx, supervisor.Spec{
		Command:     args,
		Timeout:     opts.Timeout,
		GracePeriod: opts.GracePeriod,
		Stdout:      r.printer.StdoutSink(),
		Stderr:      r.printer.StderrSink(),
	})
}

// RunDirect executes the script on the host, bypassing the container
// entirely. Directories are rejected; a non-executable script is made
// executable first, with a warning when that fails.
func (r *Runner) RunDirect(ctx context.Context, opts Options) (supervisor.Result, error) {
	abs, err := filepath.Abs(opts.ScriptPath)
	if err != nil {
		return supervisor.Result{}, fmt.Errorf("failed to resolve script path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return supervisor.Result{}, fmt.Errorf("path not found: %s", abs)
	}
	if info.IsDir() {
		return supervisor.Result{}, fmt.Errorf("cannot run a directory directly, specify a single executable file: %s", abs)
	}

	if info.Mode().Perm()&0o111 == 0 {
		if err := os.Chmod(abs, 0o755); err != nil {
			r.printer.Warning("Could not make script executable: %v", err)
		} else {
			logger.Debugf("made script executable: %s", abs)
		}
	}

	r.printer.Info("Running script directly: %s", abs)
	r.printer.Command([]string{abs})

	return r.runner.Run(ctx, supervisor.Spec{
		Command:     []string{abs},
		Timeout:     opts.Timeout,
		GracePeriod: opts.GracePeriod,
		Stdout:      r.printer.StdoutSink(),
		Stderr:      r.printer.StderrSink(),
	})
}

// resolveMount maps the script path to a docker volume argument and the
// path Claude Code should be pointed at inside the container. For a
// directory the first executable file found is the run target.
func resolveMount(scriptPath, workspaceDir string) (mount, target string, err error) {
	abs, err := filepath.Abs(scriptPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve script path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", "", fmt.Errorf("path not found: %s", abs)
	}

	base := filepath.Base(abs)
	mountPoint := workspaceDir + "/" + base
	mount = abs + ":" + mountPoint

	if !info.IsDir() {
		return mount, mountPoint, nil
	}

	executables, err := findExecutables(abs)
	if err != nil {
		return "", "", err
	}
	if len(executables) == 0 {
		return "", "", fmt.Errorf("no executable files found in directory: %s", abs)
	}
	if len(executables) > 1 {
		logger.Warnf("multiple executable files found in %s, using %s", abs, executables[0])
	}

	return mount, mountPoint + "/" + filepath.ToSlash(executables[0]), nil
}

// findExecutables walks dir and returns executable regular files,
// relative to dir, in walk order.
func findExecutables(dir string) ([]string, error) {
	var executables []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			executables = append(executables, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}
	return executables, nil
}

// containerCommand composes the shell command run inside the container
func containerCommand(opts Options, target string) string {
	claudeArgs := strings.Join(opts.ClaudeArgs, " ")

	runDirect := fmt.Sprintf("%s %s --dangerously-skip-permissions %s",
		containerBinary, claudeArgs, target)

	if opts.SkipToolSetup {
		return runDirect
	}

	customTool := opts.ToolName != "" || opts.ServerName != "mcp_permission_server"
	if !customTool {
		return runDirect
	}

	var toolArgs []string
	if opts.ToolName != "" {
		toolArgs = append(toolArgs, "--tool-name", opts.ToolName)
	}
	if opts.ServerName != "" {
		toolArgs = append(toolArgs, "--server-name", opts.ServerName)
	}

	setup := fmt.Sprintf("python %s %s %s --debug",
		setupScript, target, strings.Join(toolArgs, " "))

	// The setup script derives the tool name from the target when none is
	// given; the permission tool flag has to match what it registers.
	fullTool := mcp.FullName(opts.ServerName, mcp.ToolName(target, opts.ToolName))
	run := fmt.Sprintf("%s %s --dangerously-skip-permissions --prompt-permission-tool=%s",
		containerBinary, claudeArgs, fullTool)

	return setup + " && " + run
}
