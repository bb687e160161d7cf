package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/bracken-labs/skiff/internal/logger"
	"github.com/bracken-labs/skiff/internal/output"
	"github.com/bracken-labs/skiff/internal/supervisor"
)

// Runner executes a supervised process. It exists so tests can observe
// the exact invocations without spawning real Claude processes.
type Runner interface {
	Run(ctx context.Context, spec supervisor.Spec) (supervisor.Result, error)
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, spec supervisor.Spec) (supervisor.Result, error)

// Run implements Runner
func (f RunnerFunc) Run(ctx context.Context, spec supervisor.Spec) (supervisor.Result, error) {
	return f(ctx, spec)
}

// Launcher runs Claude CLI invocations under process supervision
type Launcher struct {
	runner  Runner
	printer *output.Printer
}

// NewLauncher creates a launcher backed by the real process supervisor
func NewLauncher() *Launcher {
	return &Launcher{
		runner:  RunnerFunc(supervisor.Run),
		printer: output.NewPrinter(),
	}
}

// NewLauncherWithRunner creates a launcher with a custom runner and
// printer, for tests
func NewLauncherWithRunner(runner Runner, printer *output.Printer) *Launcher {
	return &Launcher{runner: runner, printer: printer}
}

// Run validates the launch inputs, optionally registers the script as
// an MCP tool through the Claude CLI, and then launches Claude itself.
// The child's exit status is reported through the returned Result; an
// error is only returned when the launch could not happen at all.
func (l *Launcher) Run(ctx context.Context, cfg LaunchConfig) (supervisor.Result, error) {
	if err := CheckAPIKey(); err != nil {
		return supervisor.Result{}, err
	}
	if _, err := FindBinary(cfg.claudePath()); err != nil {
		return supervisor.Result{}, err
	}
	if err := ValidateScript(cfg.ScriptPath); err != nil {
		return supervisor.Result{}, err
	}

	if cfg.AddMCP {
		if err := l.registerTool(ctx, cfg); err != nil {
			return supervisor.Result{}, err
		}
	}

	cmd := BuildLaunchCommand(cfg)
	logger.Infof("executing Claude with %d-character prompt", len(cfg.prompt()))
	l.printer.Command(cmd)

	result, err := l.runner.Run(ctx, l.spec(cfg, cmd))
	if err != nil {
		return result, err
	}

	switch {
	case result.TimedOut:
		l.printer.Error("Claude execution timed out after %s", cfg.Timeout)
	case result.Interrupted:
		l.printer.Warning("Claude execution interrupted")
	case result.ExitCode == 0:
		l.printer.Success("Claude execution completed successfully")
	default:
		l.printer.Error("Claude execution failed with code: %d", result.ExitCode)
	}

	return result, nil
}

// registerTool runs `claude mcp add` for the script and then lists the
// registered tools so registration failures surface before the launch.
func (l *Launcher) registerTool(ctx context.Context, cfg LaunchConfig) error {
	for _, cmd := range [][]string{BuildMCPAddCommand(cfg), BuildMCPListCommand(cfg)} {
		l.printer.Command(cmd)
		result, err := l.runner.Run(ctx, l.spec(cfg, cmd))
		if err != nil {
			return fmt.Errorf("mcp registration failed: %w", err)
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("mcp registration failed: %s exited with code %d",
				strings.Join(cmd[1:3], " "), result.ExitCode)
		}
	}
	return nil
}

// spec assembles the supervision spec shared by all launcher invocations
func (l *Launcher) spec(cfg LaunchConfig, cmd []string) supervisor.Spec {
	return supervisor.Spec{
		Command:     cmd,
		Dir:         cfg.WorkDir,
		Timeout:     cfg.Timeout,
		GracePeriod: cfg.GracePeriod,
		Stdout:      l.printer.StdoutSink(),
		Stderr:      l.printer.StderrSink(),
	}
}
