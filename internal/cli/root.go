// Package cli implements the skiff command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bracken-labs/skiff/internal/claude"
	"github.com/bracken-labs/skiff/internal/config"
	"github.com/bracken-labs/skiff/internal/logger"
	"github.com/bracken-labs/skiff/internal/mcp"
	"github.com/bracken-labs/skiff/internal/output"
	"github.com/bracken-labs/skiff/internal/supervisor"
)

const version = "0.3.0"

// Execute runs the CLI and returns the process exit code
func Execute() int {
	cmd := NewRootCommand()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Relay interrupts into context cancellation so the supervisor can
	// terminate the child gracefully.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		printer := output.NewPrinter()
		printer.Warning("\nInterrupt received, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		output.NewPrinter().Error("%v", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	var showVersion bool
	var debug bool
	var addMCP bool
	var toolName string
	var serverName string
	var claudePath string
	var claudeArgs []string
	var timeout time.Duration
	var gracePeriod time.Duration

	cmd := &cobra.Command{
		Use:   "skiff <script> [prompt]",
		Short: "skiff - launcher for Claude Code with real-time output relay",
		Long: `skiff - launcher for Claude Code with real-time output relay

skiff validates a helper script, optionally registers it as an MCP tool,
and launches the Claude CLI against it, streaming stdout and stderr to
the terminal as the run progresses.

Examples:
  skiff my_script.py "generate a hello world"
  skiff --add-mcp perm_server.py
  skiff --add-mcp --tool-name custom_tool my_script.py "run the tool"
  skiff docker my_script.py`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				if zl, err := logger.NewZapLogger(logger.DebugLevel, true); err == nil {
					logger.SetLogger(zl.AsLogger())
				}
			}
		},
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			if len(args) < 1 {
				return fmt.Errorf("requires a script path")
			}
			if len(args) > 2 {
				return fmt.Errorf("accepts at most a script path and a prompt")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "skiff version "+version)
				return err
			}

			cfg, err := config.New()
			if err != nil {
				return err
			}

			prompt := ""
			if len(args) > 1 {
				prompt = args[1]
			}

			launchCfg := claude.LaunchConfig{
				ScriptPath:  args[0],
				Prompt:      prompt,
				AddMCP:      addMCP,
				ToolName:    toolName,
				ServerName:  serverName,
				ClaudePath:  claudePath,
				ExtraArgs:   claudeArgs,
				WorkDir:     cfg.WorkDir,
				Timeout:     timeout,
				GracePeriod: gracePeriod,
			}
			applyConfigDefaults(&launchCfg, cfg, cmd)

			if addMCP {
				// Validate before touching the tools directory so a bad
				// script never leaves a dangling symlink behind.
				if err := claude.ValidateScript(launchCfg.ScriptPath); err != nil {
					return err
				}
				if err := registerSymlink(launchCfg, cfg); err != nil {
					return err
				}
			}

			result, err := claude.NewLauncher().Run(cmd.Context(), launchCfg)
			if err != nil {
				return err
			}
			return resultToError(result)
		},
	}

	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&addMCP, "add-mcp", false, "Register the script as an MCP tool before running")
	cmd.Flags().StringVar(&toolName, "tool-name", "", "Custom name for the MCP tool (default: derived from filename)")
	cmd.Flags().StringVar(&serverName, "server-name", "", "Server name for the MCP tool")
	cmd.Flags().StringVar(&claudePath, "claude-path", "", "Path to the Claude executable")
	cmd.Flags().StringArrayVar(&claudeArgs, "claude-args", nil, "Additional arguments to pass to Claude")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Wall-clock timeout for the Claude run (0 = unbounded)")
	cmd.Flags().DurationVar(&gracePeriod, "grace-period", 0, "Delay between SIGTERM and SIGKILL on timeout")

	cmd.AddCommand(NewDockerCommand())
	cmd.AddCommand(NewToolsCommand())

	return cmd
}

// applyConfigDefaults fills launch fields the user did not set on the
// command line from the loaded configuration.
func applyConfigDefaults(launchCfg *claude.LaunchConfig, cfg *config.Config, cmd *cobra.Command) {
	if launchCfg.ServerName == "" {
		launchCfg.ServerName = cfg.MCP.ServerName
	}
	if launchCfg.ClaudePath == "" {
		launchCfg.ClaudePath = cfg.ClaudePath
	}
	if !cmd.Flags().Changed("timeout") {
		launchCfg.Timeout = cfg.Timeout
	}
	if !cmd.Flags().Changed("grace-period") {
		launchCfg.GracePeriod = cfg.GracePeriod
	}
}

// registerSymlink mirrors the tool into the local MCP tools directory
// so the script stays resolvable between runs.
func registerSymlink(launchCfg claude.LaunchConfig, cfg *config.Config) error {
	registry, err := mcp.NewRegistry(cfg.MCP.ToolsDir)
	if err != nil {
		return err
	}
	fullName, err := registry.Register(launchCfg.ScriptPath, launchCfg.ServerName, launchCfg.ToolName)
	if err != nil {
		return err
	}
	output.NewPrinter().Success("Registered MCP tool: %s", fullName)
	return nil
}

// resultToError maps a supervision result to the CLI's exit status
func resultToError(result supervisor.Result) error {
	switch {
	case result.TimedOut:
		return &ExitError{Code: ExitCodeTimeout}
	case result.Interrupted:
		return &ExitError{Code: ExitCodeInterrupted}
	case result.ExitCode != 0:
		return &ExitError{Code: result.ExitCode}
	default:
		return nil
	}
}
