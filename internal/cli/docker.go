package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bracken-labs/skiff/internal/config"
	"github.com/bracken-labs/skiff/internal/docker"
)

// NewDockerCommand creates the docker subcommand that runs a script
// inside the Claude Code container.
func NewDockerCommand() *cobra.Command {
	var skipBuild bool
	var runDirectly bool
	var showDockerLogs bool
	var interactive bool
	var skipToolSetup bool
	var toolName string
	var serverName string
	var claudeArgs []string
	var timeout time.Duration
	var gracePeriod time.Duration

	cmd := &cobra.Command{
		Use:   "docker <script>",
		Short: "Run a script inside the Claude Code container",
		Long: `Run a script inside the Claude Code container.

The script (or directory) is mounted into the container workspace and
Claude Code is launched against it. The image is built via make when it
does not exist yet.

Examples:
  skiff docker my_mcp_server.py
  skiff docker my_mcp_server.py --tool-name custom_tool
  skiff docker ./tools --interactive
  skiff docker my_mcp_server.py --run-directly`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}

			runner := docker.NewRunner()

			if runDirectly {
				opts := docker.Options{
					ScriptPath:  args[0],
					Timeout:     timeout,
					GracePeriod: gracePeriod,
				}
				if !cmd.Flags().Changed("timeout") {
					opts.Timeout = cfg.Timeout
				}
				if !cmd.Flags().Changed("grace-period") {
					opts.GracePeriod = cfg.GracePeriod
				}
				result, err := runner.RunDirect(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return resultToError(result)
			}

			if !skipBuild {
				showLogs := showDockerLogs || cfg.Docker.ShowBuildLogs
				if err := runner.EnsureImage(cmd.Context(), cfg.Docker.Image, showLogs); err != nil {
					return err
				}
			} else if !runner.ImageExists(cmd.Context(), cfg.Docker.Image) {
				return fmt.Errorf("container image %q does not exist (remove --skip-build to build it)", cfg.Docker.Image)
			}

			opts := docker.Options{
				Image:         cfg.Docker.Image,
				ScriptPath:    args[0],
				WorkspaceDir:  cfg.Docker.WorkspaceDir,
				ToolName:      toolName,
				ServerName:    serverName,
				ClaudeArgs:    claudeArgs,
				SkipToolSetup: skipToolSetup,
				Interactive:   interactive,
				Timeout:       timeout,
				GracePeriod:   gracePeriod,
			}
			if opts.ServerName == "" {
				opts.ServerName = cfg.MCP.ServerName
			}
			if !cmd.Flags().Changed("timeout") {
				opts.Timeout = cfg.Timeout
			}
			if !cmd.Flags().Changed("grace-period") {
				opts.GracePeriod = cfg.GracePeriod
			}

			result, err := runner.RunScript(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return resultToError(result)
		},
	}

	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Skip building the container image")
	cmd.Flags().BoolVar(&runDirectly, "run-directly", false, "Run the script on the host without Docker")
	cmd.Flags().BoolVar(&showDockerLogs, "show-docker-logs", false, "Show container build logs (can be verbose)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run in interactive mode")
	cmd.Flags().BoolVar(&skipToolSetup, "skip-tool-setup", false, "Skip MCP tool setup and just run Claude Code with the script")
	cmd.Flags().StringVar(&toolName, "tool-name", "", "Custom name for the MCP tool (default: derived from filename)")
	cmd.Flags().StringVar(&serverName, "server-name", "", "Server name for the MCP tool")
	cmd.Flags().StringArrayVar(&claudeArgs, "claude-args", nil, "Additional arguments to pass to Claude Code")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Wall-clock timeout for the container run (0 = unbounded)")
	cmd.Flags().DurationVar(&gracePeriod, "grace-period", 0, "Delay between SIGTERM and SIGKILL on timeout")

	return cmd
}
