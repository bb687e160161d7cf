package cli

import (
	"github.com/spf13/cobra"

	"github.com/bracken-labs/skiff/internal/config"
	"github.com/bracken-labs/skiff/internal/mcp"
	"github.com/bracken-labs/skiff/internal/output"
)

// NewToolsCommand creates the tools subcommand for inspecting and
// pruning locally registered MCP tool symlinks.
func NewToolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tools",
		Short:         "Manage locally registered MCP tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered MCP tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := newRegistry()
			if err != nil {
				return err
			}
			names, err := registry.Registered()
			if err != nil {
				return err
			}

			printer := output.NewPrinter()
			if len(names) == 0 {
				printer.Info("No MCP tools registered in %s", registry.Dir())
				return nil
			}
			for _, name := range names {
				printer.Println(name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <full-tool-name>",
		Short: "Remove a registered MCP tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := newRegistry()
			if err != nil {
				return err
			}
			if err := registry.Unregister(args[0]); err != nil {
				return err
			}
			output.NewPrinter().Success("Removed MCP tool: %s", args[0])
			return nil
		},
	})

	return cmd
}

func newRegistry() (*mcp.Registry, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	return mcp.NewRegistry(cfg.MCP.ToolsDir)
}
