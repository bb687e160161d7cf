package claude

import (
	"time"

	"github.com/bracken-labs/skiff/internal/mcp"
)

const (
	// defaultBinary is the name of the Claude CLI executable
	defaultBinary = "claude"

	// Command line flags
	flagSkipPermissions = "--dangerously-skip-permissions"
	flagPermissionTool  = "--prompt-permission-tool"
	flagPrint           = "--print"
	flagTransport       = "--transport"

	// transportStdio is the MCP transport used for script-backed tools
	transportStdio = "stdio"
)

// DefaultPrompt is used when the caller supplies no prompt
const DefaultPrompt = "write and compile and run helloworld in c++"

// LaunchConfig describes a single Claude invocation
type LaunchConfig struct {
	// ScriptPath is the script to hand to Claude, or to register as an
	// MCP tool when AddMCP is set
	ScriptPath string

	// Prompt is the instruction sent to Claude (DefaultPrompt when empty)
	Prompt string

	// AddMCP registers ScriptPath as an MCP tool before launching
	AddMCP bool

	// ToolName names the MCP tool (derived from ScriptPath when empty)
	ToolName string

	// ServerName is the MCP server the tool is registered under
	ServerName string

	// ClaudePath is the Claude executable name or path (default "claude")
	ClaudePath string

	// ExtraArgs are appended verbatim to the Claude invocation
	ExtraArgs []string

	// WorkDir is the working directory for the invocation (optional)
	WorkDir string

	// Timeout bounds the invocation's runtime. Zero means unbounded.
	Timeout time.Duration

	// GracePeriod is the delay between SIGTERM and SIGKILL on timeout
	GracePeriod time.Duration
}

// claudePath returns the configured executable, defaulting to "claude"
func (c LaunchConfig) claudePath() string {
	if c.ClaudePath != "" {
		return c.ClaudePath
	}
	return defaultBinary
}

// prompt returns the configured prompt, defaulting to DefaultPrompt
func (c LaunchConfig) prompt() string {
	if c.Prompt != "" {
		return c.Prompt
	}
	return DefaultPrompt
}

// fullToolName returns the server__tool identifier for this launch
func (c LaunchConfig) fullToolName() string {
	return mcp.FullName(c.ServerName, mcp.ToolName(c.ScriptPath, c.ToolName))
}

// BuildLaunchCommand constructs the final Claude invocation.
//
// With AddMCP the script participates as a permission tool and is not
// passed as a positional argument; without it the script itself is
// handed to Claude alongside the prompt.
func BuildLaunchCommand(cfg LaunchConfig) []string {
	var args []string
	if cfg.AddMCP {
		args = []string{
			cfg.claudePath(),
			flagSkipPermissions,
			flagPermissionTool, cfg.fullToolName(),
			flagPrint, cfg.prompt(),
		}
	} else {
		args = []string{
			cfg.claudePath(),
			flagSkipPermissions,
			flagPrint, cfg.prompt(),
			cfg.ScriptPath,
		}
	}
	return append(args, cfg.ExtraArgs...)
}

// BuildMCPAddCommand constructs the `claude mcp add` invocation that
// registers the script as a stdio-transport tool.
func BuildMCPAddCommand(cfg LaunchConfig) []string {
	return []string{
		cfg.claudePath(), "mcp", "add",
		flagTransport, transportStdio,
		cfg.fullToolName(),
		cfg.ScriptPath,
	}
}

// BuildMCPListCommand constructs the `claude mcp list` invocation used
// to verify registration.
func BuildMCPListCommand(cfg LaunchConfig) []string {
	return []string{cfg.claudePath(), "mcp", "list"}
}
