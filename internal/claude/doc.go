// Package claude builds and launches Claude CLI invocations.
//
// This package defines the abstractions for validating launch inputs,
// assembling Claude command lines, and running them under process
// supervision with real-time output relay.
//
// The package follows these design principles:
//   - Explicit validation at boundaries (script, API key, binary)
//   - Clean separation between command building and execution
//   - A Runner seam so tests never spawn a real Claude process
//
// Basic usage:
//
//	cfg := claude.LaunchConfig{
//	    ScriptPath: "my_tool.py",
//	    Prompt:     "generate a hello world",
//	    AddMCP:     true,
//	}
//
//	launcher := claude.NewLauncher()
//	result, err := launcher.Run(ctx, cfg)
package claude
