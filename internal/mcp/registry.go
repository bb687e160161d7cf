// Package mcp manages the registration of helper scripts as MCP tools.
//
// Tools are registered by symlinking the script into a predictable
// directory under the user's home, named server__tool, so the Claude CLI
// can resolve them as permission tools.
package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bracken-labs/skiff/internal/logger"
)

// defaultToolsDir is the tools directory relative to the user's home
var defaultToolsDir = filepath.Join(".claude-code", "mcp_tools")

// ToolName derives the tool name for a script. An explicit name wins;
// otherwise the script's base name is used, lowercased with spaces
// replaced by underscores.
func ToolName(scriptPath, explicit string) string {
	if explicit != "" {
		return explicit
	}
	stem := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	return strings.ReplaceAll(strings.ToLower(stem), " ", "_")
}

// FullName returns the server__tool identifier used for registration
func FullName(serverName, toolName string) string {
	return fmt.Sprintf("%s__%s", serverName, toolName)
}

// Registry manages tool symlinks in a single tools directory
type Registry struct {
	dir string
}

// NewRegistry creates a registry rooted at dir. An empty dir selects
// the default location under the user's home directory.
func NewRegistry(dir string) (*Registry, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, defaultToolsDir)
	}
	return &Registry{dir: dir}, nil
}

// Dir returns the directory tool symlinks live in
func (r *Registry) Dir() string {
	return r.dir
}

// Register symlinks the script into the tools directory under the
// server__tool name, replacing an existing symlink. A colliding path
// that is not a symlink is refused rather than removed.
func (r *Registry) Register(scriptPath, serverName, toolName string) (string, error) {
	absScript, err := filepath.Abs(scriptPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve script path: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create tools directory: %w", err)
	}

	fullName := FullName(serverName, ToolName(scriptPath, toolName))
	target := filepath.Join(r.dir, fullName)

	if info, err := os.Lstat(target); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return "", fmt.Errorf("path exists and is not a symlink: %s", target)
		}
		if err := os.Remove(target); err != nil {
			return "", fmt.Errorf("failed to remove existing symlink: %w", err)
		}
		logger.Debugf("removed existing symlink: %s", target)
	}

	if err := os.Symlink(absScript, target); err != nil {
		return "", fmt.Errorf("failed to create symlink: %w", err)
	}
	logger.Debugf("created symlink: %s -> %s", target, absScript)

	return fullName, nil
}

// Unregister removes the symlink for the given full tool name. Removing
// a tool that was never registered is a no-op.
func (r *Registry) Unregister(fullName string) error {
	target := filepath.Join(r.dir, fullName)

	info, err := os.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("path is not a symlink: %s", target)
	}
	return os.Remove(target)
}

// Registered lists the full names of all registered tools
func (r *Registry) Registered() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tools directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
