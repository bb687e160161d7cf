// Package config provides configuration management for the skiff CLI.
// Settings are loaded from an optional YAML file first, then overridden
// by SKIFF_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Verbosity represents the output verbosity level
type Verbosity string

const (
	// VerbosityNormal shows only essential output
	VerbosityNormal Verbosity = "normal"
	// VerbosityVerbose includes step descriptions and timing
	VerbosityVerbose Verbosity = "verbose"
	// VerbosityDebug provides full debug logging
	VerbosityDebug Verbosity = "debug"
)

// DockerConfig holds container-related configuration
type DockerConfig struct {
	// Image is the container image used to run scripts
	Image string `yaml:"image"`

	// ShowBuildLogs controls whether image build output is shown in full
	ShowBuildLogs bool `yaml:"show_build_logs"`

	// WorkspaceDir is the mount point for scripts inside the container
	WorkspaceDir string `yaml:"workspace_dir"`
}

// MCPConfig holds MCP tool registration configuration
type MCPConfig struct {
	// ServerName is the default MCP server name used for tool registration
	ServerName string `yaml:"server_name"`

	// ToolsDir is the directory tool symlinks are created in.
	// Empty means ~/.claude-code/mcp_tools.
	ToolsDir string `yaml:"tools_dir"`
}

// Config holds all configuration for the skiff CLI
type Config struct {
	// ClaudePath is the Claude CLI executable name or path
	ClaudePath string `yaml:"claude_path"`

	// WorkDir is the working directory for Claude execution
	WorkDir string `yaml:"work_dir"`

	// Verbosity controls output level
	Verbosity Verbosity `yaml:"verbosity"`

	// Timeout bounds each supervised child process. Zero means unbounded.
	Timeout time.Duration `yaml:"timeout"`

	// GracePeriod is the delay between SIGTERM and SIGKILL on timeout
	GracePeriod time.Duration `yaml:"grace_period"`

	// Docker holds container-related configuration
	Docker DockerConfig `yaml:"docker"`

	// MCP holds tool registration configuration
	MCP MCPConfig `yaml:"mcp"`
}

// defaults returns the baseline configuration before file and env overrides
func defaults() *Config {
	return &Config{
		ClaudePath:  "claude",
		Verbosity:   VerbosityNormal,
		GracePeriod: 5 * time.Second,
		Docker: DockerConfig{
			Image:        "claude-code-container",
			WorkspaceDir: "/home/coder/workspace",
		},
		MCP: MCPConfig{
			ServerName: "mcp_permission_server",
		},
	}
}

// New creates a new Config instance from the config file and environment
func New() (*Config, error) {
	cfg := defaults()

	if err := loadFile(cfg); err != nil {
		return nil, err
	}
	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.WorkDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		cfg.WorkDir = cwd
	}

	return cfg, nil
}

// configFilePath returns the config file to load, or "" when none applies
func configFilePath() string {
	if path := os.Getenv("SKIFF_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "skiff", "config.yaml")
}

// loadFile merges the YAML config file into cfg. A missing default file
// is not an error; an explicitly requested file must exist.
func loadFile(cfg *Config) error {
	path := configFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && os.Getenv("SKIFF_CONFIG") == "" {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadEnv applies SKIFF_* environment overrides to cfg
func loadEnv(cfg *Config) error {
	if claudePath := os.Getenv("SKIFF_CLAUDE_PATH"); claudePath != "" {
		cfg.ClaudePath = claudePath
	}

	if workDir, exists := os.LookupEnv("SKIFF_WORKDIR"); exists {
		if workDir == "" {
			return fmt.Errorf("SKIFF_WORKDIR cannot be empty")
		}
		if !filepath.IsAbs(workDir) {
			return fmt.Errorf("SKIFF_WORKDIR must be an absolute path, got: %s", workDir)
		}
		cfg.WorkDir = workDir
	}

	if verbosity := os.Getenv("SKIFF_VERBOSITY"); verbosity != "" {
		switch Verbosity(verbosity) {
		case VerbosityNormal, VerbosityVerbose, VerbosityDebug:
			cfg.Verbosity = Verbosity(verbosity)
		default:
			return fmt.Errorf("SKIFF_VERBOSITY must be one of: normal, verbose, debug; got: %s", verbosity)
		}
	}

	timeout, err := parseDurationEnv("SKIFF_TIMEOUT", cfg.Timeout)
	if err != nil {
		return err
	}
	cfg.Timeout = timeout

	grace, err := parseDurationEnv("SKIFF_GRACE_PERIOD", cfg.GracePeriod)
	if err != nil {
		return err
	}
	if grace <= 0 {
		return fmt.Errorf("SKIFF_GRACE_PERIOD must be positive, got: %s", grace)
	}
	cfg.GracePeriod = grace

	if image := os.Getenv("SKIFF_DOCKER_IMAGE"); image != "" {
		cfg.Docker.Image = image
	}

	showBuildLogs, err := parseBoolEnv("SKIFF_DOCKER_SHOW_BUILD_LOGS", cfg.Docker.ShowBuildLogs)
	if err != nil {
		return err
	}
	cfg.Docker.ShowBuildLogs = showBuildLogs

	if serverName := os.Getenv("SKIFF_MCP_SERVER_NAME"); serverName != "" {
		cfg.MCP.ServerName = serverName
	}

	if toolsDir := os.Getenv("SKIFF_MCP_TOOLS_DIR"); toolsDir != "" {
		cfg.MCP.ToolsDir = toolsDir
	}

	return nil
}

// parseBoolEnv parses a boolean environment variable with a default value
func parseBoolEnv(name string, defaultValue bool) (bool, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return parsed, nil
}

// parseDurationEnv parses a duration environment variable with a default value
func parseDurationEnv(name string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return parsed, nil
}
