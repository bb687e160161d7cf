package claude

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bracken-labs/skiff/internal/logger"
)

// APIKeyEnvVar is the environment variable holding the Anthropic API key
const APIKeyEnvVar = "ANTHROPIC_API_KEY"

// CheckAPIKey verifies that ANTHROPIC_API_KEY is set and non-blank.
// The key itself is never logged.
func CheckAPIKey() error {
	if strings.TrimSpace(os.Getenv(APIKeyEnvVar)) == "" {
		return fmt.Errorf("%s environment variable is not set", APIKeyEnvVar)
	}
	return nil
}

// FindBinary resolves the Claude executable on PATH
func FindBinary(claudePath string) (string, error) {
	resolved, err := exec.LookPath(claudePath)
	if err != nil {
		return "", fmt.Errorf("claude executable not found: %s", claudePath)
	}
	return resolved, nil
}

// ValidateScript checks that the script exists, is a readable, non-empty
// regular file, and is executable. A non-executable script is made
// executable in place rather than rejected.
func ValidateScript(scriptPath string) error {
	info, err := os.Stat(scriptPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("script does not exist: %s", scriptPath)
		}
		return fmt.Errorf("failed to stat script %s: %w", scriptPath, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("script path is not a file: %s", scriptPath)
	}

	f, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("script is not readable: %s", scriptPath)
	}
	_ = f.Close()

	if info.Mode().Perm()&0o111 == 0 {
		logger.Warnf("script is not executable, fixing permissions: %s", scriptPath)
		if chmodErr := os.Chmod(scriptPath, 0o755); chmodErr != nil {
			return fmt.Errorf("failed to make script executable: %w", chmodErr)
		}
	}

	if info.Size() == 0 {
		return fmt.Errorf("script file is empty: %s", scriptPath)
	}

	return nil
}
