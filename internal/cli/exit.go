package cli

import "fmt"

// Exit codes for supervisor outcomes that are not plain child failures.
// Timeouts use the conventional coreutils timeout code, interrupts the
// conventional SIGINT code.
const (
	ExitCodeTimeout     = 124
	ExitCodeInterrupted = 130
)

// ExitError carries a process exit code through cobra's error path so
// the child's status can be relayed verbatim. Its diagnostic has
// already been printed when it is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}
