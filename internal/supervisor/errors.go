package supervisor

import "fmt"

// ConfigError reports invalid supervision inputs. It is returned before
// any child process is spawned and is never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SpawnError reports a failure to launch the child process, such as a
// missing or non-executable binary. No output has been produced when it
// is returned.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
