package supervisor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/bracken-labs/skiff/internal/logger"
	"github.com/bracken-labs/skiff/internal/output"
)

// DefaultGracePeriod is the time allowed between SIGTERM and SIGKILL
// when no grace period is configured.
const DefaultGracePeriod = 5 * time.Second

// maxLineSize bounds a single scanned line. A child emitting a longer
// line ends relay for that stream; the run itself is unaffected.
const maxLineSize = 1024 * 1024

// LineSink receives one complete output line, without the trailing newline.
type LineSink func(line string)

// Spec describes a single supervised process.
type Spec struct {
	// Command is the argument vector. It must be non-empty.
	Command []string

	// Dir is the working directory. When set it must exist.
	Dir string

	// Env holds environment overrides in addition to the inherited
	// environment.
	Env map[string]string

	// Timeout bounds the child's wall-clock runtime. Zero means unbounded.
	Timeout time.Duration

	// GracePeriod is the time allowed between the graceful termination
	// signal and the forced kill. Defaults to DefaultGracePeriod.
	GracePeriod time.Duration

	// Stdout receives child stdout lines. Defaults to verbatim
	// passthrough on the terminal.
	Stdout LineSink

	// Stderr receives child stderr lines. Defaults to an
	// "ERROR:"-annotated print on the terminal.
	Stderr LineSink
}

// Result is the outcome of a supervised run. It is only produced once
// the child has exited and both output streams are fully drained.
type Result struct {
	// RunID identifies this run in log output.
	RunID string

	// ExitCode is the child's exit status. It is -1 when the child was
	// terminated by a signal before exiting on its own.
	ExitCode int

	// TimedOut reports that the configured timeout expired and the
	// child was terminated.
	TimedOut bool

	// Interrupted reports that an external cancellation terminated the
	// child before it completed.
	Interrupted bool

	// Duration is the wall-clock time from spawn to full drain.
	Duration time.Duration
}

// Run launches the process described by spec and supervises it to
// completion. Configuration and spawn failures return an error before
// any output is produced; every other condition, including non-zero
// exit codes, timeouts, and cancellation, is reported through Result.
func Run(ctx context.Context, spec Spec) (Result, error) {
	if err := validate(spec); err != nil {
		return Result{}, err
	}

	grace := spec.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	stdoutSink := spec.Stdout
	stderrSink := spec.Stderr
	if stdoutSink == nil || stderrSink == nil {
		printer := output.NewPrinter()
		if stdoutSink == nil {
			stdoutSink = printer.StdoutSink()
		}
		if stderrSink == nil {
			stderrSink = printer.StderrSink()
		}
	}

	// Resolve the binary up front so a missing executable fails before
	// any pipes are opened.
	path, err := exec.LookPath(spec.Command[0])
	if err != nil {
		return Result{}, &SpawnError{Command: spec.Command[0], Err: err}
	}

	cmd := exec.Command(path, spec.Command[1:]...)
	cmd.Dir = spec.Dir
	// The child leads its own process group so termination reaches any
	// grandchildren it forks. A forked grandchild inherits the pipe
	// write ends; signalling only the direct child would leave the
	// readers blocked on the orphan for its full lifetime.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Env = os.Environ()
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, &SpawnError{Command: spec.Command[0], Err: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, &SpawnError{Command: spec.Command[0], Err: err}
	}

	runID := uuid.NewString()
	log := logger.WithRun(runID, spec.Command)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, &SpawnError{Command: spec.Command[0], Err: err}
	}
	log.Debugf("started child pid=%d", cmd.Process.Pid)

	// One reader per stream. A single loop alternating reads between
	// the two pipes can deadlock once the child fills the pipe nobody
	// is draining, so each stream gets its own goroutine.
	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		drainLines(stdoutPipe, stdoutSink, log, "stdout")
	}()
	go func() {
		defer readers.Done()
		drainLines(stderrPipe, stderrSink, log, "stderr")
	}()

	// exited is closed once the child has been reaped; it releases the
	// watcher whether or not a termination was in flight.
	exited := make(chan struct{})
	watcherDone := make(chan struct{})

	var timedOut, interrupted atomic.Bool
	go func() {
		defer close(watcherDone)

		var timeoutC <-chan time.Time
		if spec.Timeout > 0 {
			timer := time.NewTimer(spec.Timeout)
			defer timer.Stop()
			timeoutC = timer.C
		}

		select {
		case <-exited:
		case <-timeoutC:
			timedOut.Store(true)
			log.Warnf("timeout after %s, terminating child", spec.Timeout)
			terminate(cmd.Process, grace, exited, log)
		case <-ctx.Done():
			interrupted.Store(true)
			log.Warn("cancelled, terminating child")
			terminate(cmd.Process, grace, exited, log)
		}
	}()

	// Pipes must be fully drained before Wait closes them.
	readers.Wait()
	waitErr := cmd.Wait()
	close(exited)
	<-watcherDone

	result := Result{
		RunID:       runID,
		ExitCode:    exitCode(waitErr),
		TimedOut:    timedOut.Load(),
		Interrupted: interrupted.Load() && !timedOut.Load(),
		Duration:    time.Since(start),
	}
	log.WithDuration(result.Duration).Debugf("child exited code=%d timed_out=%v interrupted=%v",
		result.ExitCode, result.TimedOut, result.Interrupted)

	return result, nil
}

func validate(spec Spec) error {
	if len(spec.Command) == 0 {
		return &ConfigError{Field: "command", Reason: "must not be empty"}
	}
	if spec.Dir != "" {
		info, err := os.Stat(spec.Dir)
		if err != nil {
			return &ConfigError{Field: "working directory", Reason: fmt.Sprintf("%s: %v", spec.Dir, err)}
		}
		if !info.IsDir() {
			return &ConfigError{Field: "working directory", Reason: fmt.Sprintf("%s is not a directory", spec.Dir)}
		}
	}
	return nil
}

// drainLines reads r until end of stream, pushing each complete line to
// the sink in order. Read failures on a live pipe are treated as end of
// stream; the run still reaps the child's exit code.
func drainLines(r io.Reader, sink LineSink, log *logger.Logger, stream string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		sink(scanner.Text())
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.WithError(err).Debugf("%s drain ended early", stream)
	}
}

// terminate asks the child's process group to exit and force-kills it
// when the child is still alive after the grace period. Signalling an
// already-exited group is a no-op.
func terminate(proc *os.Process, grace time.Duration, exited <-chan struct{}, log *logger.Logger) {
	signalGroup(proc.Pid, syscall.SIGTERM, log)

	select {
	case <-exited:
	case <-time.After(grace):
		log.Warnf("child ignored SIGTERM for %s, killing", grace)
		signalGroup(proc.Pid, syscall.SIGKILL, log)
	}
}

func signalGroup(pid int, sig syscall.Signal, log *logger.Logger) {
	if err := syscall.Kill(-pid, sig); err != nil && !errors.Is(err, syscall.ESRCH) {
		log.Debugf("%s delivery: %v", sig, err)
	}
}

// exitCode maps cmd.Wait's error to the child's exit status. Non-exit
// errors (for example pipe teardown races) are reported as -1 rather
// than surfaced, since the child is already gone.
func exitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
