// Package supervisor launches child processes and relays their output
// line by line while they run.
//
// Both standard streams are drained by independent readers so a child
// that floods one stream can never deadlock against a parent blocked on
// the other. An optional wall-clock timeout escalates from SIGTERM to
// SIGKILL after a grace period, delivered to the child's process group
// so forked grandchildren cannot hold the streams open, and context
// cancellation propagates the same termination. The exit status is reported
// only after both streams have reached end of stream, so no line is
// lost or reordered within its own stream.
package supervisor
