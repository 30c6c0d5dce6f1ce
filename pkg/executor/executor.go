// Package executor provides execution environments for external commands and
// handles to stop and monitor the launched processes.
package executor

import (
	"os"
	"time"
)

// Executor is responsible for creating an execution environment for a given command.
// It returns a TaskHandle when the command started gracefully.
// The command is executed asynchronously.
type Executor interface {
	// Execute executes command on the underlying platform.
	Execute(command string) (TaskHandle, error)
	// Name returns user-friendly name of the executor.
	Name() string
}

// TaskState is an enum presenting current task state.
type TaskState int

const (
	// RUNNING task state means that task is still running.
	RUNNING TaskState = iota
	// TERMINATED task state means that task completed or was stopped.
	TERMINATED
)

// TaskHandle represents a process which can be stopped or monitored.
type TaskHandle interface {
	// Stop terminates the task, killing the whole process group.
	Stop() error
	// Status returns the current state of the task.
	Status() TaskState
	// ExitCode returns the exit code. If the task is not terminated it returns an error.
	ExitCode() (int, error)
	// StdoutFile returns a file handle to the task's captured stdout.
	StdoutFile() (*os.File, error)
	// StderrFile returns a file handle to the task's captured stderr.
	StderrFile() (*os.File, error)
	// Wait blocks until the task terminates or the timeout elapses.
	// A zero timeout waits indefinitely. It returns true if the task terminated.
	Wait(timeout time.Duration) bool
	// EraseOutput closes and removes the task's stdout and stderr files.
	EraseOutput() error
}
