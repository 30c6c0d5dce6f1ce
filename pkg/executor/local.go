package executor

import (
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Local provides the execution environment on the local machine via exec.Command.
// It runs the command as the current user.
type Local struct {
}

// NewLocal returns a Local instance.
func NewLocal() Local {
	return Local{}
}

// Name returns user-friendly name of the executor.
func (l Local) Name() string {
	return "Local Executor"
}

// Execute runs the command given as input.
// The returned TaskHandle is able to stop and monitor the provisioned process.
func (l Local) Execute(command string) (TaskHandle, error) {
	log.Debug("Starting ", command)

	stdoutFile, err := os.CreateTemp("", "tracebench_stdout_")
	if err != nil {
		return nil, errors.Wrap(err, "could not create stdout file")
	}
	stderrFile, err := os.CreateTemp("", "tracebench_stderr_")
	if err != nil {
		return nil, errors.Wrap(err, "could not create stderr file")
	}

	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile
	// An own process group id for the command and its children gives the
	// ability to kill all of them at once.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "could not start %q", command)
	}

	log.Debug("Started with pid ", cmd.Process.Pid)

	task := &localTaskHandle{
		command:    command,
		cmd:        cmd,
		stdoutFile: stdoutFile,
		stderrFile: stderrFile,
		done:       make(chan struct{}),
	}

	go func() {
		// Wait grabs the process state on success and failure alike; the
		// exit code is derived from the state below.
		cmd.Wait()

		waitStatus := cmd.ProcessState.Sys().(syscall.WaitStatus)
		if waitStatus.Exited() {
			task.exitCode = waitStatus.ExitStatus()
		} else {
			// Termination by signal is reported as a negative code.
			task.exitCode = -int(waitStatus.Signal())
		}

		log.Debug(
			"Ended ", command,
			" with output in file: ", stdoutFile.Name(),
			" with err output in file: ", stderrFile.Name(),
			" with status code: ", task.exitCode)

		close(task.done)
	}()

	return task, nil
}

// localTaskHandle implements the TaskHandle interface for local processes.
type localTaskHandle struct {
	command    string
	cmd        *exec.Cmd
	stdoutFile *os.File
	stderrFile *os.File

	done     chan struct{}
	exitCode int

	stopOnce sync.Once
	stopErr  error
}

// Status returns the current state of the task.
func (task *localTaskHandle) Status() TaskState {
	select {
	case <-task.done:
		return TERMINATED
	default:
		return RUNNING
	}
}

// ExitCode returns the exit code. If the task is still running it returns an error.
func (task *localTaskHandle) ExitCode() (int, error) {
	if task.Status() == RUNNING {
		return 0, errors.Errorf("task %q is still running", task.command)
	}

	return task.exitCode, nil
}

// Stop terminates the task by signalling its whole process group:
// SIGTERM first, SIGKILL when the group does not exit within the grace period.
func (task *localTaskHandle) Stop() error {
	task.stopOnce.Do(func() {
		if task.Status() == TERMINATED {
			return
		}

		// The kill syscall interprets a negated PID N as the process group N belongs to.
		pgid := -task.cmd.Process.Pid
		log.Debug("Sending SIGTERM to process group ", pgid)
		if err := syscall.Kill(pgid, syscall.SIGTERM); err != nil {
			task.stopErr = errors.Wrapf(err, "could not terminate task %q", task.command)
			return
		}

		if !task.Wait(5 * time.Second) {
			log.Debug("Sending SIGKILL to process group ", pgid)
			if err := syscall.Kill(pgid, syscall.SIGKILL); err != nil {
				task.stopErr = errors.Wrapf(err, "could not kill task %q", task.command)
				return
			}
			task.Wait(0)
		}
	})

	return task.stopErr
}

// StdoutFile returns a file handle to the task's captured stdout, rewound to the start.
func (task *localTaskHandle) StdoutFile() (*os.File, error) {
	if _, err := task.stdoutFile.Seek(0, 0); err != nil {
		return nil, errors.Wrap(err, "could not rewind stdout file")
	}
	return task.stdoutFile, nil
}

// StderrFile returns a file handle to the task's captured stderr, rewound to the start.
func (task *localTaskHandle) StderrFile() (*os.File, error) {
	if _, err := task.stderrFile.Seek(0, 0); err != nil {
		return nil, errors.Wrap(err, "could not rewind stderr file")
	}
	return task.stderrFile, nil
}

// Wait blocks until the process terminates or the timeout elapses.
// A zero timeout waits indefinitely. It returns true if the task terminated.
func (task *localTaskHandle) Wait(timeout time.Duration) bool {
	if timeout == 0 {
		<-task.done
		return true
	}

	select {
	case <-task.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// EraseOutput closes and removes the task's stdout and stderr files.
func (task *localTaskHandle) EraseOutput() error {
	for _, file := range []*os.File{task.stdoutFile, task.stderrFile} {
		if err := file.Close(); err != nil {
			return errors.Wrapf(err, "could not close %q", file.Name())
		}
		if err := os.Remove(file.Name()); err != nil {
			return errors.Wrapf(err, "could not remove %q", file.Name())
		}
	}
	return nil
}
