// Package loadgen wraps the external rload load generator. rload replays an
// arrival trace file, issues the requests at the recorded relative times and
// emits distributed-trace spans into the tracing backend as a side effect.
package loadgen

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"tracebench/pkg/conf"
	"tracebench/pkg/executor"
)

var (
	// PathFlag is the location of the rload binary.
	PathFlag = conf.NewStringFlag("rload_path", "Path to the rload load generator binary", "target/release/rload")
	// TimeoutFlag bounds one rload run; an expired run is force-stopped and treated as failed.
	TimeoutFlag = conf.NewDurationFlag("rload_timeout", "Maximum time one rload run may take before it is killed", 10*time.Minute)
)

// ErrProcessFailure is returned when the load generator exits with a non-zero
// code or overruns its timeout. A failed run invalidates all measurements, so
// it is fatal and never retried.
var ErrProcessFailure = errors.New("load generator process failed")

// Runner launches one load-generation run against a trace file and blocks
// until it finishes.
type Runner interface {
	Run(tracePath string) error
}

// Config contains all data for running rload.
type Config struct {
	PathToBinary string
	Timeout      time.Duration
}

// DefaultConfig applies the rload settings from command line flags and
// environment variables.
func DefaultConfig() Config {
	return Config{
		PathToBinary: PathFlag.Value(),
		Timeout:      TimeoutFlag.Value(),
	}
}

type rload struct {
	executor executor.Executor
	config   Config
}

// New returns a Runner which launches rload through the given executor.
func New(executor executor.Executor, config Config) Runner {
	return rload{
		executor: executor,
		config:   config,
	}
}

// Run launches rload against the trace file and blocks until it exits.
// A non-zero exit code or an overrun of the configured timeout yields
// ErrProcessFailure.
func (r rload) Run(tracePath string) error {
	command := getRunCommand(r.config, tracePath)

	taskHandle, err := r.executor.Execute(command)
	if err != nil {
		return errors.Wrapf(err, "executing %q on %q failed", command, r.executor.Name())
	}
	defer taskHandle.EraseOutput()

	if !taskHandle.Wait(r.config.Timeout) {
		log.Errorf("load generator %q did not finish within %s", command, r.config.Timeout)
		if stopErr := taskHandle.Stop(); stopErr != nil {
			log.Errorf("stopping timed out load generator failed: %v", stopErr)
		}
		return errors.Wrapf(ErrProcessFailure, "%q timed out after %s", command, r.config.Timeout)
	}

	exitCode, err := taskHandle.ExitCode()
	if err != nil {
		return errors.Wrapf(err, "could not read exit code of %q", command)
	}

	if exitCode != 0 {
		return errors.Wrapf(ErrProcessFailure, "%q exited with code %d", command, exitCode)
	}

	log.Debugf("load generator %q finished successfully", command)
	return nil
}
