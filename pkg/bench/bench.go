// Package bench orchestrates one end-to-end benchmark cycle: launch the load
// generator against an arrival trace, wait until the tracing backend has
// ingested the resulting spans, and derive a normalized start-time trace from
// them. Runs are strictly sequential; callers must serialize benchmark
// executions to keep the trace and output files from being clobbered.
package bench

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"tracebench/pkg/conf"
	"tracebench/pkg/loadgen"
	"tracebench/pkg/spans"
	"tracebench/pkg/trace"
)

var (
	// OutputFlag is the path the normalized start-time trace is written to.
	OutputFlag = conf.NewStringFlag("output_file", "Path of the normalized span start-time output file", "trace_jaeger.txt")
	// SettleFlag is the delay before the first backend query, tolerating
	// asynchronous span ingestion.
	SettleFlag = conf.NewDurationFlag("settle_delay", "Delay before first tracing backend query", 15*time.Second)
	// MaxWaitFlag bounds the whole ingestion-polling phase after the settle delay.
	MaxWaitFlag = conf.NewDurationFlag("max_ingestion_wait", "Maximum total time to poll the tracing backend for spans", 60*time.Second)
)

// errNotYetIngested marks a poll round which saw fewer spans than the trace
// promised. Retried with backoff until the deadline.
var errNotYetIngested = errors.New("spans not fully ingested yet")

// Config gathers everything needed for one benchmark run.
type Config struct {
	Service          string
	Operation        string
	TracePath        string
	OutputPath       string
	SettleDelay      time.Duration
	MaxIngestionWait time.Duration
}

// DefaultConfig applies the benchmark settings from command line flags and
// environment variables.
func DefaultConfig() Config {
	return Config{
		Service:          spans.ServiceFlag.Value(),
		Operation:        spans.OperationFlag.Value(),
		TracePath:        trace.FileFlag.Value(),
		OutputPath:       OutputFlag.Value(),
		SettleDelay:      SettleFlag.Value(),
		MaxIngestionWait: MaxWaitFlag.Value(),
	}
}

// Benchmark drives one load-generation run and the correlation of its spans.
type Benchmark struct {
	runner loadgen.Runner
	reader spans.Reader
	config Config
}

// New returns a Benchmark using the given load generator and span reader.
func New(runner loadgen.Runner, reader spans.Reader, config Config) *Benchmark {
	return &Benchmark{
		runner: runner,
		reader: reader,
		config: config,
	}
}

// Run executes one benchmark cycle. Every failure aborts the whole run; there
// is no partial-success mode and no retry besides the ingestion polling.
func (b *Benchmark) Run(ctx context.Context) error {
	runID := uuid.New().String()
	log.Info("starting benchmark run ", runID)

	arrivals, err := trace.ReadFile(b.config.TracePath)
	if err != nil {
		return errors.Wrap(err, "reading arrival trace failed")
	}
	log.Infof("arrival trace %q holds %d arrivals", b.config.TracePath, len(arrivals))

	// The baseline is captured before the launch so the query lower bound
	// excludes stale spans from prior runs.
	startBound := time.Now().UnixMicro()

	if err := b.runner.Run(b.config.TracePath); err != nil {
		return errors.Wrap(err, "load generation failed")
	}

	log.Infof("waiting %s for span ingestion", b.config.SettleDelay)
	select {
	case <-time.After(b.config.SettleDelay):
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "benchmark run cancelled during settle delay")
	}

	startTimes, err := b.awaitIngestion(ctx, startBound, len(arrivals))
	if err != nil {
		return err
	}

	offsets, err := Normalize(startTimes)
	if err != nil {
		return errors.Wrap(err, "normalization failed")
	}

	if err := WriteLatencyFile(b.config.OutputPath, offsets); err != nil {
		return errors.Wrap(err, "writing normalized trace failed")
	}

	log.Infof("run %s: wrote %d normalized span start times to %q", runID, len(offsets), b.config.OutputPath)
	b.logLagSummary(arrivals, offsets)

	return nil
}

// awaitIngestion polls the tracing backend with exponential backoff until it
// reports at least expected spans or the deadline passes. A deadline hit with
// zero spans is an empty result set; a partial set is accepted with a warning,
// which is never worse than the historical fixed sleep.
func (b *Benchmark) awaitIngestion(ctx context.Context, startBound int64, expected int) ([]int64, error) {
	var observed []int64

	poll := func() error {
		startTimes, err := b.reader.StartTimes(ctx, b.config.Service, b.config.Operation, startBound)
		if err != nil {
			return backoff.Permanent(err)
		}

		observed = startTimes
		if len(observed) >= expected {
			return nil
		}

		log.Debugf("observed %d of %d spans, polling again", len(observed), expected)
		return errNotYetIngested
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = b.config.MaxIngestionWait

	err := backoff.Retry(poll, backoff.WithContext(policy, ctx))
	switch {
	case err == nil:
		return observed, nil
	case errors.Cause(err) == errNotYetIngested && len(observed) > 0:
		log.Warnf("ingestion deadline passed with %d of %d spans, proceeding with partial set", len(observed), expected)
		return observed, nil
	case errors.Cause(err) == errNotYetIngested:
		return nil, errors.Wrapf(ErrEmptyResultSet, "no spans of %s/%s after %s", b.config.Service, b.config.Operation, b.config.MaxIngestionWait)
	default:
		return nil, errors.Wrap(err, "querying tracing backend failed")
	}
}
