// Package trace synthesizes arrival traces: ordered request-issue timestamps in
// milliseconds relative to a synthetic origin, used to drive an external load generator.
package trace

import (
	"math"
	"time"

	"tracebench/pkg/conf"
)

var (
	// DistributionFlag selects the inter-arrival model.
	DistributionFlag = conf.NewStringFlag("distribution", "Inter-arrival distribution: const, uniform or exp", "const")
	// DurationFlag is the total span of simulated time the trace covers.
	DurationFlag = conf.NewDurationFlag("trace_duration", "Duration of generated trace", 5*time.Second)
	// RateFlag is the target number of arrivals per second.
	RateFlag = conf.NewIntFlag("rate", "Target number of arrivals per second", 100)
	// SeedFlag seeds the random source; 0 means derive from current time.
	SeedFlag = conf.NewIntFlag("seed", "Random seed for uniform/exp draws; 0 derives one from time", 0)
	// FileFlag is the path the trace is written to and read from.
	FileFlag = conf.NewStringFlag("trace_file", "Path of the arrival trace file", "trace.txt")
)

// Config gathers everything needed to generate one arrival trace.
type Config struct {
	Kind     Kind
	Duration time.Duration
	Rate     int
	Seed     uint64
}

// DefaultConfig applies the trace settings from command line flags and
// environment variables. The distribution name is validated by the caller
// through ParseKind.
func DefaultConfig(kind Kind) Config {
	return Config{
		Kind:     kind,
		Duration: DurationFlag.Value(),
		Rate:     RateFlag.Value(),
		Seed:     uint64(SeedFlag.Value()),
	}
}

// Generate produces the arrival timestamps for one trace. It keeps a running
// clock starting at zero, emits the clock rounded to the nearest millisecond
// and advances it by a draw from the distribution, stopping once the clock
// reaches the configured duration. No emitted timestamp is ever >= duration.
func Generate(config Config) ([]int64, error) {
	dist, err := NewDistribution(config.Kind, config.Rate, config.Seed)
	if err != nil {
		return nil, err
	}

	durationMs := float64(config.Duration) / float64(time.Millisecond)

	// The termination check runs on the rounded value so that no emitted
	// timestamp ever reaches the configured duration.
	var arrivals []int64
	for clock := 0.0; math.Round(clock) < durationMs; clock += dist.Next() {
		arrivals = append(arrivals, int64(math.Round(clock)))
	}

	return arrivals, nil
}
