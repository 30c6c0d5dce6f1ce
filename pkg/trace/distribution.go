package trace

import (
	"time"

	"github.com/pkg/errors"
	"pgregory.net/rand"
)

// Kind selects the inter-arrival model for generated traces.
type Kind string

const (
	// KindConst spaces arrivals by exactly the mean interval.
	KindConst Kind = "const"
	// KindUniform draws gaps uniformly from [0, 2*interval), keeping the target rate in expectation.
	KindUniform Kind = "uniform"
	// KindExp draws gaps from an exponential distribution with the interval as mean,
	// modelling a Poisson arrival process.
	KindExp Kind = "exp"
)

// ErrUnknownDistribution is returned when a distribution name does not match any
// supported kind. There is no default kind.
var ErrUnknownDistribution = errors.New("unknown distribution kind")

// ParseKind validates a distribution name given on the command line.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindConst, KindUniform, KindExp:
		return Kind(name), nil
	}
	return "", errors.Wrapf(ErrUnknownDistribution, "%q (expected one of: const, uniform, exp)", name)
}

// Distribution produces inter-arrival gaps in milliseconds for a configured kind and rate.
type Distribution struct {
	kind     Kind
	interval float64
	rng      *rand.Rand
}

// NewDistribution returns a Distribution with interval = 1000/rate milliseconds.
// Seed 0 derives the seed from the current time, matching the historical behaviour
// of unseeded runs. Any other seed makes draws fully reproducible.
func NewDistribution(kind Kind, ratePerSec int, seed uint64) (*Distribution, error) {
	if ratePerSec <= 0 {
		return nil, errors.Errorf("rate must be positive, got %d", ratePerSec)
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Distribution{
		kind:     kind,
		interval: 1000.0 / float64(ratePerSec),
		rng:      rand.New(seed),
	}, nil
}

// Interval returns the mean inter-arrival gap in milliseconds.
func (d *Distribution) Interval() float64 {
	return d.interval
}

// Next returns the gap to the next arrival in milliseconds.
func (d *Distribution) Next() float64 {
	switch d.kind {
	case KindUniform:
		return d.rng.Float64() * 2 * d.interval
	case KindExp:
		return d.rng.ExpFloat64() * d.interval
	default:
		return d.interval
	}
}
