// Package spans reads span start times back from the tracing backend that the
// load generator reported into. The backend is read-only from this side: one
// parameterized query per benchmark run, filtered by service name, operation
// name and a lower start-time bound.
package spans

import (
	"context"

	"github.com/pkg/errors"

	"tracebench/pkg/conf"
)

var (
	// BackendFlag selects which tracing backend storage the spans are read from.
	BackendFlag = conf.NewStringFlag("span_backend", "Tracing backend storage to query: cassandra or elasticsearch", "cassandra")
	// ServiceFlag is the service name the spans are filtered by.
	ServiceFlag = conf.NewStringFlag("service_name", "Service name to select spans of", "nginx-web-server")
	// OperationFlag is the operation name the spans are filtered by.
	OperationFlag = conf.NewStringFlag("operation_name", "Operation name to select spans of", "CalledComposePost")
)

// ErrQuery is returned when the tracing backend cannot be reached or the span
// query fails. It is fatal to the benchmark run.
var ErrQuery = errors.New("tracing backend query failed")

// Reader fetches start times of spans matching a service and operation which
// started strictly after startAfter. Times are in the backend's native unit,
// microseconds since the Unix epoch.
type Reader interface {
	StartTimes(ctx context.Context, service, operation string, startAfter int64) ([]int64, error)
}

// NewReader constructs the Reader selected by the span_backend flag.
// An unrecognized backend name is a configuration error.
func NewReader() (Reader, error) {
	return newReaderFor(BackendFlag.Value())
}

func newReaderFor(backend string) (Reader, error) {
	switch backend {
	case "cassandra":
		return NewCassandraReader(DefaultCassandraConfig())
	case "elasticsearch":
		return NewElasticsearchReader(DefaultElasticsearchConfig())
	}
	return nil, errors.Errorf("unknown span backend %q (expected one of: cassandra, elasticsearch)", backend)
}
