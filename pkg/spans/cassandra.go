package spans

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"tracebench/pkg/conf"
)

var (
	cassandraAddress           = conf.NewStringFlag("cassandra_addr", "Address of the Cassandra endpoint backing the tracing backend", "127.0.0.1")
	cassandraPort              = conf.NewIntFlag("cassandra_port", "Port of the Cassandra endpoint", 9042)
	cassandraKeyspace          = conf.NewStringFlag("cassandra_keyspace", "Keyspace holding the tracing backend tables", "jaeger_v1_dc1")
	cassandraUsername          = conf.NewStringFlag("cassandra_username", "Cassandra username", "")
	cassandraPassword          = conf.NewStringFlag("cassandra_password", "Cassandra password", "")
	cassandraConnectionTimeout = conf.NewDurationFlag("cassandra_connection_timeout", "Cassandra connection timeout", 10*time.Second)
	cassandraTimeout           = conf.NewDurationFlag("cassandra_timeout", "Cassandra query timeout", 30*time.Second)
)

// selectStartTimes selects spans of a service/operation pair that started
// after the given bound, from the index Jaeger maintains in its Cassandra schema.
const selectStartTimes = `SELECT start_time FROM service_operation_index ` +
	`WHERE service_name = ? AND operation_name = ? AND start_time > ?`

// CassandraConfig encodes the settings for connecting to the Cassandra storage
// of the tracing backend.
type CassandraConfig struct {
	Address           string
	Port              int
	Keyspace          string
	Username          string
	Password          string
	ConnectionTimeout time.Duration
	Timeout           time.Duration
}

// DefaultCassandraConfig applies the Cassandra settings from command line
// flags and environment variables.
func DefaultCassandraConfig() CassandraConfig {
	return CassandraConfig{
		Address:           cassandraAddress.Value(),
		Port:              cassandraPort.Value(),
		Keyspace:          cassandraKeyspace.Value(),
		Username:          cassandraUsername.Value(),
		Password:          cassandraPassword.Value(),
		ConnectionTimeout: cassandraConnectionTimeout.Value(),
		Timeout:           cassandraTimeout.Value(),
	}
}

// CassandraReader reads span start times from Jaeger's Cassandra storage.
type CassandraReader struct {
	session *gocql.Session
}

func getClusterConfig(config CassandraConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(config.Address)
	cluster.Port = config.Port
	cluster.Keyspace = config.Keyspace
	cluster.ProtoVersion = 4
	cluster.Consistency = gocql.LocalOne
	cluster.ConnectTimeout = config.ConnectionTimeout
	cluster.Timeout = config.Timeout

	if config.Username != "" && config.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	return cluster
}

// NewCassandraReader creates a session to the Cassandra cluster and returns a
// Reader over the tracing backend's span index.
func NewCassandraReader(config CassandraConfig) (*CassandraReader, error) {
	session, err := getClusterConfig(config).CreateSession()
	if err != nil {
		return nil, errors.Wrapf(ErrQuery, "cannot connect to Cassandra at %s: %v", config.Address, err)
	}

	return &CassandraReader{session: session}, nil
}

// StartTimes returns the microsecond start times of all matching spans.
func (r *CassandraReader) StartTimes(ctx context.Context, service, operation string, startAfter int64) ([]int64, error) {
	log.Debugf("querying Cassandra for spans of %s/%s after %d", service, operation, startAfter)

	var startTimes []int64
	var startTime int64

	iter := r.session.Query(selectStartTimes, service, operation, startAfter).WithContext(ctx).Iter()
	for iter.Scan(&startTime) {
		startTimes = append(startTimes, startTime)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(ErrQuery, "selecting span start times: %v", err)
	}

	return startTimes, nil
}

// Close shuts down the underlying Cassandra session.
func (r *CassandraReader) Close() {
	if !r.session.Closed() {
		r.session.Close()
	}
}
