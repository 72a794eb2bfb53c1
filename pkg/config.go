package keyspace

// config.go implements the functional-options configuration pattern used
// throughout, mirroring _examples/Voskan-arena-cache/pkg/config.go: a
// private config struct, an Option func(*config) type, a defaultConfig, and
// an applyOptions step that validates after every option has run.
//
// © 2025 keyspace authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type config[ID comparable] struct {
	rf       int
	strategy ReplicationStrategy[ID]
	logger   *zap.Logger
	metrics  metricsSink
}

// Option configures a Keyspace at construction time.
type Option[ID comparable] func(*config[ID])

// WithReplicationFactor sets the number of replicas each shard must have.
// Optional; the default is 3. New fails if the final value is <= 0.
func WithReplicationFactor[ID comparable](rf int) Option[ID] {
	return func(c *config[ID]) { c.rf = rf }
}

// WithReplicationStrategy overrides the default admission policy (accept
// every HRW-ordered candidate) with a custom ReplicationStrategy, e.g.
// NewZoneAwareStrategy.
func WithReplicationStrategy[ID comparable](s ReplicationStrategy[ID]) Option[ID] {
	return func(c *config[ID]) { c.strategy = s }
}

// WithLogger attaches a zap logger. Keyspace logs completed mutations
// (add/remove/update, with timing and resulting version) at Debug,
// and unexpected internal invariant violations at Error; it never logs on
// the read path. The default is zap.NewNop(), so embedding applications
// that don't configure one pay no logging cost at all.
func WithLogger[ID comparable](logger *zap.Logger) Option[ID] {
	return func(c *config[ID]) { c.logger = logger }
}

// WithMetrics enables Prometheus reporting under the given registry, with
// every metric labeled `keyspace=name`. The default is a no-op sink.
func WithMetrics[ID comparable](reg prometheus.Registerer, name string) Option[ID] {
	return func(c *config[ID]) { c.metrics = newPromMetrics(reg, name) }
}

// defaultReplicationFactor is the replication factor a Keyspace builds with
// when the caller never calls WithReplicationFactor, per spec.
const defaultReplicationFactor = 3

func defaultConfig[ID comparable]() *config[ID] {
	return &config[ID]{
		rf:       defaultReplicationFactor,
		strategy: DefaultReplicationStrategy[ID]{},
		logger:   zap.NewNop(),
		metrics:  noopMetrics{},
	}
}

func applyOptions[ID comparable](opts []Option[ID]) (*config[ID], error) {
	c := defaultConfig[ID]()
	for _, opt := range opts {
		opt(c)
	}
	if c.rf <= 0 {
		return nil, errInvalidReplicationFactorFor(c.rf)
	}
	return c, nil
}
