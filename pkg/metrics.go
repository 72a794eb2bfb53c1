package keyspace

// metrics.go mirrors the metricsSink abstraction from
// _examples/Voskan-arena-cache/pkg/metrics.go: an internal interface with a
// no-op default and a Prometheus-backed implementation, selected via a
// functional option (config.go) rather than hard-wired, so embedding
// applications pay nothing for metrics they don't register.
//
// © 2025 keyspace authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink receives lifecycle events for a single Keyspace instance. All
// calls must be cheap: they happen on the mutation path, never per-lookup.
type metricsSink interface {
	incBuild()
	incMutation(kind string)
	observeMigration(intervals int)
	setNodeCount(n int)
	setVersion(v uint64)
}

type noopMetrics struct{}

func (noopMetrics) incBuild()                     {}
func (noopMetrics) incMutation(string)            {}
func (noopMetrics) observeMigration(int)           {}
func (noopMetrics) setNodeCount(int)               {}
func (noopMetrics) setVersion(uint64)              {}

// promMetrics reports keyspace lifecycle events to a Prometheus registry,
// namespaced so multiple Keyspace instances sharing a registry (keyed by the
// name passed to WithMetrics) don't collide.
type promMetrics struct {
	builds      prometheus.Counter
	mutations   *prometheus.CounterVec
	migrationSz prometheus.Histogram
	nodeCount   prometheus.Gauge
	version     prometheus.Gauge
}

func newPromMetrics(reg prometheus.Registerer, name string) *promMetrics {
	labels := prometheus.Labels{"keyspace": name}
	m := &promMetrics{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "keyspace",
			Name:        "builds_total",
			Help:        "Number of full shard table (re)builds.",
			ConstLabels: labels,
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "keyspace",
			Name:        "mutations_total",
			Help:        "Number of node-set mutations, by kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		migrationSz: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "keyspace",
			Name:        "migration_intervals",
			Help:        "Number of pull intervals produced per mutation.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 10),
		}),
		nodeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "keyspace",
			Name:        "nodes",
			Help:        "Current number of nodes in the keyspace.",
			ConstLabels: labels,
		}),
		version: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "keyspace",
			Name:        "version",
			Help:        "Current keyspace version (monotonic mutation counter).",
			ConstLabels: labels,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.builds, m.mutations, m.migrationSz, m.nodeCount, m.version)
	}
	return m
}

func (m *promMetrics) incBuild()                     { m.builds.Inc() }
func (m *promMetrics) incMutation(kind string)        { m.mutations.WithLabelValues(kind).Inc() }
func (m *promMetrics) observeMigration(intervals int) { m.migrationSz.Observe(float64(intervals)) }
func (m *promMetrics) setNodeCount(n int)             { m.nodeCount.Set(float64(n)) }
func (m *promMetrics) setVersion(v uint64)            { m.version.Set(float64(v)) }
