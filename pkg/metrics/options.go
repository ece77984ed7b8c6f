package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager before its collectors are registered.
type Option func(*Manager)

// WithNamespace overrides the "bounty" metric namespace.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the "events" metric subsystem.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithOperationBuckets sets the millisecond buckets of the state transition
// latency histogram.
func WithOperationBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.operationBuckets = buckets
		}
	}
}

// WithHTTPBuckets sets the millisecond buckets of the request latency histogram.
func WithHTTPBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.httpBuckets = buckets
		}
	}
}

// WithStoreLabel stamps every collector with the record store driver.
func WithStoreLabel(driver string) Option {
	return func(m *Manager) {
		if driver != "" {
			m.constLabels = prometheus.Labels{"store": driver}
		}
	}
}

// WithPrometheusRegistry registers the collectors somewhere other than the
// package registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
