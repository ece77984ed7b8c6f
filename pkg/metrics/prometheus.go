// Package metrics provides Prometheus metrics for the bounty service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	operationBuckets []float64
	httpBuckets      []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Lifecycle
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	rejections        *prometheus.CounterVec

	// Ledger and leaderboard
	issuesResolved   prometheus.Counter
	pointsCredited   prometheus.Counter
	valueDeposited   prometheus.Counter
	snapshotsCreated prometheus.Counter
	payouts          *prometheus.CounterVec
	payoutValue      *prometheus.CounterVec
	collectibles     prometheus.Counter
	trackedEvents    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global manager setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bounty",
		subsystem:        "events",
		operationBuckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		httpBuckets:      []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.operations = auto.NewCounterVec(
		m.counterOpts("operations_total", "State transitions attempted, by operation and outcome"),
		[]string{"operation", "outcome"},
	)
	m.operationDuration = auto.NewHistogramVec(
		m.histogramOpts("operation_duration_milliseconds", "Time spent inside a state transition", m.operationBuckets),
		[]string{"operation"},
	)
	m.rejections = auto.NewCounterVec(
		m.counterOpts("rejections_total", "Rejected requests by error kind"),
		[]string{"operation", "kind"},
	)

	m.issuesResolved = auto.NewCounter(m.counterOpts("issues_resolved_total", "Issues transitioned to resolved"))
	m.pointsCredited = auto.NewCounter(m.counterOpts("points_credited_total", "Points credited to leaderboards"))
	m.valueDeposited = auto.NewCounter(m.counterOpts("value_deposited_total", "Value moved into reward vaults"))
	m.snapshotsCreated = auto.NewCounter(m.counterOpts("winner_snapshots_total", "Winner snapshots created"))
	m.payouts = auto.NewCounterVec(
		m.counterOpts("payouts_total", "Successful claims by rank"),
		[]string{"rank"},
	)
	m.payoutValue = auto.NewCounterVec(
		m.counterOpts("payout_value_total", "Value paid out of reward vaults by rank"),
		[]string{"rank"},
	)
	m.collectibles = auto.NewCounter(m.counterOpts("collectibles_awarded_total", "Collectible units awarded to winners"))
	m.trackedEvents = auto.NewGauge(m.gaugeOpts("tracked_events", "Events touched since process start"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.httpBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Live goroutines"))
}

// RecordOperation counts one state transition attempt.
func (m *Manager) RecordOperation(operation, outcome string, durationMs float64) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(durationMs)
}

// RecordRejection counts a rejected request by its error kind.
func (m *Manager) RecordRejection(operation, kind string) {
	m.rejections.WithLabelValues(operation, kind).Inc()
}

// RecordOperation counts one state transition attempt on the global manager.
func RecordOperation(operation, outcome string, durationMs float64) {
	globalManager.RecordOperation(operation, outcome, durationMs)
}

// RecordRejection counts a rejected request on the global manager.
func RecordRejection(operation, kind string) {
	globalManager.RecordRejection(operation, kind)
}

// RecordIssueResolved counts a resolution and the points it credited.
func RecordIssueResolved(points uint64) {
	globalManager.issuesResolved.Inc()
	globalManager.pointsCredited.Add(float64(points))
}

// RecordDeposit adds value moved into a vault.
func RecordDeposit(amount uint64) {
	globalManager.valueDeposited.Add(float64(amount))
}

// RecordSnapshot counts a created winner snapshot.
func RecordSnapshot() {
	globalManager.snapshotsCreated.Inc()
}

// RecordPayout counts a paid claim for a rank label.
func RecordPayout(rank string, amount uint64) {
	globalManager.payouts.WithLabelValues(rank).Inc()
	globalManager.payoutValue.WithLabelValues(rank).Add(float64(amount))
}

// RecordCollectibleAwarded counts a collectible transferred to a winner.
func RecordCollectibleAwarded() {
	globalManager.collectibles.Inc()
}

// UpdateTrackedEvents sets the number of events with a live lock.
func UpdateTrackedEvents(count int) {
	globalManager.trackedEvents.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
