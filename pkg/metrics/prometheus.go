// Package metrics provides Prometheus metrics for the ballot service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// insightLatencyBuckets covers a fast cached reply up to a slow model call.
var insightLatencyBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000} //nolint:gochecknoglobals // fixed bucket layout

// httpLatencyBuckets are milliseconds for in-process handlers.
var httpLatencyBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the ballot service.
type Manager struct {
	namespace    string
	subsystem    string
	customLabels map[string]string
	registry     prometheus.Registerer

	// Election
	ballotsSubmitted prometheus.Counter
	votesByOffice    *prometheus.CounterVec
	abstentions      *prometheus.CounterVec
	simulatedVotes   prometheus.Counter
	rosterSize       prometheus.Gauge
	totalVotes       prometheus.Gauge
	electionResets   prometheus.Counter
	rosterChanges    *prometheus.CounterVec

	// Insight requests
	insightRequests *prometheus.CounterVec
	insightLatency  prometheus.Histogram

	// Storage
	storageErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure rebuilds the global manager with opts on a fresh registry.
// Call it once at startup, before handlers or workers record anything.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	customRegistry = reg
	globalManager = NewManager(append(opts, WithPrometheusRegistry(reg))...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "ballot",
		subsystem:    "election",
		customLabels: make(map[string]string),
		registry:     prometheus.DefaultRegisterer,
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
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.ballotsSubmitted = auto.NewCounter(m.counterOpts("ballots_submitted_total",
		"Total number of confirmed ballots"))
	m.votesByOffice = auto.NewCounterVec(m.counterOpts("votes_total",
		"Votes applied by office"), []string{"office"})
	m.abstentions = auto.NewCounterVec(m.counterOpts("abstentions_total",
		"Abstentions recorded on confirmed ballots by office"), []string{"office"})
	m.simulatedVotes = auto.NewCounter(m.counterOpts("simulated_votes_total",
		"Votes added by the traffic simulator"))
	m.rosterSize = auto.NewGauge(m.gaugeOpts("roster_size",
		"Current number of candidates"))
	m.totalVotes = auto.NewGauge(m.gaugeOpts("vote_counter_sum",
		"Sum of all candidate vote counters"))
	m.electionResets = auto.NewCounter(m.counterOpts("resets_total",
		"Number of full election resets"))
	m.rosterChanges = auto.NewCounterVec(m.counterOpts("roster_changes_total",
		"Roster administration actions by kind"), []string{"action"})

	m.insightRequests = auto.NewCounterVec(m.counterOpts("insight_requests_total",
		"Insight requests by outcome"), []string{"outcome"})
	m.insightLatency = auto.NewHistogram(m.histogramOpts("insight_latency_milliseconds",
		"Latency of calls to the text generation service", insightLatencyBuckets))

	m.storageErrors = auto.NewCounterVec(m.counterOpts("storage_errors_total",
		"Blob storage failures by operation"), []string{"op"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", httpLatencyBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("http_errors_total",
		"HTTP error responses by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"Average GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordBallotSubmitted increments the confirmed ballot counter.
func RecordBallotSubmitted() {
	globalManager.ballotsSubmitted.Inc()
}

// RecordVote counts one applied vote for office.
func RecordVote(office string) {
	globalManager.votesByOffice.WithLabelValues(office).Inc()
}

// RecordAbstention counts one abstention for office.
func RecordAbstention(office string) {
	globalManager.abstentions.WithLabelValues(office).Inc()
}

// RecordSimulatedVote counts a vote added by the simulator.
func RecordSimulatedVote() {
	globalManager.simulatedVotes.Inc()
}

// UpdateRosterSize sets the candidate count.
func UpdateRosterSize(n int) {
	globalManager.rosterSize.Set(float64(n))
}

// UpdateTotalVotes sets the vote counter sum.
func UpdateTotalVotes(n int) {
	globalManager.totalVotes.Set(float64(n))
}

// RecordElectionReset counts a full reset.
func RecordElectionReset() {
	globalManager.electionResets.Inc()
}

// RecordRosterChange counts an admin action: add, rename or remove.
func RecordRosterChange(action string) {
	globalManager.rosterChanges.WithLabelValues(action).Inc()
}

// RecordInsightRequest counts an insight request by outcome, e.g. "ok",
// "empty", "error", "busy".
func RecordInsightRequest(outcome string) {
	globalManager.insightRequests.WithLabelValues(outcome).Inc()
}

// RecordInsightLatency observes one call to the generation service.
func RecordInsightLatency(ms float64) {
	globalManager.insightLatency.Observe(ms)
}

// RecordStorageError counts a failed blob operation.
func RecordStorageError(op string) {
	globalManager.storageErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
