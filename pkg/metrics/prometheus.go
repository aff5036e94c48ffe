// Package metrics provides Prometheus metrics for the folio content renderer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Renderer metrics
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration *prometheus.HistogramVec
	fragmentsRendered   *prometheus.CounterVec
	datasetErrors       *prometheus.CounterVec
	renderPasses        prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // exported through GetRegistry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "folio",
		subsystem:        "renderer",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_loads_total",
		Help:        "Dataset load attempts by outcome",
		ConstLabels: m.constLabels,
	}, []string{"dataset", "status"})

	m.datasetLoadDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_duration_milliseconds",
		Help:        "Time from fetch start to last fragment appended",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.fragmentsRendered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fragments_rendered_total",
		Help:        "Fragments appended to page containers",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.datasetErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_errors_total",
		Help:        "Dataset load failures by error kind",
		ConstLabels: m.constLabels,
	}, []string{"dataset", "kind"})

	m.renderPasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "render_passes_total",
		Help:        "Full page render passes",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_bytes",
		Help:        "Heap bytes currently allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutines",
		Help:        "Number of live goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordDatasetLoad counts one load attempt for dataset with status "ok" or "error".
func (m *Manager) RecordDatasetLoad(dataset, status string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.datasetLoads.WithLabelValues(dataset, status).Inc()
	m.datasetLoadDuration.WithLabelValues(dataset).Observe(durationMs)
}

// RecordFragments adds n rendered fragments for dataset.
func (m *Manager) RecordFragments(dataset string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.fragmentsRendered.WithLabelValues(dataset).Add(float64(n))
}

// RecordDatasetError counts a failure of the given kind.
func (m *Manager) RecordDatasetError(dataset, kind string) {
	if !m.enabled {
		return
	}
	m.datasetErrors.WithLabelValues(dataset, kind).Inc()
}

// RecordRenderPass counts one full page pass.
func (m *Manager) RecordRenderPass() {
	if !m.enabled {
		return
	}
	m.renderPasses.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystem sets the memory and goroutine gauges.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// RecordDatasetLoad records a load on the global manager.
func RecordDatasetLoad(dataset, status string, durationMs float64) {
	globalManager.RecordDatasetLoad(dataset, status, durationMs)
}

// RecordFragments records rendered fragments on the global manager.
func RecordFragments(dataset string, n int) {
	globalManager.RecordFragments(dataset, n)
}

// RecordDatasetError records a dataset failure on the global manager.
func RecordDatasetError(dataset, kind string) {
	globalManager.RecordDatasetError(dataset, kind)
}

// RecordRenderPass records a render pass on the global manager.
func RecordRenderPass() {
	globalManager.RecordRenderPass()
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateSystem refreshes system gauges on the global manager.
func UpdateSystem(memBytes uint64, goroutines int) {
	globalManager.UpdateSystem(memBytes, goroutines)
}

// Init replaces the global manager and registry, e.g. to apply a configured
// namespace. It must run before any handler captures the registry.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
