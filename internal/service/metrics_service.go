package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer
// and the export pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	exportTotal     *prometheus.CounterVec
	exportDuration  *prometheus.HistogramVec
	exportRows      *prometheus.GaugeVec
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	exportTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exports_total",
		Help: "Total number of generated exports",
	}, []string{"format"})

	exportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "export_duration_seconds",
		Help:    "Duration of the aggregate-and-serialize pipeline",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"format"})

	exportRows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "export_rows",
		Help: "Row count of the most recent export",
	}, []string{"format"})

	registry.MustRegister(requestDuration, requestTotal, exportTotal, exportDuration, exportRows)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		exportTotal:     exportTotal,
		exportDuration:  exportDuration,
		exportRows:      exportRows,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// ObserveExport records one completed export generation.
func (m *MetricsService) ObserveExport(format string, rows int, duration time.Duration) {
	m.exportTotal.WithLabelValues(format).Inc()
	m.exportDuration.WithLabelValues(format).Observe(duration.Seconds())
	m.exportRows.WithLabelValues(format).Set(float64(rows))
}
