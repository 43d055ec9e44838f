// Package metrics provides Prometheus metrics for the AadhaarIQ service.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	rateLimited      *prometheus.CounterVec
	insightsTotal    *prometheus.CounterVec
	insightDuration  prometheus.Histogram
	reloadsTotal     *prometheus.CounterVec
	datasetStates    prometheus.Gauge
	datasetDistricts prometheus.Gauge
	datasetLoadedAt  prometheus.Gauge
	healthStatus     prometheus.Gauge
}

var (
	globalMetrics *Metrics
	once          sync.Once
)

// NewMetrics creates and registers the collectors once per process.
func NewMetrics() *Metrics {
	once.Do(func() {
		globalMetrics = &Metrics{
			requestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "aadhaariq_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			requestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "aadhaariq_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
				},
				[]string{"method", "path", "status"},
			),
			requestsInFlight: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "aadhaariq_http_requests_in_flight",
					Help: "Number of HTTP requests currently being processed",
				},
			),
			rateLimited: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "aadhaariq_rate_limited_total",
					Help: "Requests rejected by the per-client rate limiter",
				},
				[]string{"path"},
			),
			insightsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "aadhaariq_insights_total",
					Help: "Insight requests by audience and outcome (generated, cached, fallback)",
				},
				[]string{"audience", "outcome"},
			),
			insightDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "aadhaariq_insight_generation_seconds",
					Help:    "Time spent in the language model per insight",
					Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
				},
			),
			reloadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "aadhaariq_dataset_reloads_total",
					Help: "Dataset reload attempts by result",
				},
				[]string{"result"},
			),
			datasetStates: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "aadhaariq_dataset_states",
					Help: "States in the loaded dataset",
				},
			),
			datasetDistricts: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "aadhaariq_dataset_districts",
					Help: "Districts in the loaded dataset",
				},
			),
			datasetLoadedAt: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "aadhaariq_dataset_loaded_timestamp_seconds",
					Help: "Unix time of the last successful dataset load",
				},
			),
			healthStatus: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "aadhaariq_health_status",
					Help: "Health status of the service (1 = healthy, 0 = unhealthy)",
				},
			),
		}
	})
	return globalMetrics
}

// RecordHTTPRequest records metrics for an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func (m *Metrics) IncRequestsInFlight() {
	m.requestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.requestsInFlight.Dec()
}

func (m *Metrics) RecordRateLimited(path string) {
	m.rateLimited.WithLabelValues(path).Inc()
}

// RecordInsight counts an insight request. duration is only observed for
// calls that reached the model.
func (m *Metrics) RecordInsight(audience, outcome string, duration time.Duration) {
	m.insightsTotal.WithLabelValues(audience, outcome).Inc()
	if duration > 0 {
		m.insightDuration.Observe(duration.Seconds())
	}
}

// RecordReload records a dataset reload. states and districts are ignored
// when err is non-nil.
func (m *Metrics) RecordReload(states, districts int, at time.Time, err error) {
	if err != nil {
		m.reloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.reloadsTotal.WithLabelValues("success").Inc()
	m.datasetStates.Set(float64(states))
	m.datasetDistricts.Set(float64(districts))
	m.datasetLoadedAt.Set(float64(at.Unix()))
}

func (m *Metrics) SetHealthStatus(healthy bool) {
	if healthy {
		m.healthStatus.Set(1)
	} else {
		m.healthStatus.Set(0)
	}
}
