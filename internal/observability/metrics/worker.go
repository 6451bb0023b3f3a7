package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics instruments the scan worker: throughput, durations and
// how long documents sat in the queue before a worker picked them up.
type WorkerMetrics struct {
	registry *prometheus.Registry

	scanTotal           *prometheus.CounterVec
	scanDuration        *prometheus.HistogramVec
	scanInFlight        prometheus.Gauge
	queueLag            *prometheus.HistogramVec
	classifiedTotal     *prometheus.CounterVec
	validationFailTotal *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	scanTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invscan",
			Subsystem: "worker",
			Name:      "scan_total",
			Help:      "Total scanned documents by status.",
		},
		[]string{"service", "status"},
	)
	scanDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "invscan",
			Subsystem: "worker",
			Name:      "scan_duration_seconds",
			Help:      "Scan pipeline duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	scanInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "invscan",
			Subsystem: "worker",
			Name:      "scan_in_flight",
			Help:      "Number of in-flight scan pipelines.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "invscan",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and scan start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	classifiedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invscan",
			Subsystem: "worker",
			Name:      "classified_total",
			Help:      "Total classified documents by detected type.",
		},
		[]string{"service", "doc_type"},
	)
	validationFailTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invscan",
			Subsystem: "worker",
			Name:      "validation_failures_total",
			Help:      "Total scans whose arithmetic or tax-id checks failed.",
		},
		[]string{"service"},
	)

	registry.MustRegister(scanTotal, scanDuration, scanInFlight, queueLag, classifiedTotal, validationFailTotal)

	return &WorkerMetrics{
		registry:            registry,
		scanTotal:           scanTotal,
		scanDuration:        scanDuration,
		scanInFlight:        scanInFlight,
		queueLag:            queueLag,
		classifiedTotal:     classifiedTotal,
		validationFailTotal: validationFailTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartScan() {
	m.scanInFlight.Inc()
}

func (m *WorkerMetrics) FinishScan(service string, duration time.Duration, err error) {
	m.scanInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.scanTotal.WithLabelValues(service, status).Inc()
	m.scanDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordClassification(service, docType string) {
	if docType == "" {
		docType = "unknown"
	}
	m.classifiedTotal.WithLabelValues(service, docType).Inc()
}

func (m *WorkerMetrics) RecordValidationFailure(service string) {
	m.validationFailTotal.WithLabelValues(service).Inc()
}
