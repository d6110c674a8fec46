package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	classifyTotal    *prometheus.CounterVec
	classifyDuration *prometheus.HistogramVec
	classifyInFlight prometheus.Gauge
	buildProgress    *prometheus.GaugeVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	classifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nie",
			Subsystem: "worker",
			Name:      "classify_total",
			Help:      "Total queue-driven classifications by status.",
		},
		[]string{"service", "status"},
	)
	classifyDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nie",
			Subsystem: "worker",
			Name:      "classify_duration_seconds",
			Help:      "Queue classification duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	classifyInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nie",
			Subsystem: "worker",
			Name:      "classify_in_flight",
			Help:      "Number of in-flight queue classifications.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	buildProgress := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "nie",
			Subsystem: "index",
			Name:      "build_progress_ratio",
			Help:      "Index build completion ratio per stage, 0 to 1.",
		},
		[]string{"service", "stage"},
	)

	registry.MustRegister(classifyTotal, classifyDuration, classifyInFlight, buildProgress)

	return &WorkerMetrics{
		registry:         registry,
		classifyTotal:    classifyTotal,
		classifyDuration: classifyDuration,
		classifyInFlight: classifyInFlight,
		buildProgress:    buildProgress,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartClassification() {
	m.classifyInFlight.Inc()
}

func (m *WorkerMetrics) FinishClassification(service string, duration time.Duration, err error) {
	m.classifyInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.classifyTotal.WithLabelValues(service, status).Inc()
	m.classifyDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveBuildProgress(service, stage string, done, total int) {
	if total <= 0 {
		return
	}
	m.buildProgress.WithLabelValues(service, stage).Set(float64(done) / float64(total))
}
