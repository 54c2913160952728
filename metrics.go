package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are shared by all workers; the collectors are goroutine-safe.
type Metrics struct {
	responses      *prometheus.CounterVec
	bodyBytes      prometheus.Counter
	decodeFailures prometheus.Counter
	errors         *prometheus.CounterVec
	active         prometheus.Gauge
	duration       prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		responses: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "simpleweb",
				Subsystem: "worker",
				Name:      "responses_total",
				Help:      "Responses written, by status and content type",
			},
			[]string{"status", "content_type"},
		),
		bodyBytes: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "simpleweb",
				Subsystem: "worker",
				Name:      "body_bytes_total",
				Help:      "Total response body bytes written",
			},
		),
		decodeFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "simpleweb",
				Subsystem: "worker",
				Name:      "image_decode_failures_total",
				Help:      "Image files that could not be decoded",
			},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "simpleweb",
				Subsystem: "worker",
				Name:      "errors_total",
				Help:      "Worker failures, by stage",
			},
			[]string{"stage"},
		),
		active: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "simpleweb",
				Subsystem: "worker",
				Name:      "active",
				Help:      "Connections currently being handled",
			},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "simpleweb",
				Subsystem: "worker",
				Name:      "duration_seconds",
				Help:      "Time from accept to close",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// The methods below accept a nil receiver so workers can run unmetered.

func (m *Metrics) responseWritten(status int, contentType string) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(strconv.Itoa(status), contentType).Inc()
}

func (m *Metrics) bodyWritten(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.bodyBytes.Add(float64(n))
}

func (m *Metrics) imageDecodeFailed() {
	if m == nil {
		return
	}
	m.decodeFailures.Inc()
}

func (m *Metrics) failed(stage string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(stage).Inc()
}

func (m *Metrics) workerStarted() {
	if m == nil {
		return
	}
	m.active.Inc()
}

func (m *Metrics) workerFinished(seconds float64) {
	if m == nil {
		return
	}
	m.active.Dec()
	m.duration.Observe(seconds)
}
