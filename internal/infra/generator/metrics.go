package generator

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder records generator calls. Tests inject a fake.
type MetricsRecorder interface {
	RecordRequest(provider, outcome string, duration time.Duration)
}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

func registerOrExisting[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusMetrics returns the process-wide recorder, registering its
// collectors on first use.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "draft_generator_requests_total",
				Help: "Draft generator calls by provider and outcome",
			}, []string{"provider", "outcome"})),
			duration: registerOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "draft_generator_duration_seconds",
				Help:    "Time taken to generate a draft, retries included",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider"})),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRequest(provider, outcome string, duration time.Duration) {
	p.requests.WithLabelValues(provider, outcome).Inc()
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
}
