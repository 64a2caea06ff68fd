package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsdesk/internal/pkg/config"
)

// WorkerMetrics adds per-job run metrics to the worker_config_* set.
// Job labels are "drafts" and "outbox".
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   *prometheus.HistogramVec
	JobLastSuccess       *prometheus.GaugeVec
	DraftsSavedTotal     prometheus.Counter
	OutboxDeliveredTotal prometheus.Counter
}

// NewWorkerMetrics registers the worker metrics with the default registry.
// Call it once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return newWorkerMetrics(config.NewConfigMetrics("worker"), promauto.With(prometheus.DefaultRegisterer))
}

func newWorkerMetrics(cm *config.ConfigMetrics, f promauto.Factory) *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: cm,
		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Scheduled job runs by job and status",
		}, []string{"job", "status"}),
		JobDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Scheduled job duration in seconds",
			Buckets: []float64{0.1, 1, 5, 30, 60, 300, 900, 1800},
		}, []string{"job"}),
		JobLastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run per job",
		}, []string{"job"}),
		DraftsSavedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "worker_drafts_saved_total",
			Help: "Drafts saved by scheduled runs",
		}),
		OutboxDeliveredTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "worker_outbox_delivered_total",
			Help: "Outbox messages delivered by the reconciler",
		}),
	}
}

// RecordJob records one run of job. A failed run does not move the last
// success timestamp.
func (m *WorkerMetrics) RecordJob(job string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
	if err == nil {
		m.JobLastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
}

func (m *WorkerMetrics) RecordDraftsSaved(n int) { m.DraftsSavedTotal.Add(float64(n)) }

func (m *WorkerMetrics) RecordOutboxDelivered(n int) { m.OutboxDeliveredTotal.Add(float64(n)) }
