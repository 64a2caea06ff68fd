// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Draft pipeline metrics
var (
	// FeedLinksFetched counts links returned by the link fetcher per source
	FeedLinksFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_feed_links_total",
			Help: "Links read from source feeds",
		},
		[]string{"source"},
	)

	// FeedFetchFailures counts sources whose feed could not be read
	FeedFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_feed_failures_total",
			Help: "Feed fetch failures by source",
		},
		[]string{"source"},
	)

	// ScrapeOutcomes counts page scrapes by outcome (ok, insufficient, fetch_error)
	ScrapeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_scrapes_total",
			Help: "Article page scrapes by outcome",
		},
		[]string{"outcome"},
	)

	// DraftsGenerated counts generator results by outcome (ok, sentinel)
	DraftsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_generations_total",
			Help: "Draft generations by outcome",
		},
		[]string{"outcome"},
	)

	// DraftsSaved counts drafts persisted per category
	DraftsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_articles_saved_total",
			Help: "Draft articles persisted by category",
		},
		[]string{"category"},
	)

	// DraftRunDuration measures one full orchestrator run
	DraftRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "draft_run_duration_seconds",
			Help:    "Duration of a full draft pipeline run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
	)
)

// OTP and mail metrics
var (
	// OTPSent counts OTP issue attempts by result (issued, rate_limited, rejected)
	OTPSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_send_total",
			Help: "OTP send requests by result",
		},
		[]string{"result"},
	)

	// OTPVerified counts verification outcomes
	OTPVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verify_total",
			Help: "OTP verifications by outcome",
		},
		[]string{"outcome"},
	)

	// MailDeliveries counts outbox deliveries by result (sent, retry, failed)
	MailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_outbox_deliveries_total",
			Help: "Mail outbox delivery attempts by result",
		},
		[]string{"result"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks in-use database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
