package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_auth_requests_total",
			Help: "Admin token checks by result",
		},
		[]string{"result"}, // success | failure
	)

	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_auth_forbidden_total",
			Help: "Requests with a valid token but a non-admin role",
		},
		[]string{"method"},
	)
)

// RecordAuthRequest records an admin token check.
func RecordAuthRequest(result string) {
	authRequestsTotal.WithLabelValues(result).Inc()
}

// RecordForbiddenAttempt records a forbidden access attempt.
func RecordForbiddenAttempt(method string) {
	forbiddenAttempts.WithLabelValues(method).Inc()
}
