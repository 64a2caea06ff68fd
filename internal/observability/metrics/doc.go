// Package metrics holds the Prometheus collectors of the newsroom: HTTP
// request metrics, draft pipeline counters, OTP and mail outbox counters, and
// database pool gauges. Collectors are registered with the default registry
// and exposed on /metrics.
package metrics
