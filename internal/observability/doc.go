// Package observability groups the logging, metrics and tracing used by the
// newsdesk binaries.
//
//   - logging: slog JSON/text loggers tagged with service and request id
//   - metrics: Prometheus collectors for feeds, drafts, OTP and mail
//   - tracing: OpenTelemetry spans for HTTP requests and draft runs
//
// A binary starts with logging.NewLogger("newsdesk-api"), wraps its mux in
// tracing.Middleware and records domain events through the metrics helpers, e.g.
// metrics.RecordDraftSaved("sports").
package observability
