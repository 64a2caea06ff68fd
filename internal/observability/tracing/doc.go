// Package tracing wires OpenTelemetry spans into newsdesk: a server span per
// HTTP request and named spans for background work such as draft runs.
//
//	ctx, span := tracing.Start(ctx, "draft.run")
//	defer span.End()
//
// Without a configured TracerProvider the global no-op provider is used and
// spans cost next to nothing.
package tracing
