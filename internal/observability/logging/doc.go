// Package logging provides structured logging utilities with context propagation.
//
//	logger := logging.NewLogger("newsdesk-api")
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("processing request")
//	}
package logging
