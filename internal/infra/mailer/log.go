package mailer

import (
	"context"
	"log/slog"
)

// Log records messages in the application log instead of sending them.
// Used when SMTP is not configured, e.g. in local development.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, to, subject, body string) error {
	l.logger.InfoContext(ctx, "email not sent (log mailer)",
		slog.String("to", to),
		slog.String("subject", subject))
	l.logger.DebugContext(ctx, "email body", slog.String("body", body))
	return nil
}
