package mail

import (
	"context"
	"log/slog"
)

// LogMailer logs outgoing mail instead of delivering it. Used in local
// workflows where SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	slog.InfoContext(ctx, "mail (not delivered: smtp unconfigured)",
		"to", to,
		"subject", subject,
		"bytes", len(body),
	)
	return nil
}
