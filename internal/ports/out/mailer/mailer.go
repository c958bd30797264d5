package mailer

import "context"

// Mailer delivers plain-text email. Delivery is fire-and-forget at the
// application layer: send failures are logged, never propagated to the
// request that triggered them.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
