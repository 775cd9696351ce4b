package service

import (
	"context"

	"github.com/rs/zerolog"
)

// MailDelivery sends transactional mail to participants. The default
// provider only logs; a real SMTP provider can be swapped in without
// touching callers.
type MailDelivery interface {
	Deliver(ctx context.Context, to, subject, body string) error
}

// LogMailDelivery is a basic provider that logs outgoing mail.
type LogMailDelivery struct {
	logger zerolog.Logger
}

// NewLogMailDelivery constructs a logging provider.
func NewLogMailDelivery(logger zerolog.Logger) *LogMailDelivery {
	return &LogMailDelivery{logger: logger.With().Str("component", "mail_delivery").Logger()}
}

// Deliver logs the mail and returns nil to indicate success.
func (l *LogMailDelivery) Deliver(ctx context.Context, to, subject, body string) error {
	l.logger.Info().Str("to", to).Str("subject", subject).Msg("mail delivered to outbox")
	return nil
}
