package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubmissionEvent is published on every submission status transition so
// downstream consumers (dashboards, notifiers) can react without polling.
type SubmissionEvent struct {
	TeamID     uint      `json:"team_id"`
	TeamName   string    `json:"team_name"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher emits submission lifecycle events. Implementations must be
// fire-and-forget: publish failures are logged, never surfaced to callers.
type EventPublisher interface {
	PublishStatus(ctx context.Context, teamID uint, teamName, status string)
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewEventPublisher wraps a NATS connection. A nil connection yields a
// publisher that silently drops events, so the pipeline runs without a
// broker in development.
func NewEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	if subject == "" {
		subject = "hackeval.submissions"
	}

	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) PublishStatus(_ context.Context, teamID uint, teamName, status string) {
	if p.conn == nil {
		return
	}

	event := SubmissionEvent{
		TeamID:     teamID,
		TeamName:   teamName,
		Status:     status,
		OccurredAt: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to encode submission event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", p.subject).Msg("failed to publish submission event")
	}
}
