package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/observability"
	"github.com/codoraai/hackeval-api/pkg/evaluator"
)

var (
	// ErrInvalidSignature indicates the webhook shared secret did not match.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMissingWebhookFields indicates a webhook payload without the leader
	// email or analysis body.
	ErrMissingWebhookFields = errors.New("leaderEmail and analysis are required")
)

// ReceiveWebhook reconciles an asynchronous evaluation result delivered by
// the evaluator callback. The caller is identified by a shared-secret
// signature; the target team is resolved through the leader email carried in
// the payload. Processing is idempotent: a repeated delivery re-applies the
// same result and the asset delete tolerates an already-gone object.
func (s *submissionService) ReceiveWebhook(ctx context.Context, payload dto.WebhookRequest) error {
	if subtle.ConstantTimeCompare([]byte(payload.Signature), []byte(s.webhookSecret)) != 1 {
		observability.WebhookResults().WithLabelValues("unauthorized").Inc()
		return ErrInvalidSignature
	}

	if payload.LeaderEmail == "" || len(payload.Analysis) == 0 {
		observability.WebhookResults().WithLabelValues("bad_request").Inc()
		return ErrMissingWebhookFields
	}

	team, err := s.teams.GetByLeaderEmail(ctx, payload.LeaderEmail)
	if err != nil {
		observability.WebhookResults().WithLabelValues("team_not_found").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	submission, err := s.submissions.GetByTeamID(ctx, team.ID)
	if err != nil {
		observability.WebhookResults().WithLabelValues("submission_not_found").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	s.applyResult(&submission, evaluator.Normalize(payload.Analysis))

	if err := s.submissions.Update(ctx, &submission); err != nil {
		observability.WebhookResults().WithLabelValues("persist_failed").Inc()
		return err
	}

	// The in-flight registry may hold a newer stored name than the row when
	// the team resubmitted mid-flight; prefer it for the asset reclaim.
	storedName := submission.StoredName
	if entry, ok := s.coordinator.Pending(team.ID); ok && entry.StoredName != "" {
		storedName = entry.StoredName
	}
	if storedName != "" {
		if err := s.store.Delete(ctx, storedName); err != nil {
			s.logger.Warn().Err(err).Str("stored_name", storedName).Msg("failed to reclaim stored asset after webhook")
		}
	}
	s.coordinator.ClearPending(team.ID)

	observability.WebhookResults().WithLabelValues("success").Inc()
	s.events.PublishStatus(ctx, team.ID, team.TeamName, models.SubmissionStatusCompleted)

	s.logger.Info().
		Uint("team_id", team.ID).
		Str("leader_email", payload.LeaderEmail).
		Msg("webhook evaluation result reconciled")

	return nil
}
