package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/observability"
	"github.com/codoraai/hackeval-api/internal/queue"
	"github.com/codoraai/hackeval-api/internal/repository"
)

// ResendSweeper periodically re-dispatches submissions stuck in the
// processing state. A submission counts as stuck when it has been in flight
// longer than the staleness threshold, measured from the in-flight registry
// entry when one exists and from the upload time otherwise. Redispatched
// jobs start with a fresh retry budget.
type ResendSweeper struct {
	teams         repository.TeamRepository
	submissions   repository.SubmissionRepository
	coordinator   *queue.Coordinator
	dispatcher    SubmissionDispatcher
	interval      time.Duration
	maxProcessing time.Duration
	logger        zerolog.Logger
	now           func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewResendSweeper constructs a sweeper; call Start to begin sweeping.
func NewResendSweeper(
	teams repository.TeamRepository,
	submissions repository.SubmissionRepository,
	coordinator *queue.Coordinator,
	dispatcher SubmissionDispatcher,
	interval time.Duration,
	maxProcessing time.Duration,
	logger zerolog.Logger,
) *ResendSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if maxProcessing <= 0 {
		maxProcessing = 15 * time.Minute
	}

	return &ResendSweeper{
		teams:         teams,
		submissions:   submissions,
		coordinator:   coordinator,
		dispatcher:    dispatcher,
		interval:      interval,
		maxProcessing: maxProcessing,
		logger:        logger.With().Str("component", "resend_sweeper").Logger(),
		now:           time.Now,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the sweep loop in a background goroutine.
func (s *ResendSweeper) Start() {
	go s.loop()
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("max_processing", s.maxProcessing).
		Msg("resend sweeper started")
}

// Stop terminates the sweep loop and waits for it to exit. A sweep already
// in progress completes first.
func (s *ResendSweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *ResendSweeper) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep(context.Background())
		}
	}
}

// Sweep performs a single pass over processing submissions.
func (s *ResendSweeper) Sweep(ctx context.Context) {
	stuck, err := s.submissions.ListByStatus(ctx, models.SubmissionStatusProcessing)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list processing submissions")
		return
	}

	now := s.now()
	for _, submission := range stuck {
		startedAt := submission.UploadedAt
		if entry, ok := s.coordinator.Pending(submission.TeamID); ok {
			startedAt = entry.StartedAt
		}
		if startedAt.IsZero() {
			// No timing signal at all; treat the submission as fresh rather
			// than expiring it retroactively.
			continue
		}
		if now.Sub(startedAt) <= s.maxProcessing {
			continue
		}

		team, err := s.teams.GetByID(ctx, submission.TeamID)
		if err != nil {
			s.logger.Error().Err(err).Uint("team_id", submission.TeamID).Msg("failed to load team for redispatch")
			continue
		}

		observability.SweepRedispatched().Inc()
		s.logger.Info().
			Uint("team_id", team.ID).
			Str("team_name", team.TeamName).
			Time("started_at", startedAt).
			Msg("redispatching stale submission")

		s.dispatcher.Redispatch(team, submission)
	}
}
