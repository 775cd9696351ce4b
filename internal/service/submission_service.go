package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/queue"
	"github.com/codoraai/hackeval-api/internal/repository"
	"github.com/codoraai/hackeval-api/pkg/cloudinary"
	"github.com/codoraai/hackeval-api/pkg/evaluator"
)

var (
	// ErrTeamNotFound indicates the team could not be resolved.
	ErrTeamNotFound = errors.New("team not found")
	// ErrFileRequired indicates no presentation file was provided.
	ErrFileRequired = errors.New("ppt/pdf file is required")
	// ErrFileTypeNotAllowed indicates the upload is not a presentation document.
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	// ErrUploadFailed indicates the object store rejected the upload.
	ErrUploadFailed = errors.New("failed to upload file to storage")
	// ErrSubmissionNotFound indicates the team has no submission yet.
	ErrSubmissionNotFound = errors.New("no ppt submission found for this team")
	// ErrNoAnalysis indicates the team has no completed analysis to show.
	ErrNoAnalysis = errors.New("no ppt analysis found for this team")
)

// Dispatch mode selects how evaluation results come back: the callback mode
// expects a signed webhook, the sync mode receives results in the response.
const (
	DispatchModeCallback = "callback"
	DispatchModeSync     = "sync"
)

// Terminal failure messages distinguish a first submit from a sweeper resend.
const (
	failurePrefixSubmit = "Submit failed"
	failurePrefixResend = "Resend failed"
)

// ObjectStore abstracts the durable blob store holding presentation files.
type ObjectStore interface {
	Upload(ctx context.Context, name string, reader io.Reader) (cloudinary.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// EvaluatorClient abstracts the external evaluation service.
type EvaluatorClient interface {
	Dispatch(ctx context.Context, fileURL, leaderEmail string) error
	Evaluate(ctx context.Context, fileURL, fileName string) (evaluator.Result, error)
}

// SubmissionDispatcher re-enqueues evaluation work for an existing
// submission; the resend sweeper depends on this narrow surface.
type SubmissionDispatcher interface {
	Redispatch(team models.Team, submission models.Submission)
}

// SubmissionService orchestrates the presentation evaluation pipeline.
type SubmissionService interface {
	SubmissionDispatcher
	Submit(ctx context.Context, teamID uint, file *multipart.FileHeader, leaderEmailOverride string) (dto.TeamResponse, error)
	GetAnalysis(ctx context.Context, teamID uint) (dto.SubmissionResponse, error)
	GetSummaryByTeamName(ctx context.Context, teamName string) (dto.EvaluationSummary, error)
	ReceiveWebhook(ctx context.Context, payload dto.WebhookRequest) error
}

type submissionService struct {
	teams         repository.TeamRepository
	submissions   repository.SubmissionRepository
	store         ObjectStore
	evaluator     EvaluatorClient
	coordinator   *queue.Coordinator
	events        EventPublisher
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
	mode          string
	webhookSecret string
	maxSize       int64
	now           func() time.Time
}

// NewSubmissionService constructs the pipeline service.
func NewSubmissionService(
	teams repository.TeamRepository,
	submissions repository.SubmissionRepository,
	store ObjectStore,
	evaluatorClient EvaluatorClient,
	coordinator *queue.Coordinator,
	events EventPublisher,
	mode string,
	webhookSecret string,
	maxSizeMB int,
	logger zerolog.Logger,
) SubmissionService {
	if mode != DispatchModeSync {
		mode = DispatchModeCallback
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}

	return &submissionService{
		teams:         teams,
		submissions:   submissions,
		store:         store,
		evaluator:     evaluatorClient,
		coordinator:   coordinator,
		events:        events,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "submission_service").Logger(),
		mode:          mode,
		webhookSecret: webhookSecret,
		maxSize:       int64(maxSizeMB) * 1024 * 1024,
		now:           time.Now,
	}
}

// Submit accepts a presentation upload, stores it durably and queues the
// evaluation dispatch. It returns as soon as the submission is recorded in
// the processing state; results arrive asynchronously.
func (s *submissionService) Submit(ctx context.Context, teamID uint, file *multipart.FileHeader, leaderEmailOverride string) (dto.TeamResponse, error) {
	if file == nil {
		return dto.TeamResponse{}, ErrFileRequired
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	payload, err := readUpload(file, s.maxSize)
	if err != nil {
		return dto.TeamResponse{}, err
	}

	if err := validatePresentationType(payload); err != nil {
		return dto.TeamResponse{}, err
	}

	stored, err := s.store.Upload(ctx, file.Filename, bytes.NewReader(payload))
	if err != nil {
		return dto.TeamResponse{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	leaderEmail := strings.TrimSpace(leaderEmailOverride)
	if leaderEmail == "" {
		leaderEmail = team.LeaderEmail()
	}

	submission := models.Submission{
		TeamID:       team.ID,
		OriginalName: file.Filename,
		StoredName:   stored.PublicID,
		FileURL:      stored.SecureURL,
		UploadedAt:   s.now(),
		Status:       models.SubmissionStatusProcessing,
	}

	if err := s.submissions.Replace(ctx, &submission); err != nil {
		s.logger.Error().Err(err).Uint("team_id", team.ID).Msg("failed to persist submission")
		return dto.TeamResponse{}, err
	}

	s.events.PublishStatus(ctx, team.ID, team.TeamName, models.SubmissionStatusProcessing)
	s.coordinator.Enqueue(s.buildDispatchJob(team.ID, team.TeamName, submission, leaderEmail, failurePrefixSubmit))

	s.logger.Info().
		Uint("team_id", team.ID).
		Str("stored_name", submission.StoredName).
		Str("mode", s.mode).
		Msg("submission accepted and queued for evaluation")

	team.Submission = &submission

	return dto.NewTeamResponse(team), nil
}

// Redispatch rebuilds the dispatch job from persisted file metadata with a
// fresh retry budget. Used by the resend sweeper; no re-upload happens.
func (s *submissionService) Redispatch(team models.Team, submission models.Submission) {
	s.coordinator.Enqueue(s.buildDispatchJob(team.ID, team.TeamName, submission, team.LeaderEmail(), failurePrefixResend))
}

func (s *submissionService) buildDispatchJob(teamID uint, teamName string, submission models.Submission, leaderEmail, failurePrefix string) *queue.Job {
	return &queue.Job{
		TeamID: teamID,
		Run: func() error {
			ctx := context.Background()
			if s.mode == DispatchModeSync {
				result, err := s.evaluator.Evaluate(ctx, submission.FileURL, submission.OriginalName)
				if err != nil {
					return err
				}
				return s.persistResult(ctx, teamID, teamName, result, true)
			}

			if err := s.evaluator.Dispatch(ctx, submission.FileURL, leaderEmail); err != nil {
				return err
			}
			s.coordinator.TrackPending(teamID, submission.StoredName)
			return nil
		},
		OnFail: func(cause error) {
			s.markFailed(context.Background(), teamID, teamName, failurePrefix, cause)
		},
	}
}

// persistResult stores a completed evaluation. The object store asset is
// reclaimed afterwards; a delete failure is logged and does not undo the
// completion.
func (s *submissionService) persistResult(ctx context.Context, teamID uint, teamName string, result evaluator.Result, reclaimAsset bool) error {
	submission, err := s.submissions.GetByTeamID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to load submission for result: %w", err)
	}

	s.applyResult(&submission, result)

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return fmt.Errorf("failed to persist evaluation result: %w", err)
	}

	s.events.PublishStatus(ctx, teamID, teamName, models.SubmissionStatusCompleted)

	if reclaimAsset && submission.StoredName != "" {
		if err := s.store.Delete(ctx, submission.StoredName); err != nil {
			s.logger.Warn().Err(err).Str("stored_name", submission.StoredName).Msg("failed to reclaim stored asset")
		}
	}

	s.logger.Info().Uint("team_id", teamID).Msg("evaluation result persisted")

	return nil
}

// markFailed is the terminal failure handler: the submission keeps its file
// metadata (so a resend works without re-uploading) but flips to failed with
// the diagnostic message. Results are cleared.
func (s *submissionService) markFailed(ctx context.Context, teamID uint, teamName string, prefix string, cause error) {
	submission, err := s.submissions.GetByTeamID(ctx, teamID)
	if err != nil {
		s.logger.Error().Err(err).Uint("team_id", teamID).Msg("failed to load submission for failure marking")
		return
	}

	submission.Status = models.SubmissionStatusFailed
	submission.AnalysisError = fmt.Sprintf("%s: %s", prefix, cause.Error())
	submission.OverallScore = nil
	submission.Scores = nil
	submission.FeedbackStrengths = ""
	submission.FeedbackImprovements = ""
	submission.FeedbackSuggestions = ""
	submission.Summary = ""
	submission.AnalysisDate = nil

	if err := s.submissions.Update(ctx, &submission); err != nil {
		s.logger.Error().Err(err).Uint("team_id", teamID).Msg("failed to persist failure state")
		return
	}

	s.events.PublishStatus(ctx, teamID, teamName, models.SubmissionStatusFailed)
}

// applyResult writes normalized evaluator output onto the submission,
// sanitizing free text and clearing any previous error.
func (s *submissionService) applyResult(submission *models.Submission, result evaluator.Result) {
	submission.Status = models.SubmissionStatusCompleted
	submission.OverallScore = result.OverallScore

	scores := datatypes.JSONMap{}
	for name, score := range result.Scores {
		scores[name] = score
	}
	submission.Scores = scores

	submission.FeedbackStrengths = s.sanitizer.Sanitize(result.FeedbackStrengths)
	submission.FeedbackImprovements = s.sanitizer.Sanitize(result.FeedbackImprovements)
	submission.FeedbackSuggestions = s.sanitizer.Sanitize(result.FeedbackSuggestions)
	submission.Summary = s.sanitizer.Sanitize(result.Summary)

	if raw, err := json.Marshal(result.Raw); err == nil {
		submission.RawPayload = raw
	}

	submission.AnalysisError = ""
	analysisDate := s.now()
	submission.AnalysisDate = &analysisDate
}

// GetAnalysis returns the team's current submission sub-document.
func (s *submissionService) GetAnalysis(ctx context.Context, teamID uint) (dto.SubmissionResponse, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrTeamNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByTeamID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// GetSummaryByTeamName returns the flattened judge-facing view of a
// completed analysis.
func (s *submissionService) GetSummaryByTeamName(ctx context.Context, teamName string) (dto.EvaluationSummary, error) {
	team, err := s.teams.GetByName(ctx, teamName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationSummary{}, ErrTeamNotFound
		}
		return dto.EvaluationSummary{}, err
	}

	if team.Submission == nil || team.Submission.Status != models.SubmissionStatusCompleted {
		return dto.EvaluationSummary{}, ErrNoAnalysis
	}

	return dto.NewEvaluationSummary(*team.Submission), nil
}

func readUpload(file *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if file.Size > maxSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrFileTypeNotAllowed, maxSize)
	}

	handle, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, maxSize+1)); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(buf.Len()) > maxSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrFileTypeNotAllowed, maxSize)
	}

	return buf.Bytes(), nil
}

func validatePresentationType(payload []byte) error {
	detected := mimetype.Detect(payload)

	allowed := []string{
		"application/pdf",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	}
	for _, candidate := range allowed {
		if detected.Is(candidate) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, detected.String())
}
