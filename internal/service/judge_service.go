package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/repository"
)

var (
	// ErrJudgeExists indicates a duplicate judge email at registration.
	ErrJudgeExists = errors.New("judge with this email already exists")
	// ErrJudgeNotFound indicates the judge could not be resolved.
	ErrJudgeNotFound = errors.New("judge not found")
)

// JudgeService manages judge accounts and manual scorecards.
type JudgeService interface {
	Register(ctx context.Context, req dto.JudgeRegisterRequest) (dto.JudgeAuthResponse, error)
	Login(ctx context.Context, req dto.JudgeLoginRequest) (dto.JudgeAuthResponse, error)
	SubmitEvaluation(ctx context.Context, judgeID uint, req dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error)
	ListEvaluations(ctx context.Context, judgeID uint) ([]dto.EvaluationResponse, error)
}

type judgeService struct {
	judges      repository.JudgeRepository
	evaluations repository.EvaluationRepository
	teams       repository.TeamRepository
	jwtSecret   string
	logger      zerolog.Logger
}

// NewJudgeService constructs a JudgeService.
func NewJudgeService(
	judges repository.JudgeRepository,
	evaluations repository.EvaluationRepository,
	teams repository.TeamRepository,
	jwtSecret string,
	logger zerolog.Logger,
) JudgeService {
	return &judgeService{
		judges:      judges,
		evaluations: evaluations,
		teams:       teams,
		jwtSecret:   jwtSecret,
		logger:      logger.With().Str("component", "judge_service").Logger(),
	}
}

// Register creates a judge account.
func (s *judgeService) Register(ctx context.Context, req dto.JudgeRegisterRequest) (dto.JudgeAuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.judges.GetByEmail(ctx, email); err == nil {
		return dto.JudgeAuthResponse{}, ErrJudgeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.JudgeAuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.JudgeAuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	judge := models.Judge{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Expertise:    req.Expertise,
		IsActive:     true,
	}

	if err := s.judges.Create(ctx, &judge); err != nil {
		return dto.JudgeAuthResponse{}, err
	}

	token, err := issueToken(s.jwtSecret, judge.ID, "judge")
	if err != nil {
		return dto.JudgeAuthResponse{}, err
	}

	s.logger.Info().Uint("judge_id", judge.ID).Msg("judge registered")

	return dto.JudgeAuthResponse{Judge: dto.NewJudgeResponse(judge), AccessToken: token}, nil
}

// Login authenticates a judge by email and password.
func (s *judgeService) Login(ctx context.Context, req dto.JudgeLoginRequest) (dto.JudgeAuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	judge, err := s.judges.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JudgeAuthResponse{}, ErrInvalidCredentials
		}
		return dto.JudgeAuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(judge.PasswordHash), []byte(req.Password)); err != nil {
		return dto.JudgeAuthResponse{}, ErrInvalidCredentials
	}

	token, err := issueToken(s.jwtSecret, judge.ID, "judge")
	if err != nil {
		return dto.JudgeAuthResponse{}, err
	}

	return dto.JudgeAuthResponse{Judge: dto.NewJudgeResponse(judge), AccessToken: token}, nil
}

// SubmitEvaluation stores a scorecard, replacing any previous score from the
// same judge for the same team.
func (s *judgeService) SubmitEvaluation(ctx context.Context, judgeID uint, req dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error) {
	if _, err := s.judges.GetByID(ctx, judgeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrJudgeNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	team, err := s.teams.GetByName(ctx, strings.TrimSpace(req.TeamName))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrTeamNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	evaluation := models.JudgeEvaluation{
		JudgeID:              judgeID,
		TeamName:             team.TeamName,
		InnovationCreativity: req.InnovationCreativity,
		TechnicalFeasibility: req.TechnicalFeasibility,
		ImpactValue:          req.ImpactValue,
		Presentation:         req.Presentation,
		TotalScore:           req.TotalScore,
		Comments:             req.Comments,
		Status:               "completed",
	}
	if evaluation.TotalScore == 0 {
		evaluation.TotalScore = req.InnovationCreativity + req.TechnicalFeasibility + req.ImpactValue + req.Presentation
	}

	if err := s.evaluations.Upsert(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	s.logger.Info().
		Uint("judge_id", judgeID).
		Str("team_name", team.TeamName).
		Float64("total_score", evaluation.TotalScore).
		Msg("judge evaluation stored")

	return dto.NewEvaluationResponse(evaluation), nil
}

// ListEvaluations returns the judge's stored scorecards, newest first.
func (s *judgeService) ListEvaluations(ctx context.Context, judgeID uint) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.evaluations.ListByJudge(ctx, judgeID)
	if err != nil {
		return nil, err
	}

	return dto.NewEvaluationResponseSlice(evaluations), nil
}
