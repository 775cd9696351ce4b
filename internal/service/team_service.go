package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/repository"
)

var (
	// ErrTeamExists indicates a duplicate team name or email at registration.
	ErrTeamExists = errors.New("team with this name or email already exists")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const tokenTTL = 24 * time.Hour

// TeamService manages team accounts and authentication.
type TeamService interface {
	Register(ctx context.Context, req dto.TeamRegisterRequest) (dto.TeamAuthResponse, error)
	Login(ctx context.Context, req dto.TeamLoginRequest) (dto.TeamAuthResponse, error)
	GetByID(ctx context.Context, teamID uint) (dto.TeamResponse, error)
	List(ctx context.Context) ([]dto.TeamResponse, error)
}

type teamService struct {
	teams     repository.TeamRepository
	mail      MailDelivery
	jwtSecret string
	logger    zerolog.Logger
}

// NewTeamService constructs a TeamService.
func NewTeamService(teams repository.TeamRepository, mail MailDelivery, jwtSecret string, logger zerolog.Logger) TeamService {
	return &teamService{
		teams:     teams,
		mail:      mail,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("component", "team_service").Logger(),
	}
}

// Register creates a team account, marks the first member as leader when
// none is flagged and sends a welcome mail.
func (s *teamService) Register(ctx context.Context, req dto.TeamRegisterRequest) (dto.TeamAuthResponse, error) {
	name := strings.TrimSpace(req.TeamName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.teams.ExistsByNameOrEmail(ctx, name, email)
	if err != nil {
		return dto.TeamAuthResponse{}, err
	}
	if exists {
		return dto.TeamAuthResponse{}, ErrTeamExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.TeamAuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	team := models.Team{
		TeamName:     name,
		Email:        email,
		PasswordHash: string(hash),
		ProjectTitle: req.ProjectTitle,
		ProjectDesc:  req.ProjectDesc,
		TechStack:    datatypes.NewJSONSlice(req.TechStack),
		Category:     req.Category,
		Members:      buildMembers(req.Members),
		IsActive:     true,
	}

	if req.Problem != nil {
		team.Problem = models.ProblemStatement{
			Title:       req.Problem.Title,
			Description: req.Problem.Description,
			Category:    req.Problem.Category,
			PSID:        req.Problem.PSID,
		}
	}

	if err := s.teams.Create(ctx, &team); err != nil {
		return dto.TeamAuthResponse{}, err
	}

	token, err := issueToken(s.jwtSecret, team.ID, "team")
	if err != nil {
		return dto.TeamAuthResponse{}, err
	}

	if err := s.mail.Deliver(ctx, team.LeaderEmail(), "Welcome to HackEval",
		fmt.Sprintf("Team %s is registered. Submit your presentation from the team panel.", team.TeamName)); err != nil {
		s.logger.Warn().Err(err).Uint("team_id", team.ID).Msg("failed to send welcome mail")
	}

	s.logger.Info().Uint("team_id", team.ID).Str("team_name", team.TeamName).Msg("team registered")

	return dto.TeamAuthResponse{Team: dto.NewTeamResponse(team), AccessToken: token}, nil
}

// Login authenticates a team by account email and password.
func (s *teamService) Login(ctx context.Context, req dto.TeamLoginRequest) (dto.TeamAuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	team, err := s.teams.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamAuthResponse{}, ErrInvalidCredentials
		}
		return dto.TeamAuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), []byte(req.Password)); err != nil {
		return dto.TeamAuthResponse{}, ErrInvalidCredentials
	}

	token, err := issueToken(s.jwtSecret, team.ID, "team")
	if err != nil {
		return dto.TeamAuthResponse{}, err
	}

	return dto.TeamAuthResponse{Team: dto.NewTeamResponse(team), AccessToken: token}, nil
}

// GetByID returns one team record.
func (s *teamService) GetByID(ctx context.Context, teamID uint) (dto.TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	return dto.NewTeamResponse(team), nil
}

// List returns all registered teams.
func (s *teamService) List(ctx context.Context) ([]dto.TeamResponse, error) {
	teams, err := s.teams.List(ctx, false)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, dto.NewTeamResponse(team))
	}

	return responses, nil
}

func issueToken(secret string, subject uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func buildMembers(payloads []dto.MemberPayload) []models.TeamMember {
	members := make([]models.TeamMember, 0, len(payloads))
	for index, payload := range payloads {
		members = append(members, models.TeamMember{
			Name:     strings.TrimSpace(payload.Name),
			Email:    strings.ToLower(strings.TrimSpace(payload.Email)),
			Phone:    payload.Phone,
			RollNo:   payload.RollNo,
			IsLeader: index == 0,
		})
	}

	return members
}
