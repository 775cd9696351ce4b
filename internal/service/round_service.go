package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/repository"
)

// ErrRoundNotFound indicates no matching round state row.
var ErrRoundNotFound = errors.New("round not found")

// RoundService controls which hackathon round is live. Exactly one round is
// active at a time; activating a round deactivates the rest.
type RoundService interface {
	SetActive(ctx context.Context, round string) (dto.RoundStateResponse, error)
	GetActive(ctx context.Context) (dto.RoundStateResponse, error)
	List(ctx context.Context) ([]dto.RoundStateResponse, error)
	Delete(ctx context.Context, id uint) error
}

type roundService struct {
	rounds repository.RoundStateRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewRoundService constructs a RoundService.
func NewRoundService(rounds repository.RoundStateRepository, logger zerolog.Logger) RoundService {
	return &roundService{
		rounds: rounds,
		logger: logger.With().Str("component", "round_service").Logger(),
		now:    time.Now,
	}
}

func (s *roundService) SetActive(ctx context.Context, round string) (dto.RoundStateResponse, error) {
	round = strings.TrimSpace(round)

	if err := s.rounds.DeactivateAll(ctx); err != nil {
		return dto.RoundStateResponse{}, err
	}

	state, err := s.rounds.GetByRound(ctx, round)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.RoundStateResponse{}, err
	}

	state.Round = round
	state.IsActive = true
	activeAt := s.now()
	state.ActiveAt = &activeAt

	if err := s.rounds.Save(ctx, &state); err != nil {
		return dto.RoundStateResponse{}, err
	}

	s.logger.Info().Str("round", round).Msg("round activated")

	return dto.NewRoundStateResponse(state), nil
}

func (s *roundService) GetActive(ctx context.Context) (dto.RoundStateResponse, error) {
	state, err := s.rounds.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoundStateResponse{}, ErrRoundNotFound
		}
		return dto.RoundStateResponse{}, err
	}

	return dto.NewRoundStateResponse(state), nil
}

func (s *roundService) List(ctx context.Context) ([]dto.RoundStateResponse, error) {
	states, err := s.rounds.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewRoundStateResponseSlice(states), nil
}

func (s *roundService) Delete(ctx context.Context, id uint) error {
	affected, err := s.rounds.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoundNotFound
	}

	return nil
}
