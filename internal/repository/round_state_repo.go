package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/models"
)

// RoundStateRepository defines data operations for round control.
type RoundStateRepository interface {
	GetActive(ctx context.Context) (models.RoundState, error)
	GetByRound(ctx context.Context, round string) (models.RoundState, error)
	DeactivateAll(ctx context.Context) error
	Save(ctx context.Context, state *models.RoundState) error
	List(ctx context.Context) ([]models.RoundState, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type roundStateRepository struct {
	db *gorm.DB
}

// NewRoundStateRepository instantiates the repository.
func NewRoundStateRepository(db *gorm.DB) RoundStateRepository {
	return &roundStateRepository{db: db}
}

func (r *roundStateRepository) GetActive(ctx context.Context) (models.RoundState, error) {
	var state models.RoundState
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&state).Error; err != nil {
		return models.RoundState{}, err
	}

	return state, nil
}

func (r *roundStateRepository) GetByRound(ctx context.Context, round string) (models.RoundState, error) {
	var state models.RoundState
	if err := r.db.WithContext(ctx).Where("round = ?", round).First(&state).Error; err != nil {
		return models.RoundState{}, err
	}

	return state, nil
}

func (r *roundStateRepository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&models.RoundState{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *roundStateRepository) Save(ctx context.Context, state *models.RoundState) error {
	return r.db.WithContext(ctx).Save(state).Error
}

func (r *roundStateRepository) List(ctx context.Context) ([]models.RoundState, error) {
	var states []models.RoundState
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&states).Error; err != nil {
		return nil, err
	}

	return states, nil
}

func (r *roundStateRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.RoundState{}, id)
	return result.RowsAffected, result.Error
}
