package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/models"
)

// JudgeRepository defines data operations for judge accounts.
type JudgeRepository interface {
	Create(ctx context.Context, judge *models.Judge) error
	GetByID(ctx context.Context, id uint) (models.Judge, error)
	GetByEmail(ctx context.Context, email string) (models.Judge, error)
}

// EvaluationRepository defines data operations for judge scorecards.
type EvaluationRepository interface {
	// Upsert stores the scorecard, replacing a previous one by the same judge
	// for the same team.
	Upsert(ctx context.Context, evaluation *models.JudgeEvaluation) error
	ListByJudge(ctx context.Context, judgeID uint) ([]models.JudgeEvaluation, error)
	ListAll(ctx context.Context) ([]models.JudgeEvaluation, error)
}

type judgeRepository struct {
	db *gorm.DB
}

// NewJudgeRepository instantiates the repository.
func NewJudgeRepository(db *gorm.DB) JudgeRepository {
	return &judgeRepository{db: db}
}

func (r *judgeRepository) Create(ctx context.Context, judge *models.Judge) error {
	return r.db.WithContext(ctx).Create(judge).Error
}

func (r *judgeRepository) GetByID(ctx context.Context, id uint) (models.Judge, error) {
	var judge models.Judge
	if err := r.db.WithContext(ctx).First(&judge, id).Error; err != nil {
		return models.Judge{}, err
	}

	return judge, nil
}

func (r *judgeRepository) GetByEmail(ctx context.Context, email string) (models.Judge, error) {
	var judge models.Judge
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&judge).Error; err != nil {
		return models.Judge{}, err
	}

	return judge, nil
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Upsert(ctx context.Context, evaluation *models.JudgeEvaluation) error {
	var existing models.JudgeEvaluation
	err := r.db.WithContext(ctx).
		Where("judge_id = ? AND team_name = ?", evaluation.JudgeID, evaluation.TeamName).
		First(&existing).Error
	switch {
	case err == nil:
		evaluation.ID = existing.ID
		evaluation.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(evaluation).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.WithContext(ctx).Create(evaluation).Error
	default:
		return err
	}
}

func (r *evaluationRepository) ListByJudge(ctx context.Context, judgeID uint) ([]models.JudgeEvaluation, error) {
	var evaluations []models.JudgeEvaluation
	err := r.db.WithContext(ctx).
		Where("judge_id = ?", judgeID).
		Order("updated_at DESC").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}

	return evaluations, nil
}

func (r *evaluationRepository) ListAll(ctx context.Context) ([]models.JudgeEvaluation, error) {
	var evaluations []models.JudgeEvaluation
	if err := r.db.WithContext(ctx).Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}
