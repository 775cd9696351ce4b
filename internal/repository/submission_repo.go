package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/models"
)

// SubmissionRepository defines data operations for presentation submissions.
type SubmissionRepository interface {
	// Replace persists the submission for its team, overwriting any previous
	// one. The prior row's identity is reused so the team keeps a single row.
	Replace(ctx context.Context, submission *models.Submission) error
	GetByTeamID(ctx context.Context, teamID uint) (models.Submission, error)
	ListByStatus(ctx context.Context, status string) ([]models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Replace(ctx context.Context, submission *models.Submission) error {
	var existing models.Submission
	err := r.db.WithContext(ctx).
		Where("team_id = ?", submission.TeamID).
		First(&existing).Error
	switch {
	case err == nil:
		submission.ID = existing.ID
		submission.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(submission).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.WithContext(ctx).Create(submission).Error
	default:
		return err
	}
}

func (r *submissionRepository) GetByTeamID(ctx context.Context, teamID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Where("team_id = ?", teamID).First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ListByStatus(ctx context.Context, status string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("uploaded_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
