package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/models"
)

// TeamRepository defines data operations on the team aggregate.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uint) (models.Team, error)
	GetByName(ctx context.Context, teamName string) (models.Team, error)
	GetByEmail(ctx context.Context, email string) (models.Team, error)
	GetByLeaderEmail(ctx context.Context, email string) (models.Team, error)
	List(ctx context.Context, activeOnly bool) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	ExistsByNameOrEmail(ctx context.Context, teamName, email string) (bool, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository instantiates the repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Team{}).
		Preload("Members").
		Preload("Submission")
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	if err := r.baseQuery(ctx).First(&team, id).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

func (r *teamRepository) GetByName(ctx context.Context, teamName string) (models.Team, error) {
	var team models.Team
	if err := r.baseQuery(ctx).Where("team_name = ?", teamName).First(&team).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

func (r *teamRepository) GetByEmail(ctx context.Context, email string) (models.Team, error) {
	var team models.Team
	if err := r.baseQuery(ctx).Where("email = ?", email).First(&team).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

// GetByLeaderEmail resolves a team from an evaluator callback: the address
// matches either the team account email or a member flagged as leader.
func (r *teamRepository) GetByLeaderEmail(ctx context.Context, email string) (models.Team, error) {
	var team models.Team
	err := r.baseQuery(ctx).
		Where("email = ?", email).
		Or("id IN (?)", r.db.WithContext(ctx).Model(&models.TeamMember{}).
			Select("team_id").
			Where("email = ? AND is_leader = ?", email, true)).
		First(&team).Error
	if err != nil {
		return models.Team{}, err
	}

	return team, nil
}

func (r *teamRepository) List(ctx context.Context, activeOnly bool) ([]models.Team, error) {
	query := r.baseQuery(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var teams []models.Team
	if err := query.Order("team_name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *teamRepository) ExistsByNameOrEmail(ctx context.Context, teamName, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Team{}).
		Where("team_name = ? OR email = ?", teamName, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
