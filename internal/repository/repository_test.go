package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Team{},
		&models.TeamMember{},
		&models.Submission{},
		&models.Judge{},
		&models.JudgeEvaluation{},
		&models.RoundState{},
	))

	return db
}

func TestSubmissionReplaceKeepsSingleRow(t *testing.T) {
	db := testDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	first := models.Submission{
		TeamID:       1,
		OriginalName: "v1.pdf",
		StoredName:   "stored-v1",
		Status:       models.SubmissionStatusProcessing,
		UploadedAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Replace(ctx, &first))

	second := models.Submission{
		TeamID:       1,
		OriginalName: "v2.pdf",
		StoredName:   "stored-v2",
		Status:       models.SubmissionStatusProcessing,
		UploadedAt:   time.Now(),
	}
	require.NoError(t, repo.Replace(ctx, &second))
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	stored, err := repo.GetByTeamID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "v2.pdf", stored.OriginalName)
}

func TestSubmissionListByStatusOrdering(t *testing.T) {
	db := testDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	newer := models.Submission{TeamID: 1, StoredName: "b", Status: models.SubmissionStatusProcessing, UploadedAt: time.Now()}
	older := models.Submission{TeamID: 2, StoredName: "a", Status: models.SubmissionStatusProcessing, UploadedAt: time.Now().Add(-time.Hour)}
	done := models.Submission{TeamID: 3, StoredName: "c", Status: models.SubmissionStatusCompleted, UploadedAt: time.Now()}
	require.NoError(t, repo.Replace(ctx, &newer))
	require.NoError(t, repo.Replace(ctx, &older))
	require.NoError(t, repo.Replace(ctx, &done))

	processing, err := repo.ListByStatus(ctx, models.SubmissionStatusProcessing)
	require.NoError(t, err)
	require.Len(t, processing, 2)
	require.Equal(t, "a", processing[0].StoredName)
	require.Equal(t, "b", processing[1].StoredName)
}

func TestTeamGetByLeaderEmail(t *testing.T) {
	db := testDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := models.Team{
		TeamName:     "alpha",
		Email:        "account@example.com",
		PasswordHash: "x",
		IsActive:     true,
		Members: []models.TeamMember{
			{Name: "Lead", Email: "lead@example.com", IsLeader: true},
			{Name: "Dev", Email: "dev@example.com"},
		},
	}
	require.NoError(t, repo.Create(ctx, &team))

	byAccount, err := repo.GetByLeaderEmail(ctx, "account@example.com")
	require.NoError(t, err)
	require.Equal(t, team.ID, byAccount.ID)

	byLeader, err := repo.GetByLeaderEmail(ctx, "lead@example.com")
	require.NoError(t, err)
	require.Equal(t, team.ID, byLeader.ID)

	// non-leader members do not resolve the team
	_, err = repo.GetByLeaderEmail(ctx, "dev@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTeamGetByLeaderEmailHonorsContext(t *testing.T) {
	db := testDB(t)
	repo := NewTeamRepository(db)

	team := models.Team{
		TeamName:     "alpha",
		Email:        "account@example.com",
		PasswordHash: "x",
		Members: []models.TeamMember{
			{Name: "Lead", Email: "lead@example.com", IsLeader: true},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &team))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetByLeaderEmail(ctx, "lead@example.com")
	require.Error(t, err)
}

func TestTeamExistsByNameOrEmail(t *testing.T) {
	db := testDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Team{TeamName: "alpha", Email: "a@example.com", PasswordHash: "x"}))

	exists, err := repo.ExistsByNameOrEmail(ctx, "alpha", "other@example.com")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByNameOrEmail(ctx, "other", "a@example.com")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByNameOrEmail(ctx, "other", "other@example.com")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestEvaluationUpsertReplacesScore(t *testing.T) {
	db := testDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	first := models.JudgeEvaluation{JudgeID: 1, TeamName: "alpha", TotalScore: 60, Status: "completed"}
	require.NoError(t, repo.Upsert(ctx, &first))

	second := models.JudgeEvaluation{JudgeID: 1, TeamName: "alpha", TotalScore: 75, Status: "completed"}
	require.NoError(t, repo.Upsert(ctx, &second))
	require.Equal(t, first.ID, second.ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, 75.0, all[0].TotalScore)

	other := models.JudgeEvaluation{JudgeID: 2, TeamName: "alpha", TotalScore: 80, Status: "completed"}
	require.NoError(t, repo.Upsert(ctx, &other))

	all, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestRoundStateSingleActive(t *testing.T) {
	db := testDB(t)
	repo := NewRoundStateRepository(db)
	ctx := context.Background()

	now := time.Now()
	first := models.RoundState{Round: "round-1", IsActive: true, ActiveAt: &now}
	require.NoError(t, repo.Save(ctx, &first))

	require.NoError(t, repo.DeactivateAll(ctx))
	second := models.RoundState{Round: "round-2", IsActive: true, ActiveAt: &now}
	require.NoError(t, repo.Save(ctx, &second))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.Equal(t, "round-2", active.Round)
}
