package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/queue"
	"github.com/codoraai/hackeval-api/pkg/cloudinary"
	"github.com/codoraai/hackeval-api/pkg/evaluator"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testCoordinator() *queue.Coordinator {
	return queue.New(queue.Config{
		MaxConcurrency: 3,
		MaxRetries:     1,
		BaseDelay:      time.Millisecond,
		MaxDelay:       2 * time.Millisecond,
	}, testLogger())
}

// pdfBytes is a minimal payload that mimetype detects as application/pdf.
var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func makeFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)

	return files[0]
}

type teamRepoStub struct {
	mu    sync.Mutex
	teams map[uint]models.Team
}

func newTeamRepoStub(teams ...models.Team) *teamRepoStub {
	stub := &teamRepoStub{teams: make(map[uint]models.Team)}
	for _, team := range teams {
		stub.teams[team.ID] = team
	}
	return stub
}

func (s *teamRepoStub) Create(ctx context.Context, team *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if team.ID == 0 {
		team.ID = uint(len(s.teams) + 1)
	}
	s.teams[team.ID] = *team
	return nil
}

func (s *teamRepoStub) GetByID(ctx context.Context, id uint) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[id]
	if !ok {
		return models.Team{}, gorm.ErrRecordNotFound
	}
	return team, nil
}

func (s *teamRepoStub) GetByName(ctx context.Context, teamName string) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.TeamName == teamName {
			return team, nil
		}
	}
	return models.Team{}, gorm.ErrRecordNotFound
}

func (s *teamRepoStub) GetByEmail(ctx context.Context, email string) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.Email == email {
			return team, nil
		}
	}
	return models.Team{}, gorm.ErrRecordNotFound
}

func (s *teamRepoStub) GetByLeaderEmail(ctx context.Context, email string) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.Email == email {
			return team, nil
		}
		for _, member := range team.Members {
			if member.IsLeader && member.Email == email {
				return team, nil
			}
		}
	}
	return models.Team{}, gorm.ErrRecordNotFound
}

func (s *teamRepoStub) List(ctx context.Context, activeOnly bool) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	teams := make([]models.Team, 0, len(s.teams))
	for _, team := range s.teams {
		if activeOnly && !team.IsActive {
			continue
		}
		teams = append(teams, team)
	}
	return teams, nil
}

func (s *teamRepoStub) Update(ctx context.Context, team *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = *team
	return nil
}

func (s *teamRepoStub) ExistsByNameOrEmail(ctx context.Context, teamName, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.TeamName == teamName || team.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type submissionRepoStub struct {
	mu   sync.Mutex
	rows map[uint]models.Submission
}

func newSubmissionRepoStub() *submissionRepoStub {
	return &submissionRepoStub{rows: make(map[uint]models.Submission)}
}

func (s *submissionRepoStub) Replace(ctx context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if submission.ID == 0 {
		submission.ID = uint(len(s.rows) + 1)
	}
	s.rows[submission.TeamID] = *submission
	return nil
}

func (s *submissionRepoStub) GetByTeamID(ctx context.Context, teamID uint) (models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[teamID]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *submissionRepoStub) ListByStatus(ctx context.Context, status string) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]models.Submission, 0)
	for _, row := range s.rows {
		if row.Status == status {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *submissionRepoStub) Update(ctx context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[submission.TeamID] = *submission
	return nil
}

func (s *submissionRepoStub) get(teamID uint) (models.Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[teamID]
	return row, ok
}

func (s *submissionRepoStub) put(submission models.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[submission.TeamID] = submission
}

type storeStub struct {
	mu        sync.Mutex
	uploads   int
	deleted   []string
	uploadErr error
	deleteErr error
}

func (s *storeStub) Upload(ctx context.Context, name string, reader io.Reader) (cloudinary.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return cloudinary.UploadResult{}, s.uploadErr
	}
	s.uploads++
	return cloudinary.UploadResult{
		PublicID:  "stored-" + name,
		SecureURL: "https://cdn.example.com/" + name,
	}, nil
}

func (s *storeStub) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}

func (s *storeStub) deletedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

type evaluatorStub struct {
	mu          sync.Mutex
	dispatched  int
	dispatchErr error
	evaluated   int
	evalResult  evaluator.Result
	evalErr     error
	lastLeader  string
}

func (s *evaluatorStub) Dispatch(ctx context.Context, fileURL, leaderEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched++
	s.lastLeader = leaderEmail
	return s.dispatchErr
}

func (s *evaluatorStub) Evaluate(ctx context.Context, fileURL, fileName string) (evaluator.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluated++
	return s.evalResult, s.evalErr
}

func (s *evaluatorStub) dispatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatched
}

type eventsStub struct {
	mu       sync.Mutex
	statuses []string
}

func (s *eventsStub) PublishStatus(ctx context.Context, teamID uint, teamName, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}
