package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/repository"
)

// ErrEmptySheet indicates a spreadsheet without a usable header row.
var ErrEmptySheet = errors.New("spreadsheet has no data rows")

// ImportService bulk-loads team rosters from Excel sheets and exports the
// current standings back out. Column order is discovered from the header
// row, so organizer spreadsheets do not need a fixed layout.
type ImportService interface {
	ImportTeams(ctx context.Context, reader io.Reader) (dto.ImportReport, error)
	ExportStandings(ctx context.Context) (*excelize.File, error)
}

type importService struct {
	teams  repository.TeamRepository
	logger zerolog.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(teams repository.TeamRepository, logger zerolog.Logger) ImportService {
	return &importService{
		teams:  teams,
		logger: logger.With().Str("component", "import_service").Logger(),
	}
}

func (s *importService) ImportTeams(ctx context.Context, reader io.Reader) (dto.ImportReport, error) {
	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return dto.ImportReport{}, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return dto.ImportReport{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return dto.ImportReport{}, ErrEmptySheet
	}

	columns := mapColumns(rows[0])
	if _, ok := columns["team_name"]; !ok {
		return dto.ImportReport{}, fmt.Errorf("missing team name column in header: %v", rows[0])
	}

	report := dto.ImportReport{Skipped: []dto.SkippedRow{}}
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, columns, "team_name"))
		if name == "" {
			continue
		}
		report.Total++

		email := strings.ToLower(strings.TrimSpace(cell(row, columns, "email")))
		if email == "" {
			report.Skipped = append(report.Skipped, dto.SkippedRow{TeamName: name, Reason: "missing email"})
			continue
		}

		existing, err := s.teams.GetByName(ctx, name)
		switch {
		case err == nil:
			existing.Email = email
			existing.ProjectTitle = coalesce(cell(row, columns, "project_title"), existing.ProjectTitle)
			existing.Category = coalesce(cell(row, columns, "category"), existing.Category)
			if err := s.teams.Update(ctx, &existing); err != nil {
				report.Skipped = append(report.Skipped, dto.SkippedRow{TeamName: name, Reason: err.Error()})
				continue
			}
			report.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			team, buildErr := buildImportedTeam(name, email, row, columns)
			if buildErr != nil {
				report.Skipped = append(report.Skipped, dto.SkippedRow{TeamName: name, Reason: buildErr.Error()})
				continue
			}
			if err := s.teams.Create(ctx, &team); err != nil {
				report.Skipped = append(report.Skipped, dto.SkippedRow{TeamName: name, Reason: err.Error()})
				continue
			}
			report.Created++
		default:
			report.Skipped = append(report.Skipped, dto.SkippedRow{TeamName: name, Reason: err.Error()})
		}
	}

	s.logger.Info().
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("skipped", len(report.Skipped)).
		Msg("team import finished")

	return report, nil
}

// ExportStandings writes one row per team with its evaluation state.
func (s *importService) ExportStandings(ctx context.Context) (*excelize.File, error) {
	teams, err := s.teams.List(ctx, false)
	if err != nil {
		return nil, err
	}

	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	header := []interface{}{"Team Name", "Email", "Category", "Submission Status", "Overall Score", "Summary"}
	if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for index, team := range teams {
		status := "none"
		var score interface{}
		summary := ""
		if team.Submission != nil {
			status = team.Submission.Status
			if team.Submission.OverallScore != nil {
				score = *team.Submission.OverallScore
			}
			summary = team.Submission.Summary
		}

		row := []interface{}{team.TeamName, team.Email, team.Category, status, score, summary}
		cellRef, err := excelize.CoordinatesToCellName(1, index+2)
		if err != nil {
			return nil, err
		}
		if err := workbook.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, err
		}
	}

	return workbook, nil
}

func buildImportedTeam(name, email string, row []string, columns map[string]int) (models.Team, error) {
	// Imported accounts get a random-ish placeholder credential; teams reset
	// it through the normal login flow before first use.
	hash, err := bcrypt.GenerateFromPassword([]byte(email+":"+name), bcrypt.DefaultCost)
	if err != nil {
		return models.Team{}, fmt.Errorf("failed to seed credentials: %w", err)
	}

	team := models.Team{
		TeamName:     name,
		Email:        email,
		PasswordHash: string(hash),
		ProjectTitle: cell(row, columns, "project_title"),
		Category:     cell(row, columns, "category"),
		IsActive:     true,
	}

	if leader := strings.TrimSpace(cell(row, columns, "leader_name")); leader != "" {
		team.Members = []models.TeamMember{{
			Name:     leader,
			Email:    strings.ToLower(strings.TrimSpace(cell(row, columns, "leader_email"))),
			IsLeader: true,
		}}
	}

	return team, nil
}

// mapColumns normalizes header cells ("Team Name", "team-name") into
// snake_case keys and records their positions.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for index, label := range header {
		normalized := strings.ToLower(strings.TrimSpace(label))
		normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
		if normalized != "" {
			columns[normalized] = index
		}
	}

	return columns
}

func cell(row []string, columns map[string]int, key string) string {
	index, ok := columns[key]
	if !ok || index >= len(row) {
		return ""
	}

	return row[index]
}

func coalesce(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	return value
}
