package dto

import (
	"time"

	"github.com/codoraai/hackeval-api/internal/models"
)

// TeamRegisterRequest is the signup payload for the team panel.
type TeamRegisterRequest struct {
	TeamName     string          `json:"teamName" validate:"required,min=2"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=6"`
	Members      []MemberPayload `json:"members" validate:"required,min=1,dive"`
	ProjectTitle string          `json:"projectTitle"`
	ProjectDesc  string          `json:"projectDescription"`
	TechStack    []string        `json:"technologyStack"`
	Category     string          `json:"category"`
	Problem      *ProblemPayload `json:"problemStatement"`
}

// MemberPayload describes one team member at registration time.
type MemberPayload struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone"`
	RollNo string `json:"rollNo"`
}

// ProblemPayload is an optional problem statement at registration time.
type ProblemPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PSID        string `json:"ps_id"`
}

// TeamLoginRequest is the team panel login payload.
type TeamLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TeamAuthResponse carries the team record and a bearer token.
type TeamAuthResponse struct {
	Team        TeamResponse `json:"team"`
	AccessToken string       `json:"accessToken"`
}

// TeamResponse is the team record without credentials.
type TeamResponse struct {
	ID           uint                `json:"id"`
	TeamName     string              `json:"team_name"`
	Email        string              `json:"email"`
	Members      []MemberResponse    `json:"members"`
	ProjectTitle string              `json:"project_title"`
	ProjectDesc  string              `json:"project_description"`
	TechStack    []string            `json:"technology_stack"`
	Category     string              `json:"category"`
	Problem      ProblemPayload      `json:"problem_statement"`
	Submission   *SubmissionResponse `json:"ppt_submission,omitempty"`
	IsVerified   bool                `json:"is_verified"`
	IsActive     bool                `json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
}

// MemberResponse serializes one team member.
type MemberResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	RollNo   string `json:"roll_no"`
	IsLeader bool   `json:"is_leader"`
}

// NewTeamResponse converts a Team model into a DTO.
func NewTeamResponse(model models.Team) TeamResponse {
	members := make([]MemberResponse, 0, len(model.Members))
	for _, member := range model.Members {
		members = append(members, MemberResponse{
			Name:     member.Name,
			Email:    member.Email,
			Phone:    member.Phone,
			RollNo:   member.RollNo,
			IsLeader: member.IsLeader,
		})
	}

	response := TeamResponse{
		ID:           model.ID,
		TeamName:     model.TeamName,
		Email:        model.Email,
		Members:      members,
		ProjectTitle: model.ProjectTitle,
		ProjectDesc:  model.ProjectDesc,
		TechStack:    model.TechStack,
		Category:     model.Category,
		Problem: ProblemPayload{
			Title:       model.Problem.Title,
			Description: model.Problem.Description,
			Category:    model.Problem.Category,
			PSID:        model.Problem.PSID,
		},
		IsVerified: model.IsVerified,
		IsActive:   model.IsActive,
		CreatedAt:  model.CreatedAt,
	}

	if model.Submission != nil {
		submission := NewSubmissionResponse(*model.Submission)
		response.Submission = &submission
	}

	return response
}
