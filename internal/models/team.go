package models

import (
	"time"

	"gorm.io/datatypes"
)

// Team represents a registered hackathon team. The presentation submission is
// embedded as a one-to-one association and lives and dies with the team.
type Team struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	TeamName     string                      `gorm:"size:255;uniqueIndex;not null" json:"team_name"`
	Email        string                      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string                      `gorm:"size:255;not null" json:"-"`
	Members      []TeamMember                `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"members"`
	ProjectTitle string                      `gorm:"size:255" json:"project_title"`
	ProjectDesc  string                      `gorm:"type:text" json:"project_description"`
	TechStack    datatypes.JSONSlice[string] `json:"technology_stack"`
	Category     string                      `gorm:"size:128" json:"category"`

	Problem ProblemStatement `gorm:"embedded;embeddedPrefix:problem_" json:"problem_statement"`

	// Judge-side evaluation summary, kept on the team for leaderboard fallback.
	AssignedJudgeID    *uint    `json:"assigned_judge_id"`
	EvaluationScore    *float64 `json:"evaluation_score"`
	EvaluationStatus   string   `gorm:"size:32;default:unassigned" json:"evaluation_status"`
	EvaluationComments string   `gorm:"type:text" json:"evaluation_comments"`

	Submission *Submission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"ppt_submission"`

	IsVerified bool      `gorm:"default:false" json:"is_verified"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TeamMember is a single person on a team. Exactly one member carries the
// leader flag; the leader email routes evaluator callbacks back to the team.
type TeamMember struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TeamID   uint   `gorm:"not null;index" json:"team_id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;index" json:"email"`
	Phone    string `gorm:"size:32" json:"phone"`
	RollNo   string `gorm:"size:64" json:"roll_no"`
	IsLeader bool   `gorm:"default:false" json:"is_leader"`
}

// ProblemStatement captures the challenge a team registered against.
type ProblemStatement struct {
	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:128" json:"category"`
	PSID        string `gorm:"size:64" json:"ps_id"`
}

// LeaderEmail resolves the address evaluation results are correlated by:
// the flagged leader member first, then the team account email.
func (t Team) LeaderEmail() string {
	for _, m := range t.Members {
		if m.IsLeader && m.Email != "" {
			return m.Email
		}
	}
	return t.Email
}
