package models

import "time"

// Judge is an evaluator account for the judge panel.
type Judge struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Expertise    string    `gorm:"size:255" json:"expertise"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JudgeEvaluation is a judge's manual scorecard for one team. It is the
// leaderboard fallback when a team has no completed AI analysis.
type JudgeEvaluation struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	JudgeID              uint      `gorm:"not null;index:idx_judge_team,unique" json:"judge_id"`
	TeamName             string    `gorm:"size:255;not null;index:idx_judge_team,unique" json:"team_name"`
	InnovationCreativity float64   `json:"innovation_creativity"`
	TechnicalFeasibility float64   `json:"technical_feasibility"`
	ImpactValue          float64   `json:"impact_value"`
	Presentation         float64   `json:"presentation"`
	TotalScore           float64   `json:"total_score"`
	Comments             string    `gorm:"type:text" json:"comments"`
	Status               string    `gorm:"size:32;default:completed" json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
