package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission tracks a team's single current presentation upload and its
// evaluation lifecycle. At most one row exists per team; a resubmission
// replaces the previous row wholesale.
type Submission struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TeamID uint `gorm:"uniqueIndex;not null" json:"team_id"`

	OriginalName string    `gorm:"size:255" json:"original_name"`
	StoredName   string    `gorm:"size:255" json:"stored_name"`
	FileURL      string    `gorm:"size:512" json:"file_url"`
	UploadedAt   time.Time `json:"upload_date"`

	Status string `gorm:"size:32;not null;default:pending" json:"analysis_status"`

	// Evaluator output, populated only when Status is completed.
	OverallScore         *float64          `json:"overall_score"`
	Scores               datatypes.JSONMap `json:"scores"`
	FeedbackStrengths    string            `gorm:"type:text" json:"feedback_strengths"`
	FeedbackImprovements string            `gorm:"type:text" json:"feedback_improvements"`
	FeedbackSuggestions  string            `gorm:"type:text" json:"feedback_suggestions"`
	Summary              string            `gorm:"type:text" json:"summary"`
	RawPayload           datatypes.JSON    `json:"-"`

	// Diagnostic message, populated only when Status is failed.
	AnalysisError string `gorm:"type:text" json:"analysis_error"`

	AnalysisDate *time.Time `json:"analysis_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

const (
	// SubmissionStatusPending indicates no dispatch has been attempted yet.
	SubmissionStatusPending = "pending"
	// SubmissionStatusProcessing indicates the file is with the evaluator.
	SubmissionStatusProcessing = "processing"
	// SubmissionStatusCompleted indicates results have been persisted.
	SubmissionStatusCompleted = "completed"
	// SubmissionStatusFailed indicates dispatch or evaluation failed terminally.
	SubmissionStatusFailed = "failed"
)

// IsProcessing reports whether the submission is awaiting evaluator results.
func (s Submission) IsProcessing() bool {
	return s.Status == SubmissionStatusProcessing
}

// HasResults reports whether evaluator output is present.
func (s Submission) HasResults() bool {
	return s.Status == SubmissionStatusCompleted && (s.OverallScore != nil || len(s.Scores) > 0)
}
