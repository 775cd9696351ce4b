package dto

import (
	"time"

	"github.com/codoraai/hackeval-api/internal/models"
)

// SubmissionResponse is the submission sub-document returned to team clients.
type SubmissionResponse struct {
	OriginalName string     `json:"original_name"`
	StoredName   string     `json:"stored_name"`
	FileURL      string     `json:"file_url"`
	UploadDate   time.Time  `json:"upload_date"`
	Status       string     `json:"analysis_status"`
	Results      *Results   `json:"analysis_results,omitempty"`
	Error        string     `json:"analysis_error,omitempty"`
	AnalysisDate *time.Time `json:"analysis_date,omitempty"`
}

// Results mirrors the persisted evaluator output.
type Results struct {
	OverallScore         *float64           `json:"overall_score"`
	Scores               map[string]float64 `json:"scores"`
	FeedbackStrengths    string             `json:"feedback_strengths,omitempty"`
	FeedbackImprovements string             `json:"feedback_improvements,omitempty"`
	FeedbackSuggestions  string             `json:"feedback_suggestions,omitempty"`
	Summary              string             `json:"summary,omitempty"`
}

// EvaluationSummary is the flattened judge-facing view of a completed
// analysis, keyed the way the judge panel expects.
type EvaluationSummary struct {
	UploadTimestamp     time.Time          `json:"upload_timestamp"`
	TotalWeightedScore  *float64           `json:"total_weighted_score"`
	TotalRawScore       float64            `json:"total_raw_score"`
	EvaluationScores    map[string]float64 `json:"evaluation_scores"`
	Summary             string             `json:"summary"`
	FeedbackPositive    string             `json:"feedback_positive"`
	FeedbackCriticism   string             `json:"feedback_criticism"`
	FeedbackSuggestions string             `json:"feedback_suggestions"`
}

// WebhookRequest is the asynchronous result callback posted by the external
// evaluator. The signature field authenticates the caller.
type WebhookRequest struct {
	Signature   string         `json:"signature"`
	LeaderEmail string         `json:"leaderEmail"`
	Analysis    map[string]any `json:"analysis"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		OriginalName: model.OriginalName,
		StoredName:   model.StoredName,
		FileURL:      model.FileURL,
		UploadDate:   model.UploadedAt,
		Status:       model.Status,
		Error:        model.AnalysisError,
		AnalysisDate: model.AnalysisDate,
	}

	if model.Status == models.SubmissionStatusCompleted {
		response.Results = &Results{
			OverallScore:         model.OverallScore,
			Scores:               scoreMap(model),
			FeedbackStrengths:    model.FeedbackStrengths,
			FeedbackImprovements: model.FeedbackImprovements,
			FeedbackSuggestions:  model.FeedbackSuggestions,
			Summary:              model.Summary,
		}
	}

	return response
}

// NewEvaluationSummary flattens a completed submission for judge display.
func NewEvaluationSummary(model models.Submission) EvaluationSummary {
	scores := scoreMap(model)

	var rawTotal float64
	for _, score := range scores {
		rawTotal += score
	}

	return EvaluationSummary{
		UploadTimestamp:     model.UploadedAt,
		TotalWeightedScore:  model.OverallScore,
		TotalRawScore:       rawTotal,
		EvaluationScores:    scores,
		Summary:             model.Summary,
		FeedbackPositive:    model.FeedbackStrengths,
		FeedbackCriticism:   model.FeedbackImprovements,
		FeedbackSuggestions: model.FeedbackSuggestions,
	}
}

func scoreMap(model models.Submission) map[string]float64 {
	scores := make(map[string]float64, len(model.Scores))
	for name, value := range model.Scores {
		if number, ok := value.(float64); ok {
			scores[name] = number
		}
	}
	return scores
}
