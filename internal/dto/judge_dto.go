package dto

import (
	"time"

	"github.com/codoraai/hackeval-api/internal/models"
)

// JudgeRegisterRequest creates a judge account.
type JudgeRegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Expertise string `json:"expertise"`
}

// JudgeLoginRequest is the judge panel login payload.
type JudgeLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JudgeAuthResponse carries the judge record and a bearer token.
type JudgeAuthResponse struct {
	Judge       JudgeResponse `json:"judge"`
	AccessToken string        `json:"accessToken"`
}

// JudgeResponse is the judge record without credentials.
type JudgeResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Expertise string `json:"expertise"`
}

// EvaluationSubmitRequest is a judge's scorecard for one team.
type EvaluationSubmitRequest struct {
	TeamName             string  `json:"team_name" validate:"required"`
	InnovationCreativity float64 `json:"innovation_creativity" validate:"gte=0,lte=100"`
	TechnicalFeasibility float64 `json:"technical_feasibility" validate:"gte=0,lte=100"`
	ImpactValue          float64 `json:"impact_value" validate:"gte=0,lte=100"`
	Presentation         float64 `json:"presentation" validate:"gte=0,lte=100"`
	TotalScore           float64 `json:"total_score" validate:"gte=0"`
	Comments             string  `json:"comments"`
}

// EvaluationResponse serializes a stored judge scorecard.
type EvaluationResponse struct {
	ID                   uint      `json:"id"`
	JudgeID              uint      `json:"judge_id"`
	TeamName             string    `json:"team_name"`
	InnovationCreativity float64   `json:"innovation_creativity"`
	TechnicalFeasibility float64   `json:"technical_feasibility"`
	ImpactValue          float64   `json:"impact_value"`
	Presentation         float64   `json:"presentation"`
	TotalScore           float64   `json:"total_score"`
	Comments             string    `json:"comments"`
	Status               string    `json:"status"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewJudgeResponse converts a Judge model into a DTO.
func NewJudgeResponse(model models.Judge) JudgeResponse {
	return JudgeResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Expertise: model.Expertise,
	}
}

// NewEvaluationResponse converts a JudgeEvaluation model into a DTO.
func NewEvaluationResponse(model models.JudgeEvaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:                   model.ID,
		JudgeID:              model.JudgeID,
		TeamName:             model.TeamName,
		InnovationCreativity: model.InnovationCreativity,
		TechnicalFeasibility: model.TechnicalFeasibility,
		ImpactValue:          model.ImpactValue,
		Presentation:         model.Presentation,
		TotalScore:           model.TotalScore,
		Comments:             model.Comments,
		Status:               model.Status,
		UpdatedAt:            model.UpdatedAt,
	}
}

// NewEvaluationResponseSlice converts evaluations into DTOs.
func NewEvaluationResponseSlice(items []models.JudgeEvaluation) []EvaluationResponse {
	responses := make([]EvaluationResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewEvaluationResponse(item))
	}

	return responses
}
