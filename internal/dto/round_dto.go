package dto

import (
	"time"

	"github.com/codoraai/hackeval-api/internal/models"
)

// SetRoundRequest activates a hackathon round.
type SetRoundRequest struct {
	Round string `json:"round" validate:"required,min=1"`
}

// RoundStateResponse serializes one round state row.
type RoundStateResponse struct {
	ID       uint       `json:"id"`
	Round    string     `json:"round"`
	IsActive bool       `json:"is_active"`
	ActiveAt *time.Time `json:"active_at"`
}

// NewRoundStateResponse converts a RoundState model into a DTO.
func NewRoundStateResponse(model models.RoundState) RoundStateResponse {
	return RoundStateResponse{
		ID:       model.ID,
		Round:    model.Round,
		IsActive: model.IsActive,
		ActiveAt: model.ActiveAt,
	}
}

// NewRoundStateResponseSlice converts round states into DTOs.
func NewRoundStateResponseSlice(items []models.RoundState) []RoundStateResponse {
	responses := make([]RoundStateResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewRoundStateResponse(item))
	}

	return responses
}
