package models

import "time"

// RoundState records which hackathon round is currently open. At most one
// row is active at a time; activating a round deactivates the others.
type RoundState struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Round     string     `gorm:"size:128;uniqueIndex;not null" json:"round"`
	IsActive  bool       `gorm:"default:false" json:"is_active"`
	ActiveAt  *time.Time `json:"active_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
