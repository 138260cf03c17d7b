package models

import (
	"time"

	"github.com/google/uuid"
)

// Match pairs a mentee with a mentor. Score is 0-100.
type Match struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MenteeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_matches_pair" json:"mentee_id"`
	MentorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_matches_pair;index" json:"mentor_id"`
	Score      int       `json:"score"`
	Reason     string    `gorm:"type:text" json:"reason"`
	IsApproved bool      `gorm:"default:false" json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
