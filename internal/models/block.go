package models

import (
	"time"

	"github.com/google/uuid"
)

// Block stops BlockedID from sending chat messages to BlockerID.
type Block struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlockerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair" json:"blocker_id"`
	BlockedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair;index" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}
