package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomKey    string    `gorm:"size:80;not null;index" json:"room_key"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Message    string    `gorm:"type:text" json:"message"`
	Attachment string    `gorm:"type:text" json:"attachment,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// RoomKey is the canonical key for the conversation between a and b. It does
// not depend on who is sending.
func RoomKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + y
}

// RoomKeys lists every key a conversation may have been stored under,
// including the order-dependent keys written before RoomKey existed.
func RoomKeys(a, b uuid.UUID) []string {
	return []string{a.String() + b.String(), b.String() + a.String()}
}
