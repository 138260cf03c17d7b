package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MentorSession is a booked video meeting between a mentor and one mentee.
type MentorSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MentorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sessions_slot" json:"mentor_id"`
	MenteeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sessions_slot;index" json:"mentee_id"`
	StartTime time.Time `gorm:"not null;uniqueIndex:idx_sessions_slot" json:"start_time"`
	Topic     string    `gorm:"size:255;not null" json:"topic"`
	Agenda    string    `gorm:"type:text" json:"agenda"`
	Duration  int       `gorm:"not null" json:"duration"`
	JoinURL   string    `gorm:"type:text" json:"join_url"`
	StartURL  string    `gorm:"type:text" json:"start_url"`
	Password  string    `gorm:"size:64" json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

func (MentorSession) TableName() string { return "sessions" }

// Step outcomes recorded on a ScheduleAttempt.
const (
	StepOK      = "ok"
	StepFailed  = "failed"
	StepSkipped = "skipped"
)

// ScheduleAttempt records how far scheduling got for one mentee of a batch.
type ScheduleAttempt struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"batch_id"`
	MentorID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"mentor_id"`
	MenteeID       uuid.UUID      `gorm:"type:uuid;not null" json:"mentee_id"`
	SessionID      *uuid.UUID     `gorm:"type:uuid" json:"session_id,omitempty"`
	Meeting        string         `gorm:"size:10;not null" json:"meeting"`
	Persist        string         `gorm:"size:10;not null" json:"persist"`
	Email          string         `gorm:"size:10;not null" json:"email"`
	Error          string         `gorm:"type:text" json:"error,omitempty"`
	MeetingPayload datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
}
