package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewed  ReportStatus = "reviewed"
	ReportActioned  ReportStatus = "actioned"
	ReportDismissed ReportStatus = "dismissed"
)

// Resolved reports whether an admin may move a report into s.
func (s ReportStatus) Resolved() bool {
	return s == ReportReviewed || s == ReportActioned || s == ReportDismissed
}

// ReportTargets are the kinds of content a report can point at.
var ReportTargets = map[string]bool{"user": true, "message": true, "resource": true, "opportunity": true}

// Report is a complaint about a user, a chat message, a resource or an
// opportunity. ContentID is free text since the targets live in
// different tables.
type Report struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ContentType string       `gorm:"size:20;not null" json:"content_type"`
	ContentID   string       `gorm:"size:64;index" json:"content_id"`
	Reason      string       `gorm:"size:500;not null" json:"reason"`
	Status      ReportStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	AdminNote   string       `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
