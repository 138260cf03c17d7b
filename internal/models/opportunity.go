package models

import (
	"time"

	"github.com/google/uuid"
)

type OpportunityType string

const (
	OpportunityJobs        OpportunityType = "jobs"
	OpportunityInternships OpportunityType = "internships"
	OpportunityAttachments OpportunityType = "attachments"
)

func (t OpportunityType) Valid() bool {
	switch t {
	case OpportunityJobs, OpportunityInternships, OpportunityAttachments:
		return true
	}
	return false
}

const (
	OpportunityOpen   = "OPEN"
	OpportunityClosed = "CLOSED"
)

type Opportunity struct {
	ID            uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID         uuid.UUID                `gorm:"type:uuid;not null;index" json:"org"`
	Org           *OrganisationInformation `gorm:"foreignKey:OrgID" json:"organisation,omitempty"`
	Title         string                   `gorm:"size:255;not null" json:"title"`
	Type          OpportunityType          `gorm:"size:20;not null;index" json:"type"`
	Description   string                   `gorm:"type:text;not null" json:"description"`
	JobDetailsURL string                   `gorm:"type:text" json:"job_details"`
	Vacancies     int                      `gorm:"not null" json:"vacancies"`
	DueDate       time.Time                `json:"due_date"`
	Status        string                   `gorm:"size:10;not null;default:'OPEN';index" json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

const (
	ApplicationPending  = "PENDING"
	ApplicationAccepted = "ACCEPTED"
	ApplicationRejected = "REJECTED"
)

// Application is a mentee's submission to an opportunity. At most one
// application per mentee and opportunity may be PENDING.
type Application struct {
	ID                 uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	OpportunityID      uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_pending,where:status = 'PENDING'" json:"oppo_id"`
	Opportunity        *Opportunity `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
	MenteeID           uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_pending,where:status = 'PENDING'" json:"mentee_id"`
	SubmittedDocuments string       `gorm:"type:text" json:"submitted_documents"`
	Status             string       `gorm:"size:10;not null;default:'PENDING'" json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}
