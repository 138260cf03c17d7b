package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ListSeparator joins skills, interests and specializations into one column.
const ListSeparator = ", "

// JoinList trims items, drops empty ones and joins the rest with ListSeparator.
func JoinList(items []string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ListSeparator)
}

// SplitList is the inverse of JoinList for items that do not contain the separator.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, ListSeparator)
}

type PersonalInformation struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	Gender         string    `gorm:"size:10;not null" json:"gender"`
	Address        string    `gorm:"size:255" json:"address"`
	PWD            bool      `gorm:"default:false" json:"pwd"`
	PWDDescription string    `gorm:"type:text" json:"pwd_description"`
	ProfileURL     string    `gorm:"type:text" json:"profile"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (PersonalInformation) TableName() string { return "personal_information" }

func (p PersonalInformation) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Award is the reference table of education levels.
type Award struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}

var DefaultAwards = []string{"Primary", "High School", "Certificate", "Diploma", "Degree", "Masters", "PhD"}

type AcademicQualification struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Institution     string    `gorm:"size:255;not null" json:"institution"`
	Course          string    `gorm:"size:255;not null" json:"course"`
	Specializations string    `gorm:"type:text" json:"specialization"`
	AwardID         uint      `gorm:"not null" json:"award_id"`
	Award           Award     `gorm:"foreignKey:AwardID" json:"award"`
	GraduationYear  int       `json:"graduation_year"`
	CertificateURL  string    `gorm:"type:text" json:"certificate"`
	CreatedAt       time.Time `json:"created_at"`
}

func (AcademicQualification) TableName() string { return "academic_qualifications" }

type EmploymentHistory struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Designation             string     `gorm:"size:255;not null" json:"designation"`
	Duties                  string     `gorm:"type:text" json:"duties"`
	RecommendationLetterURL string     `gorm:"type:text" json:"recommendation_letter"`
	StartDate               time.Time  `json:"start_date"`
	EndDate                 *time.Time `json:"end_date"`
	CreatedAt               time.Time  `json:"created_at"`
}

func (EmploymentHistory) TableName() string { return "employment_history" }

type SkillsAndInterests struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Skills    string    `gorm:"type:text" json:"skills"`
	Interests string    `gorm:"type:text" json:"interests"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SkillsAndInterests) TableName() string { return "skills_and_interests" }

type Bio struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Bio       string    `gorm:"type:text;not null" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Bio) TableName() string { return "bios" }

type OrganisationInformation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	About     string    `gorm:"type:text" json:"about"`
	LogoURL   string    `gorm:"type:text" json:"logo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrganisationInformation) TableName() string { return "organisation_information" }

// OnboardingStatus marks a finished onboarding by its presence.
type OnboardingStatus struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompletedAt time.Time `json:"completed_at"`
}

func (OnboardingStatus) TableName() string { return "onboarding_status" }
