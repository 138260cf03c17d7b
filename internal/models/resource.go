package models

import (
	"time"

	"github.com/google/uuid"
)

type ResourceType string

const (
	ResourceFile    ResourceType = "file"
	ResourceWebsite ResourceType = "website"
	ResourceYoutube ResourceType = "youtube"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceFile, ResourceWebsite, ResourceYoutube:
		return true
	}
	return false
}

type Resource struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      ResourceType `gorm:"size:20;not null" json:"type"`
	SourceURL string       `gorm:"type:text;not null" json:"source_url"`
	Name      string       `gorm:"size:255" json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}
