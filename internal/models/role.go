package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Every switch over Role must list
// all five values and treat anything else as ErrUnknownRole.
type Role string

const (
	RoleMentee Role = "mentee"
	RoleMentor Role = "mentor"
	RoleOrg    Role = "org"
	RoleAdmin  Role = "admin"
	RoleGuest  Role = "guest"
)

var ErrUnknownRole = errors.New("unknown role")

// AllRoles returns the roles in the order they are seeded.
func AllRoles() []Role {
	return []Role{RoleMentee, RoleMentor, RoleOrg, RoleAdmin, RoleGuest}
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleMentee, RoleMentor, RoleOrg, RoleAdmin, RoleGuest:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

// RoleRecord is the roles reference table.
type RoleRecord struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name Role   `gorm:"size:20;not null;uniqueIndex" json:"name"`
	Desc string `gorm:"size:255" json:"description"`
}

func (RoleRecord) TableName() string { return "roles" }

// UserRole binds a user to one role. The primary key on user_id makes a
// second assignment fail at the storage layer.
type UserRole struct {
	UserID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	RoleID     uint       `gorm:"not null;index" json:"role_id"`
	RoleRecord RoleRecord `gorm:"foreignKey:RoleID" json:"role"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (UserRole) TableName() string { return "user_roles" }
