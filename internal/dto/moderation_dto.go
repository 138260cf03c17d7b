package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	ContentType string `json:"content_type"`
	ContentID   string `json:"content_id"`
	Reason      string `json:"reason"`
}

type ActionReportRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

type BlockUserRequest struct {
	BlockedID uuid.UUID `json:"blocked_id"`
}

type AdminUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt string    `json:"created_at"`
}

// AdminStats is the platform overview on the admin dashboard.
type AdminStats struct {
	UsersByRole   map[string]int64 `json:"users_by_role"`
	Matches       int64            `json:"matches"`
	Opportunities int64            `json:"opportunities"`
	Applications  int64            `json:"applications"`
	Sessions      int64            `json:"sessions"`
	OpenReports   int64            `json:"open_reports"`
}
