package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type adminUserRow struct {
	ID        string
	Email     string
	Role      string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// ListUsers pages through accounts with their role and name. An empty role
// lists everyone; "none" lists users who have not picked a role yet.
func (s *AdminService) ListUsers(ctx context.Context, role string, limit, offset int) ([]dto.AdminUser, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("LEFT JOIN user_roles ON user_roles.user_id = users.id").
		Joins("LEFT JOIN roles ON roles.id = user_roles.role_id").
		Joins("LEFT JOIN personal_information ON personal_information.user_id = users.id")

	switch role {
	case "":
	case "none":
		q = q.Where("roles.name IS NULL")
	default:
		r, err := models.ParseRole(role)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where("roles.name = ?", r)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var rows []adminUserRow
	err := q.Select(`users.id, users.email, users.created_at,
		COALESCE(roles.name, '') AS role,
		COALESCE(personal_information.first_name, '') AS first_name,
		COALESCE(personal_information.last_name, '') AS last_name`).
		Order("users.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]dto.AdminUser, 0, len(rows))
	for _, r := range rows {
		u := dto.AdminUser{
			Email:     r.Email,
			Role:      r.Role,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := u.ID.UnmarshalText([]byte(r.ID)); err != nil {
			return nil, 0, fmt.Errorf("user id %q: %w", r.ID, err)
		}
		users = append(users, u)
	}
	return users, total, nil
}

func (s *AdminService) Stats(ctx context.Context) (*dto.AdminStats, error) {
	db := s.db.WithContext(ctx)
	stats := &dto.AdminStats{UsersByRole: map[string]int64{}}

	var byRole []struct {
		Name  string
		Count int64
	}
	err := db.Model(&models.UserRole{}).
		Select("roles.name AS name, COUNT(*) AS count").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Group("roles.name").
		Scan(&byRole).Error
	if err != nil {
		return nil, fmt.Errorf("count roles: %w", err)
	}
	for _, r := range byRole {
		stats.UsersByRole[r.Name] = r.Count
	}

	counts := []struct {
		model interface{}
		where string
		dst   *int64
	}{
		{&models.Match{}, "", &stats.Matches},
		{&models.Opportunity{}, "", &stats.Opportunities},
		{&models.Application{}, "", &stats.Applications},
		{&models.MentorSession{}, "", &stats.Sessions},
		{&models.Report{}, "status = '" + string(models.ReportPending) + "'", &stats.OpenReports},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("count %T: %w", c.model, err)
		}
	}
	return stats, nil
}
