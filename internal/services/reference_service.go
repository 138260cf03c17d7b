package services

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrAwardNotFound = errors.New("award not found")
)

const (
	rolesCacheKey  = "roles"
	awardsCacheKey = "awards"
)

// ReferenceService serves the small, rarely changing lookup tables (roles
// and awards) from an in-process cache.
type ReferenceService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewReferenceService caches lookups for ttl. Expired entries are dropped on
// read, so no janitor goroutine is started.
func NewReferenceService(db *gorm.DB, ttl time.Duration) *ReferenceService {
	return &ReferenceService{db: db, cache: cache.New(ttl, 0)}
}

func (s *ReferenceService) Roles(ctx context.Context) ([]models.RoleRecord, error) {
	if v, ok := s.cache.Get(rolesCacheKey); ok {
		return v.([]models.RoleRecord), nil
	}
	var roles []models.RoleRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	s.cache.Set(rolesCacheKey, roles, cache.DefaultExpiration)
	return roles, nil
}

// SelectableRoles are the roles a user may pick for themselves.
func (s *ReferenceService) SelectableRoles(ctx context.Context) ([]models.RoleRecord, error) {
	roles, err := s.Roles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.RoleRecord, 0, len(roles))
	for _, r := range roles {
		switch r.Name {
		case models.RoleMentee, models.RoleMentor, models.RoleOrg:
			out = append(out, r)
		case models.RoleAdmin, models.RoleGuest:
		}
	}
	return out, nil
}

func (s *ReferenceService) RoleByName(ctx context.Context, name models.Role) (*models.RoleRecord, error) {
	roles, err := s.Roles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		if roles[i].Name == name {
			return &roles[i], nil
		}
	}
	return nil, ErrRoleNotFound
}

func (s *ReferenceService) Awards(ctx context.Context) ([]models.Award, error) {
	if v, ok := s.cache.Get(awardsCacheKey); ok {
		return v.([]models.Award), nil
	}
	var awards []models.Award
	if err := s.db.WithContext(ctx).Order("id").Find(&awards).Error; err != nil {
		return nil, err
	}
	s.cache.Set(awardsCacheKey, awards, cache.DefaultExpiration)
	return awards, nil
}

func (s *ReferenceService) AwardByID(ctx context.Context, id uint) (*models.Award, error) {
	awards, err := s.Awards(ctx)
	if err != nil {
		return nil, err
	}
	for i := range awards {
		if awards[i].ID == id {
			return &awards[i], nil
		}
	}
	return nil, ErrAwardNotFound
}
