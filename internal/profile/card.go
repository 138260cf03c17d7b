package profile

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Card is the short public view of a user shown in directories and lists.
type Card struct {
	ID         uuid.UUID   `json:"id"`
	Role       models.Role `json:"role,omitempty"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	ProfileURL string      `json:"profile"`
	Skills     []string    `json:"skills"`
	Interests  []string    `json:"interests"`
	Bio        string      `json:"bio,omitempty"`
}

func (p *Profile) Card() Card {
	c := Card{ID: p.UserID, Skills: p.SkillList(), Interests: p.InterestList(), Bio: p.BioText()}
	if p.Personal != nil {
		c.FirstName = p.Personal.FirstName
		c.LastName = p.Personal.LastName
		c.ProfileURL = p.Personal.ProfileURL
	}
	return c
}

// UserIDsWithRole lists users holding role, oldest assignment first.
func UserIDsWithRole(ctx context.Context, db *gorm.DB, role models.Role) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&models.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", role).
		Order("user_roles.created_at").
		Pluck("user_roles.user_id", &ids).Error
	return ids, err
}

// LoadMany loads the profiles of ids with at most limit loads in flight.
// The result keeps the order of ids.
func LoadMany(ctx context.Context, db *gorm.DB, ids []uuid.UUID, limit int) ([]*Profile, error) {
	out := make([]*Profile, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			p, err := Load(egCtx, db, id)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Cards is LoadMany reduced to cards.
func Cards(ctx context.Context, db *gorm.DB, ids []uuid.UUID, limit int) ([]Card, error) {
	profiles, err := LoadMany(ctx, db, ids, limit)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, len(profiles))
	for i, p := range profiles {
		cards[i] = p.Card()
	}
	return cards, nil
}
