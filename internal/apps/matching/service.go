package matching

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDuplicateMatch = errors.New("duplicate match")
	ErrMatchNotFound  = errors.New("match not found")
	ErrMentorNotFound = errors.New("mentor not found")
)

type CommitRequest struct {
	MentorID uuid.UUID `json:"mentor_id"`
	Score    float64   `json:"score"`
	Reason   string    `json:"reason"`
}

// MatchView is a match together with the other participant's card.
type MatchView struct {
	models.Match
	Counterpart profile.Card `json:"counterpart"`
}

type MentorDetail struct {
	*profile.Profile
	Match *models.Match `json:"match,omitempty"`
}

type Service struct {
	db          *gorm.DB
	concurrency int
}

func NewService(db *gorm.DB, concurrency int) *Service {
	return &Service{db: db, concurrency: concurrency}
}

// Commit stores the mentee's choice of mentor. Score is on the 1-10 scale
// and is stored as a 0-100 integer.
func (s *Service) Commit(ctx context.Context, menteeID uuid.UUID, req CommitRequest) (*models.Match, error) {
	if req.Score < 0 || req.Score > 10 {
		return nil, validate.Errorf("Score must be between 0 and 10.")
	}
	role, err := session.LookupRole(ctx, s.db, req.MentorID)
	if errors.Is(err, session.ErrNoRole) || (err == nil && role != models.RoleMentor) {
		return nil, ErrMentorNotFound
	}
	if err != nil {
		return nil, err
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Match{}).
		Where("mentee_id = ? AND mentor_id = ?", menteeID, req.MentorID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicateMatch
	}

	m := models.Match{
		ID:       uuid.New(),
		MenteeID: menteeID,
		MentorID: req.MentorID,
		Score:    int(math.Round(req.Score * 10)),
		Reason:   req.Reason,
	}
	err = s.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateMatch
	}
	if err != nil {
		return nil, fmt.Errorf("save match: %w", err)
	}
	return &m, nil
}

func (s *Service) Approve(ctx context.Context, mentorID, menteeID uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.Match{}).
		Where("mentor_id = ? AND mentee_id = ?", mentorID, menteeID).
		Update("is_approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// Decline removes a match request. Either participant may decline.
func (s *Service) Decline(ctx context.Context, mentorID, menteeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("mentor_id = ? AND mentee_id = ?", mentorID, menteeID).
		Delete(&models.Match{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// ListMatches returns the caller's matches. approved filters by approval
// state when not nil.
func (s *Service) ListMatches(ctx context.Context, sess session.Context, approved *bool) ([]MatchView, error) {
	q := s.db.WithContext(ctx).Order("score DESC, created_at")
	switch sess.Role {
	case models.RoleMentee:
		q = q.Where("mentee_id = ?", sess.UserID)
	case models.RoleMentor:
		q = q.Where("mentor_id = ?", sess.UserID)
	case models.RoleOrg, models.RoleAdmin, models.RoleGuest:
		return []MatchView{}, nil
	default:
		return nil, models.ErrUnknownRole
	}
	if approved != nil {
		q = q.Where("is_approved = ?", *approved)
	}

	var matches []models.Match
	if err := q.Find(&matches).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(matches))
	for i, m := range matches {
		ids[i] = m.MentorID
		if sess.Role == models.RoleMentor {
			ids[i] = m.MenteeID
		}
	}
	cards, err := profile.Cards(ctx, s.db, ids, s.concurrency)
	if err != nil {
		return nil, err
	}

	out := make([]MatchView, len(matches))
	for i, m := range matches {
		out[i] = MatchView{Match: m, Counterpart: cards[i]}
	}
	return out, nil
}

// Mentors lists every mentor's card for the directory.
func (s *Service) Mentors(ctx context.Context) ([]profile.Card, error) {
	ids, err := profile.UserIDsWithRole(ctx, s.db, models.RoleMentor)
	if err != nil {
		return nil, err
	}
	return profile.Cards(ctx, s.db, ids, s.concurrency)
}

// Mentor returns a mentor's full profile and, when one exists, the match
// between the mentor and viewer.
func (s *Service) Mentor(ctx context.Context, viewer, mentorID uuid.UUID) (*MentorDetail, error) {
	role, err := session.LookupRole(ctx, s.db, mentorID)
	if errors.Is(err, session.ErrNoRole) || (err == nil && role != models.RoleMentor) {
		return nil, ErrMentorNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := profile.Load(ctx, s.db, mentorID)
	if err != nil {
		return nil, err
	}

	detail := &MentorDetail{Profile: p}
	var m models.Match
	err = s.db.WithContext(ctx).Where("mentee_id = ? AND mentor_id = ?", viewer, mentorID).First(&m).Error
	switch {
	case err == nil:
		detail.Match = &m
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return detail, nil
}
