package resources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/rag"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrResourceNotFound = errors.New("resource not found")

// Retriever is the retrieval-augmented chat service resources are trained into.
type Retriever interface {
	Train(ctx context.Context, req rag.TrainRequest) (string, error)
	Query(ctx context.Context, query string) (string, error)
}

type CreateRequest struct {
	Type      models.ResourceType `json:"type"`
	SourceURL string              `json:"source_url"`
	Name      string              `json:"name"`
}

type TrainRequest struct {
	Type      models.ResourceType `json:"type"`
	SourceURL string              `json:"source_url"`
	Query     string              `json:"query"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type Service struct {
	db  *gorm.DB
	rag Retriever
}

func NewService(db *gorm.DB, retriever Retriever) *Service {
	return &Service{db: db, rag: retriever}
}

func checkSource(typ models.ResourceType, source string) error {
	if !typ.Valid() {
		return validate.Errorf("Type must be one of file, website, youtube.")
	}
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return validate.Errorf("Please enter a valid URL.")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.Resource, error) {
	if err := checkSource(req.Type, req.SourceURL); err != nil {
		return nil, err
	}
	r := models.Resource{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      req.Type,
		SourceURL: strings.TrimSpace(req.SourceURL),
		Name:      strings.TrimSpace(req.Name),
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("save resource: %w", err)
	}
	return &r, nil
}

// List returns a mentor's own resources, or for a mentee the resources of
// every mentor that approved them.
func (s *Service) List(ctx context.Context, sess session.Context) ([]models.Resource, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	switch sess.Role {
	case models.RoleMentor:
		q = q.Scopes(session.OwnedBy(sess.UserID))
	case models.RoleMentee:
		mentors := s.db.Model(&models.Match{}).
			Select("mentor_id").
			Where("mentee_id = ? AND is_approved = ?", sess.UserID, true)
		q = q.Where("user_id IN (?)", mentors)
	case models.RoleOrg, models.RoleAdmin, models.RoleGuest:
		return []models.Resource{}, nil
	default:
		return nil, models.ErrUnknownRole
	}
	var out []models.Resource
	err := q.Find(&out).Error
	return out, err
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Scopes(session.OwnedBy(userID)).
		Where("id = ?", id).Delete(&models.Resource{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

// Train sends a source to the retrieval service and returns its answer to
// the test query.
func (s *Service) Train(ctx context.Context, req TrainRequest) (string, error) {
	if err := checkSource(req.Type, req.SourceURL); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Query) == "" {
		return "", validate.Errorf("Please enter a test query.")
	}
	return s.rag.Train(ctx, rag.TrainRequest{
		Type:      string(req.Type),
		SourceURL: strings.TrimSpace(req.SourceURL),
		Query:     req.Query,
	})
}

func (s *Service) Query(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", validate.Errorf("Please enter a question.")
	}
	return s.rag.Query(ctx, query)
}
