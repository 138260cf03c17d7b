package opportunities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOrgNotFound          = errors.New("organisation not found")
	ErrOpportunityNotFound  = errors.New("opportunity not found")
	ErrOpportunityClosed    = errors.New("opportunity is closed")
	ErrDuplicateApplication = errors.New("pending application exists")
	ErrApplicationNotFound  = errors.New("application not found")
)

const dateLayout = "2006-01-02"

type CreateRequest struct {
	Title       string                 `json:"title"`
	Type        models.OpportunityType `json:"type"`
	Description string                 `json:"description"`
	JobDetails  string                 `json:"job_details"`
	Vacancies   int                    `json:"vacancies"`
	DueDate     string                 `json:"due_date"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ApplyRequest struct {
	SubmittedDocuments string `json:"submitted_documents"`
}

// Stats counts an organisation's opportunities.
type Stats struct {
	Total  int64                            `json:"total"`
	Open   int64                            `json:"open"`
	ByType map[models.OpportunityType]int64 `json:"by_type"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// orgFor resolves the organisation profile owned by userID.
func (s *Service) orgFor(ctx context.Context, userID uuid.UUID) (*models.OrganisationInformation, error) {
	var org models.OrganisationInformation
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (req CreateRequest) validate() (time.Time, error) {
	if err := validate.First(
		validate.MinLen(req.Title, 3, "Title"),
		validate.MinLen(req.Description, 10, "Description"),
	); err != nil {
		return time.Time{}, err
	}
	if !req.Type.Valid() {
		return time.Time{}, validate.Errorf("Type must be one of internships, attachments, jobs.")
	}
	if req.Vacancies < 1 {
		return time.Time{}, validate.Errorf("Vacancies must be at least 1.")
	}
	if req.Vacancies > 1000 {
		return time.Time{}, validate.Errorf("Too many vacancies.")
	}
	if strings.TrimSpace(req.DueDate) == "" {
		return time.Time{}, validate.Errorf("Due date is required.")
	}
	due, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return time.Time{}, validate.Errorf("Due date must be a date (YYYY-MM-DD).")
	}
	return due, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.Opportunity, error) {
	due, err := req.validate()
	if err != nil {
		return nil, err
	}
	org, err := s.orgFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	opp := models.Opportunity{
		ID:            uuid.New(),
		OrgID:         org.ID,
		Title:         strings.TrimSpace(req.Title),
		Type:          req.Type,
		Description:   strings.TrimSpace(req.Description),
		JobDetailsURL: req.JobDetails,
		Vacancies:     req.Vacancies,
		DueDate:       due,
		Status:        models.OpportunityOpen,
	}
	if err := s.db.WithContext(ctx).Create(&opp).Error; err != nil {
		return nil, fmt.Errorf("create opportunity: %w", err)
	}
	return &opp, nil
}

// ListOwn lists the caller's opportunities, optionally of one type.
func (s *Service) ListOwn(ctx context.Context, userID uuid.UUID, typ models.OpportunityType) ([]models.Opportunity, error) {
	if typ != "" && !typ.Valid() {
		return nil, validate.Errorf("Invalid opportunity type.")
	}
	org, err := s.orgFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Where("org_id = ?", org.ID)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	var out []models.Opportunity
	err = q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Service) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	if err := validate.OneOf(status, "Status", models.OpportunityOpen, models.OpportunityClosed); err != nil {
		return err
	}
	org, err := s.orgFor(ctx, userID)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&models.Opportunity{}).
		Where("id = ? AND org_id = ?", id, org.ID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOpportunityNotFound
	}
	return nil
}

// Delete removes an opportunity and its applications.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	org, err := s.orgFor(ctx, userID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND org_id = ?", id, org.ID).Delete(&models.Opportunity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOpportunityNotFound
		}
		return tx.Where("opportunity_id = ?", id).Delete(&models.Application{}).Error
	})
}

func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	org, err := s.orgFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Type   models.OpportunityType
		Status string
		N      int64
	}
	err = s.db.WithContext(ctx).Model(&models.Opportunity{}).
		Select("type, status, COUNT(*) AS n").
		Where("org_id = ?", org.ID).
		Group("type, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	st := &Stats{ByType: map[models.OpportunityType]int64{
		models.OpportunityJobs:        0,
		models.OpportunityInternships: 0,
		models.OpportunityAttachments: 0,
	}}
	for _, r := range rows {
		st.Total += r.N
		st.ByType[r.Type] += r.N
		if r.Status == models.OpportunityOpen {
			st.Open += r.N
		}
	}
	return st, nil
}

// ListOpen lists OPEN opportunities for mentees, newest first.
func (s *Service) ListOpen(ctx context.Context, typ models.OpportunityType) ([]models.Opportunity, error) {
	if typ != "" && !typ.Valid() {
		return nil, validate.Errorf("Invalid opportunity type.")
	}
	q := s.db.WithContext(ctx).Preload("Org").Where("status = ?", models.OpportunityOpen)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	var out []models.Opportunity
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	var opp models.Opportunity
	err := s.db.WithContext(ctx).Preload("Org").First(&opp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOpportunityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

// Apply submits an application. A mentee may hold only one PENDING
// application per opportunity.
func (s *Service) Apply(ctx context.Context, menteeID, oppID uuid.UUID, req ApplyRequest) (*models.Application, error) {
	if strings.TrimSpace(req.SubmittedDocuments) == "" {
		return nil, validate.Errorf("Please select a file")
	}
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, err
	}
	if opp.Status != models.OpportunityOpen {
		return nil, ErrOpportunityClosed
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("opportunity_id = ? AND mentee_id = ? AND status = ?", oppID, menteeID, models.ApplicationPending).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicateApplication
	}

	app := models.Application{
		ID:                 uuid.New(),
		OpportunityID:      oppID,
		MenteeID:           menteeID,
		SubmittedDocuments: req.SubmittedDocuments,
		Status:             models.ApplicationPending,
	}
	err = s.db.WithContext(ctx).Create(&app).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateApplication
	}
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return &app, nil
}

func (s *Service) MyApplications(ctx context.Context, menteeID uuid.UUID) ([]models.Application, error) {
	var out []models.Application
	err := s.db.WithContext(ctx).Preload("Opportunity").Preload("Opportunity.Org").
		Where("mentee_id = ?", menteeID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// Applications lists the applications to one of the caller's opportunities.
func (s *Service) Applications(ctx context.Context, userID, oppID uuid.UUID) ([]models.Application, error) {
	if err := s.owns(ctx, userID, oppID); err != nil {
		return nil, err
	}
	var out []models.Application
	err := s.db.WithContext(ctx).Where("opportunity_id = ?", oppID).Order("created_at").Find(&out).Error
	return out, err
}

func (s *Service) SetApplicationStatus(ctx context.Context, userID, appID uuid.UUID, status string) error {
	if err := validate.OneOf(status, "Status",
		models.ApplicationPending, models.ApplicationAccepted, models.ApplicationRejected); err != nil {
		return err
	}
	var app models.Application
	err := s.db.WithContext(ctx).First(&app, "id = ?", appID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrApplicationNotFound
	}
	if err != nil {
		return err
	}
	if err := s.owns(ctx, userID, app.OpportunityID); err != nil {
		if errors.Is(err, ErrOpportunityNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}
	err = s.db.WithContext(ctx).Model(&app).Update("status", status).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateApplication
	}
	return err
}

func (s *Service) owns(ctx context.Context, userID, oppID uuid.UUID) error {
	org, err := s.orgFor(ctx, userID)
	if err != nil {
		return err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Opportunity{}).
		Where("id = ? AND org_id = ?", oppID, org.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrOpportunityNotFound
	}
	return nil
}
