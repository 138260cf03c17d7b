package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRoleAlreadySet    = errors.New("role already assigned")
	ErrRoleNotSelectable = errors.New("role cannot be selected")
	ErrEntryNotFound     = errors.New("entry not found")
)

var timeNow = time.Now

const dateLayout = "2006-01-02"

type Service struct {
	db   *gorm.DB
	refs *services.ReferenceService
	gate *Gate
}

func NewService(db *gorm.DB, refs *services.ReferenceService) *Service {
	return &Service{db: db, refs: refs, gate: NewGate(db)}
}

// Dashboard decides where the client should go after login.
func (s *Service) Dashboard(ctx context.Context, sess session.Context) (*DashboardResponse, error) {
	if !sess.HasRole() {
		return &DashboardResponse{Redirect: RoleSelectionPath}, nil
	}
	sidebar, err := Sidebar(sess.Role)
	if err != nil {
		return nil, err
	}
	done, err := IsOnboarded(ctx, s.db, sess.UserID)
	if err != nil {
		return nil, err
	}
	if !done {
		return &DashboardResponse{Redirect: "/on-boarding/" + StepPersonalInformation, Role: sess.Role}, nil
	}
	return &DashboardResponse{Redirect: "/" + string(sess.Role), Role: sess.Role, Sidebar: sidebar}, nil
}

// AssignRole stores the user's one-time role choice.
func (s *Service) AssignRole(ctx context.Context, userID uuid.UUID, name string) (*models.RoleRecord, error) {
	role, err := models.ParseRole(name)
	if err != nil {
		return nil, err
	}
	selectable, err := s.refs.SelectableRoles(ctx)
	if err != nil {
		return nil, err
	}
	var rec *models.RoleRecord
	for i := range selectable {
		if selectable[i].Name == role {
			rec = &selectable[i]
		}
	}
	if rec == nil {
		return nil, ErrRoleNotSelectable
	}

	if _, err := session.LookupRole(ctx, s.db, userID); err == nil {
		return nil, ErrRoleAlreadySet
	} else if !errors.Is(err, session.ErrNoRole) {
		return nil, err
	}

	err = s.db.WithContext(ctx).Create(&models.UserRole{UserID: userID, RoleID: rec.ID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrRoleAlreadySet
	}
	if err != nil {
		return nil, fmt.Errorf("save user role: %w", err)
	}
	return rec, nil
}

// firstByUser loads the 1:1 row of userID into dest. A missing row is not
// an error.
func (s *Service) firstByUser(ctx context.Context, dest interface{}, userID uuid.UUID) (bool, error) {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) GetPersonalInformation(ctx context.Context, userID uuid.UUID) (*FormResponse, error) {
	row := models.PersonalInformation{UserID: userID}
	found, err := s.firstByUser(ctx, &row, userID)
	if err != nil {
		return nil, err
	}
	return &FormResponse{Exists: found, Data: row}, nil
}

func (s *Service) SavePersonalInformation(ctx context.Context, userID uuid.UUID, req PersonalInformationRequest) (*models.PersonalInformation, error) {
	err := validate.First(
		validate.MinLen(req.FirstName, 2, "First name"),
		validate.MinLen(req.LastName, 2, "Last name"),
		validate.OneOf(req.Gender, "Gender", "Male", "Female", "Other"),
	)
	if err != nil {
		return nil, err
	}
	if req.PWD && validate.MinLen(req.PWDDescription, 1, "Disability description") != nil {
		return nil, validate.Errorf("Please describe your disability.")
	}

	row := models.PersonalInformation{UserID: userID}
	if _, err := s.firstByUser(ctx, &row, userID); err != nil {
		return nil, err
	}
	row.FirstName = req.FirstName
	row.LastName = req.LastName
	row.Gender = req.Gender
	row.Address = req.Address
	row.PWD = req.PWD
	row.PWDDescription = req.PWDDescription
	if !req.PWD {
		row.PWDDescription = ""
	}
	if req.ProfileURL != "" {
		row.ProfileURL = req.ProfileURL
	}

	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("save personal information: %w", err)
	}
	return &row, nil
}

func (s *Service) ListAcademicQualifications(ctx context.Context, userID uuid.UUID) ([]models.AcademicQualification, error) {
	var rows []models.AcademicQualification
	err := s.db.WithContext(ctx).Preload("Award").
		Where("user_id = ?", userID).Order("graduation_year DESC").
		Find(&rows).Error
	return rows, err
}

func (s *Service) AddAcademicQualification(ctx context.Context, userID uuid.UUID, req AcademicQualificationRequest) (*models.AcademicQualification, error) {
	specializations := models.JoinList(req.Specializations)
	err := validate.First(
		validate.MinLen(req.Institution, 2, "Institution name"),
		validate.MinLen(req.Course, 2, "Course"),
	)
	if err != nil {
		return nil, err
	}
	if specializations == "" {
		return nil, validate.Errorf("At least one specialization is required.")
	}
	if maxYear := timeNow().Year() + 10; req.GraduationYear < 1900 || req.GraduationYear > maxYear {
		return nil, validate.Errorf("Graduation year must be between 1900 and %d.", maxYear)
	}
	award, err := s.refs.AwardByID(ctx, req.AwardID)
	if errors.Is(err, services.ErrAwardNotFound) {
		return nil, validate.Errorf("Please select an award.")
	}
	if err != nil {
		return nil, err
	}

	row := models.AcademicQualification{
		ID:              uuid.New(),
		UserID:          userID,
		Institution:     req.Institution,
		Course:          req.Course,
		Specializations: specializations,
		AwardID:         award.ID,
		GraduationYear:  req.GraduationYear,
		CertificateURL:  req.CertificateURL,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save academic qualification: %w", err)
	}
	row.Award = *award
	return &row, nil
}

func (s *Service) DeleteAcademicQualification(ctx context.Context, userID, id uuid.UUID) error {
	return s.deleteOwned(ctx, &models.AcademicQualification{}, userID, id)
}

func (s *Service) ListEmploymentHistory(ctx context.Context, userID uuid.UUID) ([]models.EmploymentHistory, error) {
	var rows []models.EmploymentHistory
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_date DESC").Find(&rows).Error
	return rows, err
}

func (s *Service) AddEmploymentHistory(ctx context.Context, userID uuid.UUID, req EmploymentHistoryRequest) (*models.EmploymentHistory, error) {
	err := validate.First(
		validate.MinLen(req.Designation, 2, "Designation"),
		validate.MinLen(req.Duties, 10, "Duties"),
	)
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, validate.Errorf("A start date is required.")
	}

	row := models.EmploymentHistory{
		ID:                      uuid.New(),
		UserID:                  userID,
		Designation:             req.Designation,
		Duties:                  req.Duties,
		RecommendationLetterURL: req.RecommendationLetterURL,
		StartDate:               start,
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, validate.Errorf("End date must be a date (YYYY-MM-DD).")
		}
		if end.Before(start) {
			return nil, validate.Errorf("End date cannot be before the start date.")
		}
		row.EndDate = &end
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save employment history: %w", err)
	}
	return &row, nil
}

func (s *Service) DeleteEmploymentHistory(ctx context.Context, userID, id uuid.UUID) error {
	return s.deleteOwned(ctx, &models.EmploymentHistory{}, userID, id)
}

func (s *Service) deleteOwned(ctx context.Context, model interface{}, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Scopes(session.OwnedBy(userID)).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Service) GetSkillsAndInterests(ctx context.Context, userID uuid.UUID) (*FormResponse, error) {
	row := models.SkillsAndInterests{UserID: userID}
	found, err := s.firstByUser(ctx, &row, userID)
	if err != nil {
		return nil, err
	}
	return &FormResponse{Exists: found, Data: skillsView(&row)}, nil
}

func (s *Service) SaveSkillsAndInterests(ctx context.Context, userID uuid.UUID, req SkillsAndInterestsRequest) (*SkillsAndInterestsView, error) {
	skills, interests := models.JoinList(req.Skills), models.JoinList(req.Interests)
	if skills == "" {
		return nil, validate.Errorf("At least one skill is required.")
	}
	if interests == "" {
		return nil, validate.Errorf("At least one interest is required.")
	}

	row := models.SkillsAndInterests{UserID: userID}
	if _, err := s.firstByUser(ctx, &row, userID); err != nil {
		return nil, err
	}
	row.Skills = skills
	row.Interests = interests
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("save skills and interests: %w", err)
	}
	view := skillsView(&row)
	return &view, nil
}

func (s *Service) GetBio(ctx context.Context, userID uuid.UUID) (*FormResponse, error) {
	row := models.Bio{UserID: userID}
	found, err := s.firstByUser(ctx, &row, userID)
	if err != nil {
		return nil, err
	}
	return &FormResponse{Exists: found, Data: row}, nil
}

func (s *Service) SaveBio(ctx context.Context, userID uuid.UUID, req BioRequest) (*models.Bio, error) {
	if err := validate.MinLen(req.Bio, 20, "Bio"); err != nil {
		return nil, err
	}
	row := models.Bio{UserID: userID}
	if _, err := s.firstByUser(ctx, &row, userID); err != nil {
		return nil, err
	}
	row.Bio = req.Bio
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("save bio: %w", err)
	}
	return &row, nil
}

func (s *Service) GetOrganisationInformation(ctx context.Context, userID uuid.UUID) (*FormResponse, error) {
	row := models.OrganisationInformation{UserID: userID}
	found, err := s.firstByUser(ctx, &row, userID)
	if err != nil {
		return nil, err
	}
	return &FormResponse{Exists: found, Data: row}, nil
}

func (s *Service) SaveOrganisationInformation(ctx context.Context, userID uuid.UUID, req OrganisationInformationRequest) (*models.OrganisationInformation, error) {
	if err := validate.MinLen(req.Name, 2, "Organisation name"); err != nil {
		return nil, err
	}
	row := models.OrganisationInformation{UserID: userID}
	found, err := s.firstByUser(ctx, &row, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		row.ID = uuid.New()
	}
	row.Name = req.Name
	row.About = req.About
	if req.LogoURL != "" {
		row.LogoURL = req.LogoURL
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("save organisation information: %w", err)
	}
	return &row, nil
}
