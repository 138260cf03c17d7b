package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Labels reported in GateResult.Missing.
const (
	MissingPersonalInformation     = "Personal Information"
	MissingAcademicQualifications  = "Academic Qualifications"
	MissingSkillsAndInterests      = "Skills and Interests"
	MissingMyBio                   = "My Bio"
	MissingEmploymentHistory       = "Employment History"
	MissingOrganisationInformation = "Organisation Information"
)

type requirement struct {
	label string
	model interface{}
}

var (
	reqPersonal     = requirement{MissingPersonalInformation, &models.PersonalInformation{}}
	reqAcademic     = requirement{MissingAcademicQualifications, &models.AcademicQualification{}}
	reqSkills       = requirement{MissingSkillsAndInterests, &models.SkillsAndInterests{}}
	reqBio          = requirement{MissingMyBio, &models.Bio{}}
	reqEmployment   = requirement{MissingEmploymentHistory, &models.EmploymentHistory{}}
	reqOrganisation = requirement{MissingOrganisationInformation, &models.OrganisationInformation{}}
)

// requirementsFor lists what role must have filled in, in reporting order.
func requirementsFor(role models.Role) ([]requirement, error) {
	switch role {
	case models.RoleMentee:
		return []requirement{reqPersonal, reqAcademic, reqSkills, reqBio}, nil
	case models.RoleMentor:
		return []requirement{reqPersonal, reqAcademic, reqSkills, reqBio, reqEmployment}, nil
	case models.RoleOrg:
		return []requirement{reqPersonal, reqOrganisation}, nil
	case models.RoleAdmin, models.RoleGuest:
		return nil, models.ErrUnknownRole
	default:
		return nil, models.ErrUnknownRole
	}
}

type GateResult struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
}

// Gate decides whether a user has filled in everything their role needs.
// Every call re-reads the store.
type Gate struct {
	db *gorm.DB
}

func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

func (g *Gate) Check(ctx context.Context, userID uuid.UUID) (*GateResult, error) {
	role, err := session.LookupRole(ctx, g.db, userID)
	if err != nil {
		return nil, err
	}
	return g.CheckRole(ctx, userID, role)
}

// CheckRole runs the presence checks for a role that is already known.
func (g *Gate) CheckRole(ctx context.Context, userID uuid.UUID, role models.Role) (*GateResult, error) {
	reqs, err := requirementsFor(role)
	if err != nil {
		return nil, err
	}

	present := make([]bool, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, r := range reqs {
		i, r := i, r
		eg.Go(func() error {
			var n int64
			if err := g.db.WithContext(egCtx).Model(r.model).Where("user_id = ?", userID).Count(&n).Error; err != nil {
				return fmt.Errorf("check %s: %w", r.label, err)
			}
			present[i] = n > 0
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &GateResult{Missing: []string{}}
	for i, r := range reqs {
		if !present[i] {
			res.Missing = append(res.Missing, r.label)
		}
	}
	res.Complete = len(res.Missing) == 0
	return res, nil
}

var ErrIncomplete = errors.New("onboarding incomplete")

// Finish records onboarding as done once the gate passes. Finishing twice
// is not an error.
func (g *Gate) Finish(ctx context.Context, userID uuid.UUID) (*GateResult, error) {
	res, err := g.Check(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !res.Complete {
		return res, ErrIncomplete
	}

	status := models.OnboardingStatus{UserID: userID}
	err = g.db.WithContext(ctx).Where(models.OnboardingStatus{UserID: userID}).
		Attrs(models.OnboardingStatus{CompletedAt: timeNow()}).
		FirstOrCreate(&status).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("save onboarding status: %w", err)
	}
	return res, nil
}

// IsOnboarded reports whether the user has an onboarding status row.
func IsOnboarded(ctx context.Context, db *gorm.DB, userID uuid.UUID) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&models.OnboardingStatus{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
