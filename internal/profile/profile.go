// Package profile loads the onboarding records of a user as one value.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Profile is everything a user entered during onboarding. Missing 1:1
// records are nil.
type Profile struct {
	UserID     uuid.UUID                      `json:"id"`
	Personal   *models.PersonalInformation    `json:"personal_information,omitempty"`
	Academic   []models.AcademicQualification `json:"academic_qualifications"`
	Employment []models.EmploymentHistory     `json:"employment_history"`
	Skills     *models.SkillsAndInterests     `json:"skills_and_interests,omitempty"`
	Bio        *models.Bio                    `json:"bio,omitempty"`
}

// Load fetches all records of userID concurrently.
func Load(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*Profile, error) {
	p := &Profile{UserID: userID}
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var row models.PersonalInformation
		found, err := first(ctx, db, &row, userID)
		if found {
			p.Personal = &row
		}
		return err
	})
	eg.Go(func() error {
		return db.WithContext(ctx).Preload("Award").
			Where("user_id = ?", userID).Order("graduation_year DESC").
			Find(&p.Academic).Error
	})
	eg.Go(func() error {
		return db.WithContext(ctx).
			Where("user_id = ?", userID).Order("start_date DESC").
			Find(&p.Employment).Error
	})
	eg.Go(func() error {
		var row models.SkillsAndInterests
		found, err := first(ctx, db, &row, userID)
		if found {
			p.Skills = &row
		}
		return err
	})
	eg.Go(func() error {
		var row models.Bio
		found, err := first(ctx, db, &row, userID)
		if found {
			p.Bio = &row
		}
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return p, nil
}

func first(ctx context.Context, db *gorm.DB, dest interface{}, userID uuid.UUID) (bool, error) {
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Profile) FullName() string {
	if p.Personal == nil {
		return ""
	}
	return p.Personal.FullName()
}

func (p *Profile) SkillList() []string {
	if p.Skills == nil {
		return []string{}
	}
	return models.SplitList(p.Skills.Skills)
}

func (p *Profile) InterestList() []string {
	if p.Skills == nil {
		return []string{}
	}
	return models.SplitList(p.Skills.Interests)
}

func (p *Profile) BioText() string {
	if p.Bio == nil {
		return ""
	}
	return p.Bio.Bio
}

type academicSummary struct {
	Institution     string `json:"institution"`
	Course          string `json:"course"`
	Specializations string `json:"specialization"`
	Award           string `json:"award"`
	GraduationYear  int    `json:"graduation_year"`
}

type employmentSummary struct {
	Designation string `json:"designation"`
	Duties      string `json:"duties"`
}

type skillsSummary struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

// AcademicJSON renders the academic records for a prompt.
func (p *Profile) AcademicJSON() string {
	out := make([]academicSummary, 0, len(p.Academic))
	for _, a := range p.Academic {
		out = append(out, academicSummary{
			Institution: a.Institution, Course: a.Course, Specializations: a.Specializations,
			Award: a.Award.Name, GraduationYear: a.GraduationYear,
		})
	}
	return mustJSON(out)
}

// EmploymentJSON renders the employment records for a prompt.
func (p *Profile) EmploymentJSON() string {
	out := make([]employmentSummary, 0, len(p.Employment))
	for _, e := range p.Employment {
		out = append(out, employmentSummary{Designation: e.Designation, Duties: e.Duties})
	}
	return mustJSON(out)
}

// SkillsJSON renders skills and interests for a prompt.
func (p *Profile) SkillsJSON() string {
	return mustJSON(skillsSummary{Skills: p.SkillList(), Interests: p.InterestList()})
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
