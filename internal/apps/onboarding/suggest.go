package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxDuties        = 6
	maxSuggestedList = 8
	maxBioWords      = 200
)

var ErrNothingToSuggestFrom = errors.New("add academic qualifications or employment history first")

var (
	stringListSchema = completion.MustSchema("string_list", `{
		"type": "array",
		"minItems": 1,
		"items": {"type": "string"}
	}`)

	skillsSchema = completion.MustSchema("skills_and_interests", `{
		"type": "object",
		"required": ["skills", "interests"],
		"properties": {
			"skills": {"type": "array", "items": {"type": "string"}},
			"interests": {"type": "array", "items": {"type": "string"}}
		}
	}`)

	biographySchema = completion.MustSchema("biography", `{
		"type": "object",
		"required": ["biography"],
		"properties": {
			"biography": {"type": "string", "minLength": 1}
		}
	}`)
)

// Suggester drafts form content with the completion service.
type Suggester struct {
	db *gorm.DB
	ai completion.Completer
}

func NewSuggester(db *gorm.DB, ai completion.Completer) *Suggester {
	return &Suggester{db: db, ai: ai}
}

func (s *Suggester) Specializations(ctx context.Context, course string) ([]string, error) {
	if err := validate.MinLen(course, 2, "Course"); err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`Provide me specializations based on the course %s.
Provide only the specialization names, no additional information.
Return a JSON array of strings, for example ["Specialization 1", "Specialization 2"].`, course)

	var out []string
	if err := completion.Ask(ctx, s.ai, stringListSchema, prompt, &out); err != nil {
		return nil, err
	}
	return cleanList(out, 0), nil
}

// Duties returns the top duties for designation joined into one field value.
func (s *Suggester) Duties(ctx context.Context, designation string) (string, error) {
	if err := validate.MinLen(designation, 2, "Designation"); err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(`Provide me duties based on the designation %s.
Provide only the duties description, no additional information.
Return the top %d duties as a JSON array of strings.`, designation, maxDuties)

	var out []string
	if err := completion.Ask(ctx, s.ai, stringListSchema, prompt, &out); err != nil {
		return "", err
	}
	return models.JoinList(cleanList(out, maxDuties)), nil
}

func (s *Suggester) SkillsAndInterests(ctx context.Context, userID uuid.UUID) (*SkillsAndInterestsView, error) {
	p, err := profile.Load(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if len(p.Academic) == 0 && len(p.Employment) == 0 {
		return nil, ErrNothingToSuggestFrom
	}

	prompt := fmt.Sprintf(`Provide me relevant skills and interests based on the following user records:
Academic Information: %s
Employment History: %s
Return the top most relevant %d skills and %d interests.
Return the response in JSON format in this format:
{
  "skills": ["skill 1", "skill 2"],
  "interests": ["interest 1", "interest 2"]
}`, p.AcademicJSON(), p.EmploymentJSON(), maxSuggestedList, maxSuggestedList)

	var out SkillsAndInterestsView
	if err := completion.Ask(ctx, s.ai, skillsSchema, prompt, &out); err != nil {
		return nil, err
	}
	out.Skills = cleanList(out.Skills, maxSuggestedList)
	out.Interests = cleanList(out.Interests, maxSuggestedList)
	return &out, nil
}

type biographyReply struct {
	Biography string `json:"biography"`
}

// Biography drafts a bio from everything else the user has entered.
func (s *Suggester) Biography(ctx context.Context, userID uuid.UUID) (string, error) {
	p, err := profile.Load(ctx, s.db, userID)
	if err != nil {
		return "", err
	}
	if p.Personal == nil {
		return "", validate.Errorf("Fill in your personal information first.")
	}

	var academic, employment strings.Builder
	for _, a := range p.Academic {
		fmt.Fprintf(&academic, "- Course: %s, Specialization: %s, Level of Education: %s\n", a.Course, a.Specializations, a.Award.Name)
	}
	for _, e := range p.Employment {
		fmt.Fprintf(&employment, "- Designation: %s\n", e.Designation)
	}

	prompt := fmt.Sprintf(`Generate a professional biography for the following user, limited to %d words.
The biography should highlight key aspects of the user's education, work experience, and interests.
If the user's highest level of education is Primary or High School, treat the course, skills and
interests as aspirations rather than things the user has already studied or mastered.

Personal Information:
- First Name: %s
- Last Name: %s

Academic Information:
%s
Employment History:
%s
Skills and Interests:
- Skills: %s
- Interests: %s

Return the response in JSON format in this format:
{
  "biography": "<biography>"
}`, maxBioWords, p.Personal.FirstName, p.Personal.LastName, academic.String(), employment.String(),
		strings.Join(p.SkillList(), models.ListSeparator), strings.Join(p.InterestList(), models.ListSeparator))

	var out biographyReply
	if err := completion.Ask(ctx, s.ai, biographySchema, prompt, &out); err != nil {
		return "", err
	}
	return limitWords(strings.TrimSpace(out.Biography), maxBioWords), nil
}

// cleanList trims entries, drops blanks and duplicates, and keeps at most
// limit items when limit > 0.
func cleanList(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(strings.ReplaceAll(item, models.ListSeparator, " "))
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func limitWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}
