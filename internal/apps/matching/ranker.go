package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/profile"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// TopMentors is how many AI-ranked mentors are returned.
const TopMentors = 5

var mentorScoreSchema = completion.MustSchema("mentor_match", `{
	"type": "object",
	"required": ["mentor_id", "score", "reason"],
	"properties": {
		"mentor_id": {"type": "string"},
		"score": {"type": "number", "minimum": 1, "maximum": 10},
		"reason": {"type": "string"}
	}
}`)

type mentorScore struct {
	MentorID string  `json:"mentor_id"`
	Score    float64 `json:"score"`
	Reason   string  `json:"reason"`
}

// Suggestion is one AI-ranked mentor. Score is on the 1-10 scale.
type Suggestion struct {
	MentorID uuid.UUID     `json:"mentor_id"`
	Score    float64       `json:"score"`
	Reason   string        `json:"reason"`
	Mentor   *profile.Card `json:"mentor,omitempty"`
}

type RankResult struct {
	Matches    []Suggestion `json:"matches"`
	Candidates int          `json:"candidates"`
	Dropped    int          `json:"dropped"`
}

// Ranker scores every mentor against a mentee with the completion service.
type Ranker struct {
	db          *gorm.DB
	ai          completion.Completer
	concurrency int
}

func NewRanker(db *gorm.DB, ai completion.Completer, concurrency int) *Ranker {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Ranker{db: db, ai: ai, concurrency: concurrency}
}

// RankMentors asks for one score per mentor. A candidate whose request fails
// or whose reply is unparseable is dropped; the others are still returned.
func (r *Ranker) RankMentors(ctx context.Context, menteeID uuid.UUID) (*RankResult, error) {
	mentee, err := profile.Load(ctx, r.db, menteeID)
	if err != nil {
		return nil, fmt.Errorf("load mentee profile: %w", err)
	}

	ids, err := profile.UserIDsWithRole(ctx, r.db, models.RoleMentor)
	if err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	candidates := ids[:0]
	for _, id := range ids {
		if id != menteeID {
			candidates = append(candidates, id)
		}
	}

	mentors, err := profile.LoadMany(ctx, r.db, candidates, r.concurrency)
	if err != nil {
		return nil, fmt.Errorf("load mentor profiles: %w", err)
	}

	scored := make([]*Suggestion, len(mentors))
	eg := new(errgroup.Group)
	eg.SetLimit(r.concurrency)
	for i, mentor := range mentors {
		i, mentor := i, mentor
		eg.Go(func() error {
			var reply mentorScore
			err := completion.Ask(ctx, r.ai, mentorScoreSchema, mentorPrompt(mentee, mentor), &reply)
			if err == nil {
				err = checkMentorID(reply.MentorID, mentor.UserID)
			}
			if err != nil {
				logDrop(mentor.UserID, err)
				return nil
			}
			card := mentor.Card()
			scored[i] = &Suggestion{MentorID: mentor.UserID, Score: reply.Score, Reason: reply.Reason, Mentor: &card}
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &RankResult{Matches: []Suggestion{}, Candidates: len(mentors)}
	for _, s := range scored {
		if s == nil {
			res.Dropped++
			continue
		}
		res.Matches = append(res.Matches, *s)
	}
	sort.SliceStable(res.Matches, func(a, b int) bool {
		return res.Matches[a].Score > res.Matches[b].Score
	})
	if len(res.Matches) > TopMentors {
		res.Matches = res.Matches[:TopMentors]
	}
	return res, nil
}

// checkMentorID rejects a reply scored for a different candidate than the
// one asked about.
func checkMentorID(got string, want uuid.UUID) error {
	if id, err := uuid.Parse(strings.TrimSpace(got)); err == nil && id == want {
		return nil
	}
	return &completion.UnparseableError{
		Schema:  "mentor_match",
		Raw:     got,
		Reasons: []string{fmt.Sprintf("mentor_id %q does not match %s", got, want)},
	}
}

func logDrop(mentorID uuid.UUID, err error) {
	var ue *completion.UnparseableError
	if errors.As(err, &ue) {
		slog.Warn("dropping mentor candidate, unparseable completion",
			"component", "matching", "mentor_id", mentorID.String(), "reasons", ue.Reasons, "raw", ue.Raw)
		return
	}
	slog.Warn("dropping mentor candidate", "component", "matching", "mentor_id", mentorID.String(), "error", err)
}

func mentorPrompt(mentee, mentor *profile.Profile) string {
	return fmt.Sprintf(`Evaluate the match between the following mentee and mentor based on their profiles:
Mentee Profile:
Academic Info: %s
Employment History: %s
Skills & Interests: %s

Mentor Profile:
Academic Info: %s
Employment History: %s
Skills & Interests: %s

Provide a score (1-10) along with a reason in JSON format. The reason should be written as if addressing the mentee directly, starting with "You...":
{
  "mentor_id": "%s",
  "score": <score>,
  "reason": "<reason>"
}`,
		mentee.AcademicJSON(), mentee.EmploymentJSON(), mentee.SkillsJSON(),
		mentor.AcademicJSON(), mentor.EmploymentJSON(), mentor.SkillsJSON(),
		mentor.UserID)
}
