package opportunities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrBioMissing means the mentee has no bio to match jobs against.
var ErrBioMissing = errors.New("bio missing")

const summaryWords = 30

var jobScoreSchema = completion.MustSchema("job_match", `{
	"type": "object",
	"required": ["job_id", "score", "reason"],
	"properties": {
		"job_id": {"type": "string"},
		"score": {"type": "number", "minimum": 0, "maximum": 10},
		"reason": {"type": "string"}
	}
}`)

type jobScore struct {
	JobID  string  `json:"job_id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// JobMatch is one scored opportunity.
type JobMatch struct {
	JobID       uuid.UUID           `json:"job_id"`
	Score       float64             `json:"score"`
	Reason      string              `json:"reason"`
	Opportunity *models.Opportunity `json:"opportunity"`
}

type MatchResult struct {
	Matches    []JobMatch `json:"matches"`
	Candidates int        `json:"candidates"`
	Dropped    int        `json:"dropped"`
}

type Matcher struct {
	db          *gorm.DB
	ai          completion.Completer
	concurrency int
}

func NewMatcher(db *gorm.DB, ai completion.Completer, concurrency int) *Matcher {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Matcher{db: db, ai: ai, concurrency: concurrency}
}

// MatchJobs scores every OPEN opportunity against the mentee's bio. Replies
// that fail, do not parse or score below 1 are left out.
func (m *Matcher) MatchJobs(ctx context.Context, menteeID uuid.UUID) (*MatchResult, error) {
	var bio models.Bio
	err := m.db.WithContext(ctx).Where("user_id = ?", menteeID).First(&bio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBioMissing
	}
	if err != nil {
		return nil, err
	}

	var jobs []models.Opportunity
	if err := m.db.WithContext(ctx).Preload("Org").
		Where("status = ?", models.OpportunityOpen).
		Order("created_at").
		Find(&jobs).Error; err != nil {
		return nil, err
	}

	scored := make([]*JobMatch, len(jobs))
	eg := new(errgroup.Group)
	eg.SetLimit(m.concurrency)
	for i := range jobs {
		i, job := i, &jobs[i]
		eg.Go(func() error {
			var reply jobScore
			if err := completion.Ask(ctx, m.ai, jobScoreSchema, jobPrompt(bio.Bio, job), &reply); err != nil {
				slog.Warn("dropping job candidate", "component", "opportunities", "job_id", job.ID.String(), "error", err)
				return nil
			}
			if reply.Score < 1 {
				return nil
			}
			scored[i] = &JobMatch{JobID: job.ID, Score: reply.Score, Reason: reply.Reason, Opportunity: job}
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &MatchResult{Matches: []JobMatch{}, Candidates: len(jobs)}
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
	return res, nil
}

// summarize keeps the first n words of s followed by "...".
func summarize(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ") + "..."
}

func jobPrompt(bio string, job *models.Opportunity) string {
	return fmt.Sprintf(`Given the following user bio, evaluate how well they match the job opportunity below.
Your response should be in the first-person point of view (e.g., "You have a strong background in...").

User Bio:
%s

Job Title: %s
Job Type: %s
Job Summary: %s

Provide a match score (1-10) and a brief explanation in JSON format:

{
  "job_id": "%s",
  "score": <score>,
  "reason": "You <reason in first person>."
}`, bio, job.Title, job.Type, summarize(job.Description, summaryWords), job.ID)
}
