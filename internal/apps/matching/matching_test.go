package matching

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/completion"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil/apptest"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// scriptedAI answers each mentor prompt with the reply registered for the
// mentor id found in the prompt.
type scriptedAI struct {
	mu      sync.Mutex
	replies map[uuid.UUID]string
	calls   int
}

func (s *scriptedAI) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	for id, reply := range s.replies {
		if strings.Contains(prompt, id.String()) {
			return reply, nil
		}
	}
	return "", errors.New("no scripted reply")
}

func newApp(t *testing.T, db *gorm.DB, ai *scriptedAI) *fiber.App {
	t.Helper()
	p := New(ai)
	return apptest.New(t, db, func(r fiber.Router) { p.RegisterRoutes(r, db, &config.Config{AIConcurrency: 2}) })
}

func mentor(t *testing.T, db *gorm.DB, first string) uuid.UUID {
	t.Helper()
	id := testutil.User(t, db, models.RoleMentor)
	testutil.PersonalInfo(t, db, id, first, "Mentor")
	testutil.Skills(t, db, id, []string{"Go"}, []string{"Teaching"})
	return id
}

func scoreReply(id uuid.UUID, score int, reason string) string {
	return fmt.Sprintf(`{"mentor_id": %q, "score": %d, "reason": %q}`, id.String(), score, reason)
}

func TestRankMentorsDropsUnparseableCandidate(t *testing.T) {
	db := testutil.DB(t)
	mentee := testutil.User(t, db, models.RoleMentee)
	testutil.Academic(t, db, mentee, "Computer Science")

	m1, m2, m3 := mentor(t, db, "Ann"), mentor(t, db, "Ben"), mentor(t, db, "Cat")
	ai := &scriptedAI{replies: map[uuid.UUID]string{
		m1: scoreReply(m1, 6, "You share Go."),
		m2: `I think this is a good match`,
		m3: "```json\n" + scoreReply(m3, 9, "You both teach.") + "\n```",
	}}

	res, err := NewRanker(db, ai, 2).RankMentors(context.Background(), mentee)
	if err != nil {
		t.Fatal(err)
	}
	if res.Candidates != 3 || res.Dropped != 1 || len(res.Matches) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Matches[0].MentorID != m3 || res.Matches[1].MentorID != m1 {
		t.Fatalf("order = %v, %v", res.Matches[0].MentorID, res.Matches[1].MentorID)
	}
	if res.Matches[0].Score < res.Matches[1].Score {
		t.Fatal("matches not sorted by score")
	}
	if res.Matches[0].Mentor == nil || res.Matches[0].Mentor.FirstName != "Cat" {
		t.Fatalf("mentor card = %+v", res.Matches[0].Mentor)
	}
	if ai.calls != 3 {
		t.Fatalf("calls = %d", ai.calls)
	}
}

func TestRankMentorsDropsReplyForAnotherMentor(t *testing.T) {
	db := testutil.DB(t)
	mentee := testutil.User(t, db, models.RoleMentee)
	m1, m2 := mentor(t, db, "Ann"), mentor(t, db, "Ben")
	ai := &scriptedAI{replies: map[uuid.UUID]string{
		m1: scoreReply(m1, 7, "You share Go."),
		m2: scoreReply(m1, 10, "You share Go."),
	}}

	res, err := NewRanker(db, ai, 2).RankMentors(context.Background(), mentee)
	if err != nil {
		t.Fatal(err)
	}
	if res.Dropped != 1 || len(res.Matches) != 1 || res.Matches[0].MentorID != m1 || res.Matches[0].Score != 7 {
		t.Fatalf("result = %+v", res)
	}
}

func TestCheckMentorID(t *testing.T) {
	id := uuid.New()
	if err := checkMentorID(" "+strings.ToUpper(id.String())+" ", id); err != nil {
		t.Fatalf("same id rejected: %v", err)
	}
	for _, got := range []string{"", "x", uuid.NewString()} {
		if err := checkMentorID(got, id); !errors.Is(err, completion.ErrUnparseable) {
			t.Errorf("checkMentorID(%q) = %v", got, err)
		}
	}
}

func TestRankMentorsKeepsTopFive(t *testing.T) {
	db := testutil.DB(t)
	mentee := testutil.User(t, db, models.RoleMentee)
	ai := &scriptedAI{replies: map[uuid.UUID]string{}}
	for i := 0; i < 7; i++ {
		id := mentor(t, db, "M")
		ai.replies[id] = scoreReply(id, 5, "You fit.")
	}

	res, err := NewRanker(db, ai, 3).RankMentors(context.Background(), mentee)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != TopMentors || res.Candidates != 7 || res.Dropped != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestCommitTwiceLeavesOneRow(t *testing.T) {
	db := testutil.DB(t)
	app := newApp(t, db, &scriptedAI{})
	mentee := testutil.User(t, db, models.RoleMentee)
	m := mentor(t, db, "Ann")

	body := CommitRequest{MentorID: m, Score: 7.5, Reason: "You share Go."}
	var created models.Match
	if code := apptest.Do(t, app, http.MethodPost, "/api/p/matching/matches", mentee, body, &created); code != fiber.StatusCreated {
		t.Fatalf("first commit status = %d", code)
	}
	if created.Score != 75 {
		t.Fatalf("stored score = %d", created.Score)
	}

	var e apptest.ErrorBody
	if code := apptest.Do(t, app, http.MethodPost, "/api/p/matching/matches", mentee, body, &e); code != fiber.StatusConflict {
		t.Fatalf("second commit status = %d", code)
	}
	if e.Message != "A match with this mentor already exists." {
		t.Fatalf("message = %q", e.Message)
	}

	var n int64
	db.Model(&models.Match{}).Where("mentee_id = ? AND mentor_id = ?", mentee, m).Count(&n)
	if n != 1 {
		t.Fatalf("rows = %d", n)
	}
}

func TestMatchPairIsUnique(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db, 2)
	mentee := testutil.User(t, db, models.RoleMentee)
	m := mentor(t, db, "Ann")

	if err := db.Create(&models.Match{ID: uuid.New(), MenteeID: mentee, MentorID: m, Score: 50}).Error; err != nil {
		t.Fatal(err)
	}
	err := db.Create(&models.Match{ID: uuid.New(), MenteeID: mentee, MentorID: m, Score: 60}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if _, err := svc.Commit(context.Background(), mentee, CommitRequest{MentorID: m, Score: 5}); !errors.Is(err, ErrDuplicateMatch) {
		t.Fatalf("got %v", err)
	}
}

func TestCommitRejectsNonMentorAndBadScore(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db, 2)
	mentee := testutil.User(t, db, models.RoleMentee)
	other := testutil.User(t, db, models.RoleMentee)

	if _, err := svc.Commit(context.Background(), mentee, CommitRequest{MentorID: other, Score: 5}); !errors.Is(err, ErrMentorNotFound) {
		t.Fatalf("got %v", err)
	}
	m := mentor(t, db, "Ann")
	if _, err := svc.Commit(context.Background(), mentee, CommitRequest{MentorID: m, Score: 11}); err == nil {
		t.Fatal("expected score validation error")
	}
}

func TestApproveAndListMatches(t *testing.T) {
	db := testutil.DB(t)
	app := newApp(t, db, &scriptedAI{})
	mentee := testutil.User(t, db, models.RoleMentee)
	testutil.PersonalInfo(t, db, mentee, "Mia", "Mentee")
	m := mentor(t, db, "Ann")

	apptest.Do(t, app, http.MethodPost, "/api/p/matching/matches", mentee, CommitRequest{MentorID: m, Score: 8}, nil)

	var pending []MatchView
	if code := apptest.Do(t, app, http.MethodGet, "/api/p/mentees/mine?status=pending", m, nil, &pending); code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(pending) != 1 || pending[0].Counterpart.FirstName != "Mia" {
		t.Fatalf("pending = %+v", pending)
	}

	if code := apptest.Do(t, app, http.MethodPut, "/api/p/matching/matches/"+uuid.NewString()+"/approve", m, nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("unknown mentee status = %d", code)
	}
	if code := apptest.Do(t, app, http.MethodPut, "/api/p/matching/matches/"+mentee.String()+"/approve", mentee, nil, nil); code != fiber.StatusForbidden {
		t.Fatalf("mentee approving status = %d", code)
	}
	if code := apptest.Do(t, app, http.MethodPut, "/api/p/matching/matches/"+mentee.String()+"/approve", m, nil, nil); code != fiber.StatusOK {
		t.Fatalf("approve status = %d", code)
	}

	var mine []MatchView
	apptest.Do(t, app, http.MethodGet, "/api/p/mentors/mine", mentee, nil, &mine)
	if len(mine) != 1 || !mine[0].IsApproved || mine[0].Counterpart.FirstName != "Ann" {
		t.Fatalf("mine = %+v", mine)
	}
}

func TestMentorDirectory(t *testing.T) {
	db := testutil.DB(t)
	app := newApp(t, db, &scriptedAI{})
	viewer := testutil.User(t, db, models.RoleMentee)
	a, b := mentor(t, db, "Ann"), mentor(t, db, "Ben")

	var cards []struct {
		ID     uuid.UUID `json:"id"`
		Skills []string  `json:"skills"`
	}
	apptest.Do(t, app, http.MethodGet, "/api/p/mentors", viewer, nil, &cards)
	if len(cards) != 2 || cards[0].ID != a || cards[1].ID != b || cards[0].Skills[0] != "Go" {
		t.Fatalf("cards = %+v", cards)
	}

	if code := apptest.Do(t, app, http.MethodGet, "/api/p/mentors/"+viewer.String(), viewer, nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("non-mentor detail status = %d", code)
	}
	var detail struct {
		ID       uuid.UUID `json:"id"`
		Personal struct {
			FirstName string `json:"first_name"`
		} `json:"personal_information"`
	}
	apptest.Do(t, app, http.MethodGet, "/api/p/mentors/"+b.String(), viewer, nil, &detail)
	if detail.ID != b || detail.Personal.FirstName != "Ben" {
		t.Fatalf("detail = %+v", detail)
	}
}
