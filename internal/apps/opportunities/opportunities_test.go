package opportunities

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil/apptest"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// titleAI answers with the reply registered for the first job title found
// in the prompt.
type titleAI struct {
	mu      sync.Mutex
	replies map[string]string
}

func (f *titleAI) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for title, reply := range f.replies {
		if strings.Contains(prompt, "Job Title: "+title+"\n") {
			return reply, nil
		}
	}
	return "", errors.New("no reply")
}

func orgUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	id := testutil.User(t, db, models.RoleOrg)
	if err := db.Create(&models.OrganisationInformation{ID: uuid.New(), UserID: id, Name: "Acme"}).Error; err != nil {
		t.Fatal(err)
	}
	return id
}

func newApp(t *testing.T, db *gorm.DB, ai *titleAI) *fiber.App {
	t.Helper()
	p := New(ai)
	return apptest.New(t, db, func(r fiber.Router) { p.RegisterRoutes(r, db, &config.Config{AIConcurrency: 2}) })
}

func create(t *testing.T, svc *Service, org uuid.UUID, title string, typ models.OpportunityType) *models.Opportunity {
	t.Helper()
	opp, err := svc.Create(context.Background(), org, CreateRequest{
		Title: title, Type: typ, Description: "Build and ship backend services in Go with the platform team.",
		Vacancies: 2, DueDate: "2030-01-31",
	})
	if err != nil {
		t.Fatalf("create %s: %v", title, err)
	}
	return opp
}

func TestCreateValidatesAndNeedsOrgProfile(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db)
	ctx := context.Background()

	bare := testutil.User(t, db, models.RoleOrg)
	req := CreateRequest{Title: "Backend intern", Type: models.OpportunityInternships,
		Description: "Work on our APIs for six months.", Vacancies: 1, DueDate: "2030-01-01"}
	if _, err := svc.Create(ctx, bare, req); !errors.Is(err, ErrOrgNotFound) {
		t.Fatalf("got %v", err)
	}

	org := orgUser(t, db)
	bad := []CreateRequest{
		{Title: "QA", Type: models.OpportunityJobs, Description: req.Description, Vacancies: 1, DueDate: "2030-01-01"},
		{Title: req.Title, Type: "gigs", Description: req.Description, Vacancies: 1, DueDate: "2030-01-01"},
		{Title: req.Title, Type: models.OpportunityJobs, Description: req.Description, Vacancies: 0, DueDate: "2030-01-01"},
		{Title: req.Title, Type: models.OpportunityJobs, Description: req.Description, Vacancies: 1001, DueDate: "2030-01-01"},
		{Title: req.Title, Type: models.OpportunityJobs, Description: req.Description, Vacancies: 1, DueDate: "01/02/2030"},
	}
	for _, b := range bad {
		if _, err := svc.Create(ctx, org, b); err == nil {
			t.Errorf("Create(%+v) succeeded", b)
		}
	}

	opp, err := svc.Create(ctx, org, req)
	if err != nil {
		t.Fatal(err)
	}
	if opp.Status != models.OpportunityOpen || opp.DueDate.Day() != 1 {
		t.Fatalf("opp = %+v", opp)
	}
}

func TestStatsAndListing(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db)
	ctx := context.Background()
	org := orgUser(t, db)

	create(t, svc, org, "Go developer", models.OpportunityJobs)
	closed := create(t, svc, org, "Data intern", models.OpportunityInternships)
	create(t, svc, org, "Ops attachment", models.OpportunityAttachments)
	if err := svc.UpdateStatus(ctx, org, closed.ID, models.OpportunityClosed); err != nil {
		t.Fatal(err)
	}

	st, err := svc.Stats(ctx, org)
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 3 || st.Open != 2 || st.ByType[models.OpportunityInternships] != 1 {
		t.Fatalf("stats = %+v", st)
	}

	jobs, _ := svc.ListOwn(ctx, org, models.OpportunityJobs)
	if len(jobs) != 1 || jobs[0].Title != "Go developer" {
		t.Fatalf("own jobs = %+v", jobs)
	}
	open, _ := svc.ListOpen(ctx, "")
	if len(open) != 2 {
		t.Fatalf("open = %d", len(open))
	}
	if open[0].Org == nil || open[0].Org.Name != "Acme" {
		t.Fatalf("org not preloaded: %+v", open[0].Org)
	}

	other := orgUser(t, db)
	if err := svc.Delete(ctx, other, closed.ID); !errors.Is(err, ErrOpportunityNotFound) {
		t.Fatalf("foreign delete: %v", err)
	}
}

func TestOnePendingApplicationPerOpportunity(t *testing.T) {
	db := testutil.DB(t)
	app := newApp(t, db, &titleAI{})
	org := orgUser(t, db)
	mentee := testutil.User(t, db, models.RoleMentee)
	opp := create(t, NewService(db), org, "Go developer", models.OpportunityJobs)

	path := "/api/p/opportunities/" + opp.ID.String() + "/applications"
	body := ApplyRequest{SubmittedDocuments: "https://cdn.example.com/cv.pdf"}

	var submitted models.Application
	if code := apptest.Do(t, app, http.MethodPost, path, mentee, body, &submitted); code != fiber.StatusCreated {
		t.Fatalf("apply status = %d", code)
	}
	var e apptest.ErrorBody
	if code := apptest.Do(t, app, http.MethodPost, path, mentee, body, &e); code != fiber.StatusConflict {
		t.Fatalf("second apply status = %d", code)
	}
	if e.Message != "You already have a pending application for this opportunity." {
		t.Fatalf("message = %q", e.Message)
	}

	status := "/api/p/org/applications/" + submitted.ID.String() + "/status"
	if code := apptest.Do(t, app, http.MethodPut, status, org, StatusRequest{Status: models.ApplicationRejected}, nil); code != fiber.StatusOK {
		t.Fatalf("reject status = %d", code)
	}
	if code := apptest.Do(t, app, http.MethodPost, path, mentee, body, nil); code != fiber.StatusCreated {
		t.Fatalf("reapply after rejection status = %d", code)
	}

	var mine []models.Application
	apptest.Do(t, app, http.MethodGet, "/api/p/opportunities/applications", mentee, nil, &mine)
	if len(mine) != 2 || mine[0].Opportunity == nil {
		t.Fatalf("mine = %+v", mine)
	}

	if code := apptest.Do(t, app, http.MethodGet, "/api/p/opportunities/", org, nil, nil); code != fiber.StatusForbidden {
		t.Fatalf("org browsing mentee listing status = %d", code)
	}
}

func TestApplyToClosedOpportunity(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db)
	ctx := context.Background()
	org := orgUser(t, db)
	mentee := testutil.User(t, db, models.RoleMentee)
	opp := create(t, svc, org, "Go developer", models.OpportunityJobs)
	_ = svc.UpdateStatus(ctx, org, opp.ID, models.OpportunityClosed)

	if _, err := svc.Apply(ctx, mentee, opp.ID, ApplyRequest{SubmittedDocuments: "cv.pdf"}); !errors.Is(err, ErrOpportunityClosed) {
		t.Fatalf("got %v", err)
	}
}

func TestMatchJobsFiltersAndSorts(t *testing.T) {
	db := testutil.DB(t)
	svc := NewService(db)
	org := orgUser(t, db)
	mentee := testutil.User(t, db, models.RoleMentee)
	testutil.Bio(t, db, mentee, "I build distributed systems in Go and enjoy mentoring.")

	low := create(t, svc, org, "Barista", models.OpportunityJobs)
	high := create(t, svc, org, "Go developer", models.OpportunityJobs)
	create(t, svc, org, "Zero fit", models.OpportunityJobs)
	create(t, svc, org, "Broken", models.OpportunityJobs)
	ai := &titleAI{replies: map[string]string{
		"Barista":      `{"job_id": "x", "score": 3, "reason": "You like coffee."}`,
		"Go developer": `{"job_id": "x", "score": 9, "reason": "You write Go."}`,
		"Zero fit":     `{"job_id": "x", "score": 0, "reason": "You do not fit."}`,
		"Broken":       `not json`,
	}}

	res, err := NewMatcher(db, ai, 2).MatchJobs(context.Background(), mentee)
	if err != nil {
		t.Fatal(err)
	}
	if res.Candidates != 4 || len(res.Matches) != 2 || res.Dropped != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Matches[0].JobID != high.ID || res.Matches[1].JobID != low.ID {
		t.Fatalf("order = %v", res.Matches)
	}

	nobio := testutil.User(t, db, models.RoleMentee)
	if _, err := NewMatcher(db, ai, 2).MatchJobs(context.Background(), nobio); !errors.Is(err, ErrBioMissing) {
		t.Fatalf("got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := summarize(long, summaryWords)
	if n := len(strings.Fields(strings.TrimSuffix(got, "..."))); n != summaryWords || !strings.HasSuffix(got, "...") {
		t.Fatalf("summary has %d words: %q", n, got)
	}
	if got := summarize("short text", summaryWords); got != "short text..." {
		t.Fatalf("got %q", got)
	}
}
