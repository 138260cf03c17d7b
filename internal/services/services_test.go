package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil"
	"github.com/google/uuid"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(testutil.DB(t), &config.Config{
		JWTSecret:        "secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
	})
}

func TestRegisterLoginRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)

	reg, err := svc.Register(ctx, &dto.RegisterRequest{Email: " Ada@Example.com ", Password: "password1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.Email != "ada@example.com" || reg.AccessToken == "" || reg.RefreshToken == "" {
		t.Fatalf("unexpected response: %+v", reg)
	}

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "password1"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ADA@example.com", Password: "password1"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == reg.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: reg.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused refresh token accepted: %v", err)
	}
}

func TestRegisterRejectsWeakCredentials(t *testing.T) {
	svc := newAuth(t)
	cases := []dto.RegisterRequest{
		{Email: "not-an-email", Password: "password1"},
		{Email: "a@b.co", Password: "short"},
	}
	for _, req := range cases {
		if _, err := svc.Register(context.Background(), &req); !errors.Is(err, ErrWeakCredentials) {
			t.Errorf("Register(%+v) = %v", req, err)
		}
	}
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)
	reg, err := svc.Register(ctx, &dto.RegisterRequest{Email: "del@example.com", Password: "password1"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteAccount(ctx, reg.User.ID, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if err := svc.DeleteAccount(ctx, reg.User.ID, "password1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "del@example.com", Password: "password1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deleted user can still log in: %v", err)
	}
}

func TestDeleteOrgAccountRemovesOpportunities(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	svc := NewAuthService(db, &config.Config{JWTSecret: "secret", JWTAccessExpiry: time.Minute, JWTRefreshExpiry: time.Hour})
	reg, err := svc.Register(ctx, &dto.RegisterRequest{Email: "org@example.com", Password: "password1"})
	if err != nil {
		t.Fatal(err)
	}

	org := models.OrganisationInformation{ID: uuid.New(), UserID: reg.User.ID, Name: "Acme"}
	opp := models.Opportunity{
		ID: uuid.New(), OrgID: org.ID, Title: "Backend intern", Type: models.OpportunityInternships,
		Description: "Write services", Vacancies: 1, Status: models.OpportunityOpen,
	}
	mentee := testutil.User(t, db, models.RoleMentee)
	app := models.Application{ID: uuid.New(), OpportunityID: opp.ID, MenteeID: mentee, Status: models.ApplicationPending}
	for _, row := range []interface{}{&org, &opp, &app} {
		if err := db.Create(row).Error; err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.DeleteAccount(ctx, reg.User.ID, "password1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, m := range []interface{}{&models.OrganisationInformation{}, &models.Opportunity{}, &models.Application{}} {
		var n int64
		db.Model(m).Count(&n)
		if n != 0 {
			t.Fatalf("%T rows left: %d", m, n)
		}
	}
}

func TestFilterContent(t *testing.T) {
	ms := NewModerationService(nil)
	if ok, _ := ms.FilterContent("Here is the link https://go.dev for the session"); !ok {
		t.Fatal("links must be allowed in chat")
	}
	if ok, reason := ms.FilterContent("this is a SCAM"); ok || reason != "inappropriate_language" {
		t.Fatalf("got %v %q", ok, reason)
	}
	if ok, reason := ms.FilterContent("heyyyyyyyyyyyy"); ok || reason != "spam_detected" {
		t.Fatalf("got %v %q", ok, reason)
	}
}

func TestBlocks(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	ms := NewModerationService(db)
	a, b := testutil.User(t, db, models.RoleMentor), testutil.User(t, db, models.RoleMentee)

	if err := ms.BlockUser(ctx, a, a); !errors.Is(err, ErrSelfBlock) {
		t.Fatalf("self block: %v", err)
	}
	if err := ms.BlockUser(ctx, a, b); err != nil {
		t.Fatal(err)
	}
	if err := ms.BlockUser(ctx, a, b); !errors.Is(err, ErrAlreadyBlocked) {
		t.Fatalf("double block: %v", err)
	}
	if blocked, _ := ms.IsBlocked(ctx, a, b); !blocked {
		t.Fatal("expected b blocked by a")
	}
	if blocked, _ := ms.IsBlocked(ctx, b, a); blocked {
		t.Fatal("block must be one-directional")
	}
	if err := ms.UnblockUser(ctx, a, b); err != nil {
		t.Fatal(err)
	}
	if blocked, _ := ms.IsBlocked(ctx, a, b); blocked {
		t.Fatal("still blocked after unblock")
	}
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	ms := NewModerationService(db)
	reporter := testutil.User(t, db, models.RoleMentee)

	if _, err := ms.CreateReport(ctx, reporter, &dto.CreateReportRequest{ContentType: "post", Reason: "x"}); !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("got %v", err)
	}
	rep, err := ms.CreateReport(ctx, reporter, &dto.CreateReportRequest{ContentType: "message", ContentID: "m1", Reason: "rude"})
	if err != nil {
		t.Fatal(err)
	}

	if err := ms.ActionReport(ctx, uuid.New(), &dto.ActionReportRequest{Status: "dismissed"}); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("got %v", err)
	}
	if err := ms.ActionReport(ctx, rep.ID, &dto.ActionReportRequest{Status: "actioned", AdminNote: "warned"}); err != nil {
		t.Fatal(err)
	}

	reports, total, err := ms.ListReports(ctx, "actioned", 10, 0)
	if err != nil || total != 1 || reports[0].AdminNote != "warned" {
		t.Fatalf("list = %+v, %d, %v", reports, total, err)
	}
}

func TestReferenceServiceCachesRoles(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	refs := NewReferenceService(db, time.Minute)

	selectable, err := refs.SelectableRoles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(selectable) != 3 {
		t.Fatalf("selectable roles = %v", selectable)
	}

	db.Where("name = ?", models.RoleGuest).Delete(&models.RoleRecord{})
	if _, err := refs.RoleByName(ctx, models.RoleGuest); err != nil {
		t.Fatalf("expected cached guest role, got %v", err)
	}

	awards, err := refs.Awards(ctx)
	if err != nil || len(awards) != len(models.DefaultAwards) {
		t.Fatalf("awards = %v, %v", awards, err)
	}
	if _, err := refs.AwardByID(ctx, 9999); !errors.Is(err, ErrAwardNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestPurgeExpiredTokens(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	svc := NewAuthService(db, &config.Config{JWTSecret: "secret", JWTAccessExpiry: time.Minute, JWTRefreshExpiry: time.Hour})
	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "old@example.com", Password: "password1"}); err != nil {
		t.Fatal(err)
	}

	n, err := svc.PurgeExpiredTokens(time.Now())
	if err != nil || n != 0 {
		t.Fatalf("live token purged: %d, %v", n, err)
	}
	n, err = svc.PurgeExpiredTokens(time.Now().Add(2 * time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("purge = %d, %v", n, err)
	}
}
