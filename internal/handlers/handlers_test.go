package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil/apptest"
	"github.com/gofiber/fiber/v2"
)

func get(t *testing.T, app *fiber.App, path string, out interface{}) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode %s: %v (%s)", path, err, raw)
		}
	}
	return resp.StatusCode, string(raw)
}

func TestAdminListUsers(t *testing.T) {
	db := testutil.DB(t)
	mentor := testutil.User(t, db, models.RoleMentor)
	testutil.PersonalInfo(t, db, mentor, "Grace", "Hopper")
	testutil.User(t, db, models.RoleMentee)
	testutil.User(t, db, "")

	app := fiber.New()
	h := NewAdminHandler(services.NewAdminService(db))
	app.Get("/admin/users", h.ListUsers)
	app.Get("/admin/stats", h.Stats)

	var page struct {
		Users []dto.AdminUser `json:"users"`
		Total int64           `json:"total"`
	}
	if status, body := get(t, app, "/admin/users", &page); status != fiber.StatusOK || page.Total != 3 {
		t.Fatalf("all users: %d %s", status, body)
	}

	page.Users = nil
	get(t, app, "/admin/users?role=mentor", &page)
	if page.Total != 1 || page.Users[0].ID != mentor || page.Users[0].FirstName != "Grace" || page.Users[0].Role != "mentor" {
		t.Fatalf("mentor filter = %+v", page)
	}

	get(t, app, "/admin/users?role=none", &page)
	if page.Total != 1 || page.Users[0].Role != "" {
		t.Fatalf("roleless filter = %+v", page)
	}

	if status, _ := get(t, app, "/admin/users?role=wizard", nil); status != fiber.StatusBadRequest {
		t.Fatalf("unknown role status = %d", status)
	}

	var stats dto.AdminStats
	get(t, app, "/admin/stats", &stats)
	if stats.UsersByRole["mentor"] != 1 || stats.UsersByRole["mentee"] != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestLegalPages(t *testing.T) {
	h, err := NewLegalHandler("help@<mentorconnect>.test")
	if err != nil {
		t.Fatal(err)
	}
	app := fiber.New()
	app.Get("/privacy", h.PrivacyPolicy)
	app.Get("/terms", h.TermsOfService)

	_, privacy := get(t, app, "/privacy", nil)
	if !strings.Contains(privacy, "<h1>Privacy Policy</h1>") || !strings.Contains(privacy, "help@&lt;mentorconnect&gt;.test") {
		t.Fatalf("privacy page:\n%s", privacy)
	}
	_, terms := get(t, app, "/terms", nil)
	if !strings.Contains(terms, "Mentoring Conduct") {
		t.Fatalf("terms page:\n%s", terms)
	}
}

func TestHealthReportsServices(t *testing.T) {
	app := fiber.New()
	app.Get("/health", NewHealthHandler(map[string]string{"meeting": "disabled"}).Check)

	var resp dto.HealthResponse
	if status, _ := get(t, app, "/health", &resp); status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if resp.Services["meeting"] != "disabled" || !strings.HasPrefix(resp.DB, "unhealthy") {
		t.Fatalf("health = %+v", resp)
	}
}

func TestBlockLifecycle(t *testing.T) {
	db := testutil.DB(t)
	h := NewModerationHandler(services.NewModerationService(db))
	app := apptest.New(t, db, func(r fiber.Router) {
		r.Get("/blocks", h.ListBlocks)
		r.Post("/blocks", h.BlockUser)
		r.Delete("/blocks/:id", h.UnblockUser)
	})
	mentee := testutil.User(t, db, models.RoleMentee)
	mentor := testutil.User(t, db, models.RoleMentor)

	if code := apptest.Do(t, app, http.MethodPost, "/api/p/blocks", mentee, dto.BlockUserRequest{}, nil); code != fiber.StatusBadRequest {
		t.Fatalf("missing id status = %d", code)
	}
	if code := apptest.Do(t, app, http.MethodPost, "/api/p/blocks", mentee, dto.BlockUserRequest{BlockedID: mentee}, nil); code != fiber.StatusConflict {
		t.Fatalf("self block status = %d", code)
	}
	if code := apptest.Do(t, app, http.MethodPost, "/api/p/blocks", mentee, dto.BlockUserRequest{BlockedID: mentor}, nil); code != fiber.StatusCreated {
		t.Fatalf("block status = %d", code)
	}

	var list struct {
		Blocks []models.Block `json:"blocks"`
	}
	if code := apptest.Do(t, app, http.MethodGet, "/api/p/blocks", mentee, nil, &list); code != fiber.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if len(list.Blocks) != 1 || list.Blocks[0].BlockedID != mentor {
		t.Fatalf("blocks = %+v", list.Blocks)
	}

	if code := apptest.Do(t, app, http.MethodDelete, "/api/p/blocks/"+mentor.String(), mentee, nil, nil); code != fiber.StatusNoContent {
		t.Fatalf("unblock status = %d", code)
	}
	if code := apptest.Do(t, app, http.MethodGet, "/api/p/blocks", mentee, nil, &list); code != fiber.StatusOK || len(list.Blocks) != 0 {
		t.Fatalf("after unblock: %d %+v", code, list.Blocks)
	}
}
