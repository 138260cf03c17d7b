package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func token(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newApp(db *gorm.DB, cfg *config.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{JWTProtected(cfg), LoadSession(db)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		s, err := session.From(c)
		if err != nil {
			return err
		}
		return c.SendString(string(s.Role))
	})
	app.Get("/x", handlers...)
	return app
}

func do(t *testing.T, app *fiber.App, bearer string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestJWTProtectedRejectsMissingToken(t *testing.T) {
	db := testutil.DB(t)
	app := newApp(db, &config.Config{JWTSecret: testSecret})
	if resp := do(t, app, "", nil); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRoleRequired(t *testing.T) {
	db := testutil.DB(t)
	cfg := &config.Config{JWTSecret: testSecret}
	app := newApp(db, cfg, RoleRequired(models.RoleMentor))

	mentor := testutil.User(t, db, models.RoleMentor)
	mentee := testutil.User(t, db, models.RoleMentee)
	fresh := testutil.User(t, db, "")

	if resp := do(t, app, token(t, mentor, ""), nil); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("mentor status = %d", resp.StatusCode)
	}
	if resp := do(t, app, token(t, mentee, ""), nil); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("mentee status = %d", resp.StatusCode)
	}
	if resp := do(t, app, token(t, fresh, ""), nil); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("roleless status = %d", resp.StatusCode)
	}
}

func TestAdminRequired(t *testing.T) {
	db := testutil.DB(t)
	cfg := &config.Config{JWTSecret: testSecret, AdminEmails: "Boss@example.com", AdminToken: "tok"}
	app := newApp(db, cfg, AdminRequired(cfg))

	admin := testutil.User(t, db, models.RoleAdmin)
	listed := testutil.User(t, db, models.RoleMentee)
	other := testutil.User(t, db, models.RoleMentee)

	cases := []struct {
		name    string
		bearer  string
		headers map[string]string
		want    int
	}{
		{"role", token(t, admin, ""), nil, fiber.StatusOK},
		{"email list", token(t, listed, "boss@example.com"), nil, fiber.StatusOK},
		{"admin token", token(t, other, ""), map[string]string{"X-Admin-Token": "tok"}, fiber.StatusOK},
		{"denied", token(t, other, "someone@example.com"), nil, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if resp := do(t, app, tc.bearer, tc.headers); resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestTokenLookups(t *testing.T) {
	db := testutil.DB(t)
	cfg := &config.Config{JWTSecret: testSecret}
	mentor := testutil.User(t, db, models.RoleMentor)
	tok := token(t, mentor, "")

	app := newApp(db, cfg)
	if resp := do(t, app, tok, nil); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("bearer status = %d", resp.StatusCode)
	}
	if resp := do(t, app, "", map[string]string{"Authorization": tok}); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("missing scheme status = %d", resp.StatusCode)
	}

	ws := fiber.New()
	ws.Get("/x", JWTFromQuery(cfg), LoadSession(db), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	resp, err := ws.Test(httptest.NewRequest(http.MethodGet, "/x?token="+tok, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("query status = %d", resp.StatusCode)
	}
}
