// Package apptest runs feature routes in-process for handler tests.
package apptest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const userHeader = "X-Test-User"

// New mounts register under /api/p. Requests identify the caller with the
// X-Test-User header in place of a JWT.
func New(t *testing.T, db *gorm.DB, register func(router fiber.Router)) *fiber.App {
	t.Helper()
	app := fiber.New()
	api := app.Group("/api/p", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Get(userHeader))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
		}
		s := session.Context{UserID: id}
		role, err := session.LookupRole(c.UserContext(), db, id)
		switch {
		case err == nil:
			s.Role = role
		case !errors.Is(err, session.ErrNoRole):
			return err
		}
		session.Set(c, s)
		return c.Next()
	})
	register(api)
	return app
}

// Do sends a JSON request as user and decodes the response body into out
// when out is not nil. It returns the status code.
func Do(t *testing.T, app *fiber.App, method, path string, user uuid.UUID, body, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != uuid.Nil {
		req.Header.Set(userHeader, user.String())
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			t.Fatalf("decode %s %s (status %d): %v", method, path, resp.StatusCode, err)
		}
	}
	return resp.StatusCode
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Send runs a prepared request as user.
func Send(t *testing.T, app *fiber.App, req *http.Request, user uuid.UUID) *http.Response {
	t.Helper()
	if user != uuid.Nil {
		req.Header.Set(userHeader, user.String())
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}
