// Package session carries the authenticated caller through a request.
package session

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const localsKey = "session"

var (
	ErrNoSession = errors.New("no session in request")
	ErrNoRole    = errors.New("role not assigned")
)

// Context is the immutable per-request view of the caller. Role is empty
// until the user has picked one.
type Context struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

func (s Context) HasRole() bool { return s.Role != "" }

// Set stores s on the request.
func Set(c *fiber.Ctx, s Context) {
	c.Locals(localsKey, s)
}

// From returns the caller stored by the session middleware.
func From(c *fiber.Ctx) (Context, error) {
	s, ok := c.Locals(localsKey).(Context)
	if !ok || s.UserID == uuid.Nil {
		return Context{}, ErrNoSession
	}
	return s, nil
}

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}
	return UserIDFromToken(token)
}

func UserIDFromToken(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// LookupRole reads the role assigned to userID, or ErrNoRole.
func LookupRole(ctx context.Context, db *gorm.DB, userID uuid.UUID) (models.Role, error) {
	var ur models.UserRole
	err := db.WithContext(ctx).Preload("RoleRecord").First(&ur, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoRole
	}
	if err != nil {
		return "", err
	}
	return models.ParseRole(string(ur.RoleRecord.Name))
}
