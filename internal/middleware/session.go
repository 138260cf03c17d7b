package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// LoadSession builds the session.Context for an authenticated request. It
// must run after JWTProtected. Users without a role get an empty Role.
func LoadSession(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		userID, err := session.UserIDFromToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		s := session.Context{UserID: userID}
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			s.Email, _ = claims["email"].(string)
		}

		role, err := session.LookupRole(c.UserContext(), db, userID)
		switch {
		case err == nil:
			s.Role = role
		case errors.Is(err, session.ErrNoRole):
		default:
			slog.Error("role lookup failed", "user_id", userID.String(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to load session",
			})
		}

		session.Set(c, s)
		return c.Next()
	}
}
