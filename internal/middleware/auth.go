package middleware

import (
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected expects "Authorization: Bearer <token>".
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtMiddleware(cfg, "header:"+fiber.HeaderAuthorization, "Bearer")
}

// JWTFromQuery is for websocket upgrades, where browsers cannot set headers.
func JWTFromQuery(cfg *config.Config) fiber.Handler {
	return jwtMiddleware(cfg, "query:token", "")
}

// The jwt middleware only defaults AuthScheme when TokenLookup is empty, so
// the scheme is always passed explicitly.
func jwtMiddleware(cfg *config.Config, lookup, scheme string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		TokenLookup: lookup,
		AuthScheme:  scheme,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}
