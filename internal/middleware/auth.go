package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/actor"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies the HS256 access token and stores it under the
// Locals key that actor.FromCtx reads.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey:  actor.LocalsKey,
		TokenLookup: "header:" + fiber.HeaderAuthorization,
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			message := "Unauthorized: invalid or expired token"
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				message = "Unauthorized: missing bearer token"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: message,
			})
		},
	})
}
