package middleware

import (
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/actor"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/authz"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Authorize admits callers whose role may perform act on obj. It must run
// after JWTProtected.
func Authorize(enf *authz.Enforcer, obj, act string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor.FromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !enf.Allowed(a.Role, obj, act) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Access to this resource is not permitted for your role",
			})
		}
		return c.Next()
	}
}
