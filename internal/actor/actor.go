// Package actor carries the identity and role of the caller into service
// calls. Handlers build an Actor from the verified access token; services
// never look anything up from the request themselves.
package actor

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalsKey is where the auth middleware stores the verified *jwt.Token.
const LocalsKey = "user"

var (
	ErrMissingToken  = errors.New("invalid token in context")
	ErrInvalidClaims = errors.New("invalid claims")
)

type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

// CanReview reports whether the actor may approve, reject or claim reports.
func (a Actor) CanReview() bool {
	return a.Role == models.RoleRegistrar
}

// FromClaims reads the "sub" and "role" claims of an access token.
func FromClaims(claims jwt.MapClaims) (Actor, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return Actor{}, fmt.Errorf("%w: missing sub", ErrInvalidClaims)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: sub: %v", ErrInvalidClaims, err)
	}

	role, _ := claims["role"].(string)
	r := models.Role(role)
	if !r.Valid() {
		return Actor{}, ErrInvalidClaims
	}
	return Actor{UserID: userID, Role: r}, nil
}

// FromCtx extracts the actor from the JWT stored by the auth middleware.
func FromCtx(c *fiber.Ctx) (Actor, error) {
	token, ok := c.Locals(LocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return Actor{}, ErrMissingToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, ErrInvalidClaims
	}
	return FromClaims(claims)
}
