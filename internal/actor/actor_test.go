package actor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFromClaims(t *testing.T) {
	id := uuid.New()
	a, err := FromClaims(jwt.MapClaims{"sub": id.String(), "role": "registrar"})
	require.NoError(t, err)
	require.Equal(t, id, a.UserID)
	require.True(t, a.CanReview())
	require.Equal(t, models.RoleRegistrar, a.Role)

	for _, role := range []string{"pilot", "admin"} {
		a, err := FromClaims(jwt.MapClaims{"sub": id.String(), "role": role})
		require.NoError(t, err)
		require.False(t, a.CanReview(), role)
	}

	_, err = FromClaims(jwt.MapClaims{"role": "pilot"})
	require.Error(t, err)

	_, err = FromClaims(jwt.MapClaims{"sub": "not-a-uuid", "role": "pilot"})
	require.Error(t, err)

	_, err = FromClaims(jwt.MapClaims{"sub": id.String(), "role": "captain"})
	require.ErrorIs(t, err, ErrInvalidClaims)
}

func TestFromCtx(t *testing.T) {
	id := uuid.New()
	app := fiber.New()
	app.Get("/with", func(c *fiber.Ctx) error {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": id.String(), "role": "pilot"}))
		a, err := FromCtx(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(string(a.Role))
	})
	app.Get("/without", func(c *fiber.Ctx) error {
		_, err := FromCtx(c)
		require.ErrorIs(t, err, ErrMissingToken)
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/with", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/without", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
