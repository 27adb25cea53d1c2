package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// authStatus lists the account errors whose message is safe to show.
var authStatus = []struct {
	err    error
	status int
}{
	{services.ErrInvalidSignup, fiber.StatusBadRequest},
	{services.ErrWeakPassword, fiber.StatusBadRequest},
	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrUsernameTaken, fiber.StatusConflict},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
}

func authError(c *fiber.Ctx, err error) error {
	for _, m := range authStatus {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		}
	}
	return writeError(c, err)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return authError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	if err := h.authService.Logout(&req); err != nil {
		return authError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}
