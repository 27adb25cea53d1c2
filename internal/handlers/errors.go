package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/actor"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// writeError maps workflow errors to HTTP responses. Anything unrecognised
// is a 500 and goes to Sentry when the hub is present.
func writeError(c *fiber.Ctx, err error) error {
	var verr *lifecycle.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Error:   true,
			Message: "Please correct the highlighted fields.",
			Errors:  verr.Errors,
			Fields:  verr.Fields,
		})
	case errors.Is(err, services.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Report not found",
		})
	case errors.Is(err, lifecycle.ErrTransitionNotAllowed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Forbidden",
		})
	case errors.Is(err, actor.ErrMissingToken), errors.Is(err, actor.ErrInvalidClaims):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	case errors.Is(err, lifecycle.ErrUnknownAction), errors.Is(err, services.ErrInvalidStatusFilter):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}

	message := "Internal server error"
	if errors.Is(err, services.ErrPersistence) {
		message = services.ErrPersistence.Error()
	} else {
		requestID, _ := c.Locals("requestid").(string)
		slog.Error("unexpected handler error",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

// ErrorHandler is the fiber.Config error handler. Client errors raised by
// fiber keep their message; everything else goes through writeError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: true, Message: fe.Message})
	}
	return writeError(c, err)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

// reportID parses the :id route parameter.
func reportID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid report ID")
	}
	return uint(id), nil
}
