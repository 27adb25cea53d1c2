package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/actor"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/services"
	"github.com/gofiber/fiber/v2"
)

// RegistrarHandler serves the review queue and the archive.
type RegistrarHandler struct {
	workflow ReportWorkflow
	queries  ReportQueries
}

func NewRegistrarHandler(workflow ReportWorkflow, queries ReportQueries) *RegistrarHandler {
	return &RegistrarHandler{workflow: workflow, queries: queries}
}

func (h *RegistrarHandler) Active(c *fiber.Ctx) error {
	list, err := h.queries.ActiveReports(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Archive accepts an optional ?status=Approved|Rejected.
func (h *RegistrarHandler) Archive(c *fiber.Ctx) error {
	status := models.StatusNone
	if name := c.Query("status"); name != "" {
		s, ok := models.ParseStatus(name)
		if !ok {
			return writeError(c, services.ErrInvalidStatusFilter)
		}
		status = s
	}

	list, err := h.queries.Archive(c.UserContext(), status, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func (h *RegistrarHandler) Details(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	row, err := h.queries.Details(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(row)
}

func (h *RegistrarHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.workflow.Approve)
}

func (h *RegistrarHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.workflow.Reject)
}

type decideFunc func(ctx context.Context, a actor.Actor, reportID uint, feedback string) (*services.DecisionResult, error)

func (h *RegistrarHandler) decide(c *fiber.Ctx, fn decideFunc) error {
	a, err := actor.FromCtx(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	// The body is optional.
	var req dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	res, err := fn(c.UserContext(), a, id, req.Feedback)
	if err != nil {
		return writeError(c, err)
	}
	if res == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(dto.DecisionResponse{
		ReportID:       res.ReportID,
		StatusID:       res.Status,
		Status:         res.Status.String(),
		PreviousStatus: res.Previous.String(),
	})
}

func (h *RegistrarHandler) Assign(c *fiber.Ctx) error {
	a, err := actor.FromCtx(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.workflow.Assign(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}

	resp := dto.AssignResponse{ReportID: report.ID, AssignedTo: a.UserID.String()}
	if report.AssignedAt != nil {
		resp.AssignedAt = *report.AssignedAt
	}
	return c.JSON(resp)
}
