package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/actor"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/geo"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ReportWorkflow is the write side of the report API.
type ReportWorkflow interface {
	SaveReport(ctx context.Context, a actor.Actor, reportID *uint, action lifecycle.Action, fields lifecycle.Fields) (*services.SaveResult, error)
	DeleteDraft(ctx context.Context, a actor.Actor, reportID uint) error
	Approve(ctx context.Context, a actor.Actor, reportID uint, feedback string) (*services.DecisionResult, error)
	Reject(ctx context.Context, a actor.Actor, reportID uint, feedback string) (*services.DecisionResult, error)
	Assign(ctx context.Context, a actor.Actor, reportID uint) (*models.Report, error)
}

// ReportQueries is the read side of the report API.
type ReportQueries interface {
	ActiveReports(ctx context.Context, page, limit int) (*dto.ActiveReportList, error)
	Archive(ctx context.Context, status models.Status, page, limit int) (*dto.ArchiveList, error)
	Details(ctx context.Context, reportID uint) (*dto.ArchiveRow, error)
	MyReports(ctx context.Context, a actor.Actor, page, limit int) (*dto.ArchiveList, error)
}

var (
	_ ReportWorkflow = (*services.ReportWorkflowService)(nil)
	_ ReportQueries  = (*services.ReportQueryService)(nil)
)

// ReportHandler serves the pilot endpoints.
type ReportHandler struct {
	workflow ReportWorkflow
	queries  ReportQueries
}

func NewReportHandler(workflow ReportWorkflow, queries ReportQueries) *ReportHandler {
	return &ReportHandler{workflow: workflow, queries: queries}
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	return h.save(c, nil)
}

// Update handles PUT /api/reports/:id.
func (h *ReportHandler) Update(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.save(c, &id)
}

func (h *ReportHandler) save(c *fiber.Ctx, id *uint) error {
	a, err := actor.FromCtx(c)
	if err != nil {
		return writeError(c, err)
	}

	var req dto.SaveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	action, ok := lifecycle.ParseSaveAction(req.Action)
	if !ok {
		return badRequest(c, `action must be "draft" or "submit"`)
	}

	res, err := h.workflow.SaveReport(c.UserContext(), a, id, action, req.Fields())
	if err != nil {
		return writeError(c, err)
	}

	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.SaveReportResponse{
		ReportID: res.ReportID,
		StatusID: res.Status,
		Status:   res.Status.String(),
		Created:  res.Created,
	})
}

// Delete handles DELETE /api/reports/:id. Only the owner's drafts can go.
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	a, err := actor.FromCtx(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.workflow.DeleteDraft(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Mine handles GET /api/reports/mine.
func (h *ReportHandler) Mine(c *fiber.Ctx) error {
	a, err := actor.FromCtx(c)
	if err != nil {
		return writeError(c, err)
	}

	list, err := h.queries.MyReports(c.UserContext(), a, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Position handles GET /api/reports/position?payload=, rendering a stored
// location payload the way list views show it.
func (h *ReportHandler) Position(c *fiber.Ctx) error {
	return c.JSON(geo.DisplayPosition(c.Query("payload")))
}
