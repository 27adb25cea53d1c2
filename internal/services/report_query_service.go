package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/actor"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/geo"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/repository"
)

var ErrInvalidStatusFilter = errors.New("status must be Approved or Rejected")

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ReportQueryService builds the registrar and pilot listings.
type ReportQueryService struct {
	finder repository.ReportFinder
}

func NewReportQueryService(finder repository.ReportFinder) *ReportQueryService {
	return &ReportQueryService{finder: finder}
}

// ActiveReports lists reports waiting for review, newest first.
func (s *ReportQueryService) ActiveReports(ctx context.Context, page, limit int) (*dto.ActiveReportList, error) {
	page, limit = normalizePage(page, limit)

	reports, total, err := s.finder.FindReports(ctx, repository.ReportFilter{
		Statuses: []models.Status{models.StatusPending},
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		slog.Error("active reports query failed", "error", err.Error())
		return nil, ErrPersistence
	}

	rows := make([]dto.ActiveReportRow, 0, len(reports))
	for i := range reports {
		rows = append(rows, activeRow(&reports[i]))
	}

	return &dto.ActiveReportList{
		Reports:    rows,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Archive lists decided reports. A status of StatusNone means both Approved
// and Rejected; any other status is refused.
func (s *ReportQueryService) Archive(ctx context.Context, status models.Status, page, limit int) (*dto.ArchiveList, error) {
	statuses := []models.Status{models.StatusApproved, models.StatusRejected}
	switch status {
	case models.StatusNone:
	case models.StatusApproved, models.StatusRejected:
		statuses = []models.Status{status}
	default:
		return nil, ErrInvalidStatusFilter
	}

	page, limit = normalizePage(page, limit)
	reports, total, err := s.finder.FindReports(ctx, repository.ReportFilter{
		Statuses: statuses,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		slog.Error("archive query failed", "error", err.Error())
		return nil, ErrPersistence
	}

	return &dto.ArchiveList{
		Reports:    archiveRows(reports),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Details returns one report of any status.
func (s *ReportQueryService) Details(ctx context.Context, reportID uint) (*dto.ArchiveRow, error) {
	report, err := s.finder.FindReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		slog.Error("report details query failed", "report_id", reportID, "error", err.Error())
		return nil, ErrPersistence
	}
	row := archiveRow(report)
	return &row, nil
}

// MyReports lists the actor's own reports, drafts included.
func (s *ReportQueryService) MyReports(ctx context.Context, a actor.Actor, page, limit int) (*dto.ArchiveList, error) {
	page, limit = normalizePage(page, limit)
	owner := a.UserID

	reports, total, err := s.finder.FindReports(ctx, repository.ReportFilter{
		OwnerID: &owner,
		Limit:   limit,
		Offset:  (page - 1) * limit,
	})
	if err != nil {
		slog.Error("own reports query failed", "user_id", owner.String(), "error", err.Error())
		return nil, ErrPersistence
	}

	return &dto.ArchiveList{
		Reports:    archiveRows(reports),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func activeRow(r *models.Report) dto.ActiveReportRow {
	raw := ""
	if r.GeoLocation != nil {
		raw = *r.GeoLocation
	}
	position := geo.DisplayPositionOrRaw(raw)
	if position.Lat == nil && raw != "" {
		slog.Warn("report location not decodable", "report_id", r.ID)
	}

	row := dto.ActiveReportRow{
		ReportID:  r.ID,
		Title:     r.Title,
		Position:  position.Text,
		Height:    formatHeight(r.HeightInFeet),
		CreatedBy: r.User.Username,
		Status:    r.StatusID.String(),
	}
	if r.TimestampEntry != nil {
		row.CreatedAt = r.TimestampEntry.DateCreated
	}
	return row
}

func archiveRows(reports []models.Report) []dto.ArchiveRow {
	rows := make([]dto.ArchiveRow, 0, len(reports))
	for i := range reports {
		rows = append(rows, archiveRow(&reports[i]))
	}
	return rows
}

func archiveRow(r *models.Report) dto.ArchiveRow {
	loc, err := geo.DecodeNullable(r.GeoLocation)
	if err != nil && r.GeoLocation != nil {
		slog.Warn("report location not decodable", "report_id", r.ID, "error", err.Error())
	}

	row := dto.ArchiveRow{
		ReportID:     r.ID,
		Title:        r.Title,
		Pilot:        r.User.Username,
		StatusID:     int(r.StatusID),
		Status:       r.StatusID.String(),
		HeightInFeet: r.HeightInFeet,
		Description:  r.Description,
		Position:     geo.NotAvailable,
		Feedback:     r.Feedback,
		AssignedAt:   r.AssignedAt,
		DecisionAt:   r.DecisionAt,
	}
	if err == nil {
		row.Position = geo.Format(loc)
		lat, lng := loc.Primary.Lat, loc.Primary.Lng
		row.Latitude = &lat
		row.Longitude = &lng
	}
	if r.Category != nil {
		row.Category = r.Category.Name
	}
	if r.TimestampEntry != nil {
		row.CreatedAt = r.TimestampEntry.DateCreated
		row.UpdatedAt = r.TimestampEntry.DateOfLastChange
	}
	return row
}

func formatHeight(h *float64) string {
	if h == nil {
		return geo.NotAvailable
	}
	return strconv.FormatFloat(*h, 'f', -1, 64) + " ft"
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
