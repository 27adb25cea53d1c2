package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/actor"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/geo"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/repository"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrForbidden      = errors.New("registrar role required")
	ErrPersistence    = errors.New("the report could not be saved, please try again")
)

// SaveResult is returned by a successful save or submit.
type SaveResult struct {
	ReportID uint
	Status   models.Status
	Created  bool
}

// DecisionResult is returned by Approve and Reject.
type DecisionResult struct {
	ReportID uint
	Status   models.Status
	Previous models.Status
}

// ReportWorkflowService runs one lifecycle operation per call against a
// ReportStore. Every operation writes at most once.
type ReportWorkflowService struct {
	store             repository.ReportStore
	defaultCategoryID int
	now               func() time.Time
}

func NewReportWorkflowService(store repository.ReportStore, defaultCategoryID int) *ReportWorkflowService {
	return &ReportWorkflowService{
		store:             store,
		defaultCategoryID: defaultCategoryID,
		now:               time.Now,
	}
}

// CreateOrUpdateDraft saves the form as a Draft; only a title is required.
func (s *ReportWorkflowService) CreateOrUpdateDraft(ctx context.Context, a actor.Actor, reportID *uint, fields lifecycle.Fields) (*SaveResult, error) {
	return s.SaveReport(ctx, a, reportID, lifecycle.ActionDraft, fields)
}

// SubmitReport saves the form and sends it to review.
func (s *ReportWorkflowService) SubmitReport(ctx context.Context, a actor.Actor, reportID *uint, fields lifecycle.Fields) (*SaveResult, error) {
	return s.SaveReport(ctx, a, reportID, lifecycle.ActionSubmit, fields)
}

// SaveReport creates a report (reportID nil) or updates one of the actor's
// drafts. A *lifecycle.ValidationError leaves storage untouched.
func (s *ReportWorkflowService) SaveReport(ctx context.Context, a actor.Actor, reportID *uint, action lifecycle.Action, fields lifecycle.Fields) (*SaveResult, error) {
	if action != lifecycle.ActionDraft && action != lifecycle.ActionSubmit {
		return nil, fmt.Errorf("%w: %q is not a save action", lifecycle.ErrUnknownAction, action)
	}

	var (
		report  *models.Report
		ts      *models.TimestampEntry
		current = models.StatusNone
	)
	if reportID != nil {
		var err error
		report, ts, err = s.loadOwned(ctx, a, *reportID)
		if err != nil {
			return nil, err
		}
		current = report.StatusID
	} else {
		report = &models.Report{UserID: a.UserID}
		ts = &models.TimestampEntry{}
	}

	decision, err := lifecycle.Decide(current, action, fields)
	if err != nil {
		return nil, err
	}

	location, err := normalizeLocation(fields)
	if err != nil {
		return nil, err
	}

	lifecycle.Apply(decision, report, ts, fields, s.now())
	report.GeoLocation = &location
	if decision.SetDefaultCategory {
		category := s.defaultCategoryID
		report.CategoryID = &category
	}

	if err := s.store.SaveAll(ctx, report, ts); err != nil {
		slog.Error("report save failed",
			"action", string(action),
			"report_id", report.ID,
			"user_id", a.UserID.String(),
			"error", err.Error(),
		)
		return nil, ErrPersistence
	}

	slog.Info("report saved", "report_id", report.ID, "status", report.StatusID.String(), "action", string(action))
	return &SaveResult{ReportID: report.ID, Status: report.StatusID, Created: reportID == nil}, nil
}

// Approve marks a report Approved. An already decided report is
// overwritten; a draft is refused. A missing report is a no-op and yields a
// nil result with no error.
func (s *ReportWorkflowService) Approve(ctx context.Context, a actor.Actor, reportID uint, feedback string) (*DecisionResult, error) {
	return s.decide(ctx, a, reportID, lifecycle.ActionApprove, feedback)
}

// Reject marks a report Rejected with the same permissive rules as Approve.
func (s *ReportWorkflowService) Reject(ctx context.Context, a actor.Actor, reportID uint, feedback string) (*DecisionResult, error) {
	return s.decide(ctx, a, reportID, lifecycle.ActionReject, feedback)
}

func (s *ReportWorkflowService) decide(ctx context.Context, a actor.Actor, reportID uint, action lifecycle.Action, feedback string) (*DecisionResult, error) {
	if !a.CanReview() {
		return nil, ErrForbidden
	}

	report, err := s.load(ctx, reportID)
	if errors.Is(err, ErrReportNotFound) {
		slog.Warn("review target not found", "report_id", reportID, "action", string(action))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	decision, err := lifecycle.Decide(report.StatusID, action, lifecycle.Fields{})
	if err != nil {
		return nil, err
	}

	previous := report.StatusID
	if previous != models.StatusPending {
		slog.Warn("overwriting status of a report that is not pending",
			"report_id", reportID, "from", previous.String(), "to", decision.Next.String())
	}

	now := s.now()
	reviewer := a.UserID
	lifecycle.Apply(decision, report, nil, lifecycle.Fields{}, now)
	report.DecisionByUserID = &reviewer
	report.DecisionAt = &now
	if fb := strings.TrimSpace(feedback); fb != "" {
		report.Feedback = fb
	}

	if err := s.store.SaveAll(ctx, report, nil); err != nil {
		slog.Error("report decision failed",
			"action", string(action),
			"report_id", reportID,
			"user_id", a.UserID.String(),
			"error", err.Error(),
		)
		return nil, ErrPersistence
	}

	slog.Info("report decided", "report_id", reportID, "status", report.StatusID.String())
	return &DecisionResult{ReportID: reportID, Status: report.StatusID, Previous: previous}, nil
}

// DeleteDraft removes one of the actor's drafts and its timestamp. Reports
// that are missing, owned by someone else or no longer drafts all report
// ErrReportNotFound.
func (s *ReportWorkflowService) DeleteDraft(ctx context.Context, a actor.Actor, reportID uint) error {
	report, err := s.load(ctx, reportID)
	if err != nil {
		return err
	}
	if !report.OwnedBy(a.UserID) {
		return ErrReportNotFound
	}

	if _, err := lifecycle.Decide(report.StatusID, lifecycle.ActionDelete, lifecycle.Fields{}); err != nil {
		if errors.Is(err, lifecycle.ErrTransitionNotAllowed) {
			return ErrReportNotFound
		}
		return err
	}

	if err := s.store.DeleteAll(ctx, report); err != nil {
		slog.Error("report delete failed", "report_id", reportID, "user_id", a.UserID.String(), "error", err.Error())
		return ErrPersistence
	}

	slog.Info("draft deleted", "report_id", reportID)
	return nil
}

// Assign claims a pending report for the reviewing actor.
func (s *ReportWorkflowService) Assign(ctx context.Context, a actor.Actor, reportID uint) (*models.Report, error) {
	if !a.CanReview() {
		return nil, ErrForbidden
	}

	report, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.StatusID != models.StatusPending {
		return nil, fmt.Errorf("%w: cannot assign a %s report", lifecycle.ErrTransitionNotAllowed, report.StatusID)
	}

	now := s.now()
	reviewer := a.UserID
	report.AssignedToUserID = &reviewer
	report.AssignedAt = &now

	if err := s.store.SaveAll(ctx, report, nil); err != nil {
		slog.Error("report assign failed", "report_id", reportID, "user_id", a.UserID.String(), "error", err.Error())
		return nil, ErrPersistence
	}
	return report, nil
}

func (s *ReportWorkflowService) load(ctx context.Context, reportID uint) (*models.Report, error) {
	report, err := s.store.LoadReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		slog.Error("report load failed", "report_id", reportID, "error", err.Error())
		return nil, ErrPersistence
	}
	return report, nil
}

// loadOwned returns the actor's report and its timestamp. A report whose
// timestamp row has gone missing gets a fresh one on the next save.
func (s *ReportWorkflowService) loadOwned(ctx context.Context, a actor.Actor, reportID uint) (*models.Report, *models.TimestampEntry, error) {
	report, err := s.load(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	if !report.OwnedBy(a.UserID) {
		slog.Warn("report save by non-owner", "report_id", reportID, "user_id", a.UserID.String())
		return nil, nil, ErrReportNotFound
	}

	if report.DateID == nil {
		return report, &models.TimestampEntry{}, nil
	}
	ts, err := s.store.LoadTimestamp(ctx, *report.DateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("report timestamp missing", "report_id", reportID, "date_id", *report.DateID)
			return report, &models.TimestampEntry{}, nil
		}
		slog.Error("timestamp load failed", "report_id", reportID, "error", err.Error())
		return nil, nil, ErrPersistence
	}
	return report, ts, nil
}

// normalizeLocation keeps a drawn geometry verbatim and otherwise encodes
// the submitted coordinates.
func normalizeLocation(fields lifecycle.Fields) (string, error) {
	if geometry := strings.TrimSpace(fields.GeometryGeoJSON); geometry != "" {
		if _, err := geo.Decode(geometry); err != nil {
			slog.Warn("stored geometry is not decodable", "error", err.Error())
		}
		return geometry, nil
	}
	payload, err := geo.Encode(fields.Latitude, fields.Longitude)
	if err != nil {
		return "", fmt.Errorf("normalize location: %w", err)
	}
	return payload, nil
}
